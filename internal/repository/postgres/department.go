package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// DepartmentRepository implements repository.DepartmentRepository for PostgreSQL.
type DepartmentRepository struct {
	db querier
}

func NewDepartmentRepository(db querier) *DepartmentRepository { return &DepartmentRepository{db: db} }

func scanDepartment(row interface{ Scan(...any) error }) (*entity.Department, error) {
	var d entity.Department
	err := row.Scan(&d.ID, &d.Name, &d.ParentID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *entity.Department) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	query := `INSERT INTO departments (id, name, parent_id, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`
	_, err := r.db.ExecContext(ctx, query, d.ID, d.Name, d.ParentID, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Department, error) {
	query := `SELECT id, name, parent_id, created_at, updated_at FROM departments WHERE id = $1`
	d, err := scanDepartment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Department", ResourceID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get department: %w", err)
	}
	return d, nil
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*entity.Department, error) {
	query := `SELECT id, name, parent_id, created_at, updated_at FROM departments ORDER BY name`
	return r.query(ctx, query)
}

func (r *DepartmentRepository) GetChildren(ctx context.Context, parentID uuid.UUID) ([]*entity.Department, error) {
	query := `SELECT id, name, parent_id, created_at, updated_at FROM departments WHERE parent_id = $1 ORDER BY name`
	return r.query(ctx, query, parentID)
}

func (r *DepartmentRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Department, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DepartmentRepository) Update(ctx context.Context, d *entity.Department) error {
	query := `UPDATE departments SET name=$2, parent_id=$3, updated_at=$4 WHERE id=$1`
	result, err := r.db.ExecContext(ctx, query, d.ID, d.Name, d.ParentID, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Department", ResourceID: d.ID.String()}
	}
	return nil
}

// Delete removes a department. Hard delete is acceptable here since
// departments carry no history of their own; employees referencing a
// deleted department fall back to department_id = NULL via a foreign key
// ON DELETE SET NULL.
func (r *DepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Department", ResourceID: id.String()}
	}
	return nil
}

func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM departments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count departments: %w", err)
	}
	return count, nil
}
