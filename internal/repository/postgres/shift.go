package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// ShiftRepository implements repository.ShiftRepository for PostgreSQL.
type ShiftRepository struct {
	db querier
}

func NewShiftRepository(db querier) *ShiftRepository { return &ShiftRepository{db: db} }

func requirementsToArray(req map[string]struct{}) []string {
	out := make([]string, 0, len(req))
	for tag := range req {
		out = append(out, tag)
	}
	return out
}

func requirementsFromArray(tags []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		out[tag] = struct{}{}
	}
	return out
}

func scanShift(row interface{ Scan(...any) error }) (*entity.Shift, error) {
	var s entity.Shift
	var shiftType string
	var requirements []string

	err := row.Scan(
		&s.ID, &s.Date, &s.Start, &s.End, &shiftType, &s.DepartmentID,
		&s.RequiredStaff, &s.Priority, pq.Array(&requirements),
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	s.ShiftType = entity.ShiftType(shiftType)
	s.Requirements = requirementsFromArray(requirements)
	return &s, nil
}

const shiftColumns = `
	id, date, start_minutes, end_minutes, shift_type, department_id,
	required_staff, priority, requirements, created_at, updated_at, deleted_at`

func (r *ShiftRepository) Create(ctx context.Context, s *entity.Shift) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	query := `
		INSERT INTO shifts (
			id, date, start_minutes, end_minutes, shift_type, department_id,
			required_staff, priority, requirements, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Date, int(s.Start), int(s.End), string(s.ShiftType), s.DepartmentID,
		s.RequiredStaff, s.Priority, pq.Array(requirementsToArray(s.Requirements)),
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

func (r *ShiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1 AND deleted_at IS NULL`
	s, err := scanShift(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Shift", ResourceID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get shift: %w", err)
	}
	return s, nil
}

func (r *ShiftRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Shift, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query shifts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ShiftRepository) GetByDateRange(ctx context.Context, start, end time.Time, departmentID *uuid.UUID) ([]*entity.Shift, error) {
	if departmentID != nil {
		query := `SELECT ` + shiftColumns + ` FROM shifts
			WHERE date >= $1 AND date <= $2 AND department_id = $3 AND deleted_at IS NULL
			ORDER BY date, start_minutes`
		return r.query(ctx, query, start, end, *departmentID)
	}
	query := `SELECT ` + shiftColumns + ` FROM shifts
		WHERE date >= $1 AND date <= $2 AND deleted_at IS NULL
		ORDER BY date, start_minutes`
	return r.query(ctx, query, start, end)
}

// GetAllByIDs batch-fetches shifts to avoid N+1 queries when attaching
// shift details to a list of assignments.
func (r *ShiftRepository) GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Shift, error) {
	if len(ids) == 0 {
		return []*entity.Shift{}, nil
	}
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = ANY($1) AND deleted_at IS NULL`
	return r.query(ctx, query, pq.Array(ids))
}

func (r *ShiftRepository) Update(ctx context.Context, s *entity.Shift) error {
	query := `
		UPDATE shifts SET date=$2, start_minutes=$3, end_minutes=$4, shift_type=$5,
			department_id=$6, required_staff=$7, priority=$8, requirements=$9, updated_at=$10
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		s.ID, s.Date, int(s.Start), int(s.End), string(s.ShiftType),
		s.DepartmentID, s.RequiredStaff, s.Priority,
		pq.Array(requirementsToArray(s.Requirements)), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Shift", ResourceID: s.ID.String()}
	}
	return nil
}

func (r *ShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE shifts SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Shift", ResourceID: id.String()}
	}
	return nil
}

func (r *ShiftRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shifts WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count shifts: %w", err)
	}
	return count, nil
}
