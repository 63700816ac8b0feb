package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// EmployeeRepository implements repository.EmployeeRepository for PostgreSQL.
type EmployeeRepository struct {
	db querier
}

func NewEmployeeRepository(db querier) *EmployeeRepository { return &EmployeeRepository{db: db} }

func qualificationsToArray(q map[string]struct{}) []string {
	out := make([]string, 0, len(q))
	for tag := range q {
		out = append(out, tag)
	}
	return out
}

func qualificationsFromArray(tags []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		out[tag] = struct{}{}
	}
	return out
}

func (r *EmployeeRepository) Create(ctx context.Context, e *entity.Employee) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	avail, err := json.Marshal(e.Availability)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}

	query := `
		INSERT INTO employees (
			id, email, password_hash, prior_password_hashes, role, is_active, email_verified,
			account_locked, failed_login_attempts, password_must_change, department_id,
			first_name, last_name, phone, hire_date, hourly_rate, max_hours_per_week,
			qualifications, availability, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`
	_, err = r.db.ExecContext(ctx, query,
		e.ID, e.Email, e.PasswordHash, pq.Array(e.PriorPasswordHashes), string(e.Role),
		e.IsActive, e.EmailVerified, e.AccountLocked, e.FailedLoginAttempts, e.PasswordMustChange,
		e.DepartmentID, e.FirstName, e.LastName, e.Phone, e.HireDate, e.HourlyRate,
		e.MaxHoursPerWeek, pq.Array(qualificationsToArray(e.Qualifications)), avail,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) scanEmployee(row interface{ Scan(...any) error }) (*entity.Employee, error) {
	var e entity.Employee
	var qualifications []string
	var avail []byte
	var role string

	err := row.Scan(
		&e.ID, &e.Email, &e.PasswordHash, pq.Array(&e.PriorPasswordHashes), &role,
		&e.IsActive, &e.EmailVerified, &e.AccountLocked, &e.FailedLoginAttempts, &e.PasswordMustChange,
		&e.DepartmentID, &e.FirstName, &e.LastName, &e.Phone, &e.HireDate, &e.HourlyRate,
		&e.MaxHoursPerWeek, pq.Array(&qualifications), &avail,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Role = entity.Role(role)
	e.Qualifications = qualificationsFromArray(qualifications)
	if len(avail) > 0 {
		if err := json.Unmarshal(avail, &e.Availability); err != nil {
			return nil, fmt.Errorf("unmarshal availability: %w", err)
		}
	}
	return &e, nil
}

const employeeColumns = `
	id, email, password_hash, prior_password_hashes, role, is_active, email_verified,
	account_locked, failed_login_attempts, password_must_change, department_id,
	first_name, last_name, phone, hire_date, hourly_rate, max_hours_per_week,
	qualifications, availability, created_at, updated_at, deleted_at`

func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND deleted_at IS NULL`
	e, err := r.scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Employee", ResourceID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1 AND deleted_at IS NULL`
	e, err := r.scanEmployee(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Employee", ResourceID: email}
	}
	if err != nil {
		return nil, fmt.Errorf("get employee by email: %w", err)
	}
	return e, nil
}

func (r *EmployeeRepository) queryEmployees(ctx context.Context, query string, args ...any) ([]*entity.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var out []*entity.Employee
	for rows.Next() {
		e, err := r.scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return out, nil
}

func (r *EmployeeRepository) GetByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE department_id = $1 AND deleted_at IS NULL ORDER BY last_name, first_name`
	return r.queryEmployees(ctx, query, departmentID)
}

// List returns a small offset-paginated page, matching the admin-listing
// pagination style (small, bounded tables; see AssignmentRepository for
// the cursor style used on large tables).
func (r *EmployeeRepository) List(ctx context.Context, offset, limit int) ([]*entity.Employee, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE deleted_at IS NULL ORDER BY last_name, first_name OFFSET $1 LIMIT $2`
	items, err := r.queryEmployees(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *EmployeeRepository) GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Employee, error) {
	if len(ids) == 0 {
		return []*entity.Employee{}, nil
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1) AND deleted_at IS NULL`
	return r.queryEmployees(ctx, query, pq.Array(ids))
}

func (r *EmployeeRepository) Update(ctx context.Context, e *entity.Employee) error {
	avail, err := json.Marshal(e.Availability)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}

	query := `
		UPDATE employees SET
			email=$2, password_hash=$3, prior_password_hashes=$4, role=$5, is_active=$6,
			email_verified=$7, account_locked=$8, failed_login_attempts=$9, password_must_change=$10,
			department_id=$11, first_name=$12, last_name=$13, phone=$14, hire_date=$15,
			hourly_rate=$16, max_hours_per_week=$17, qualifications=$18, availability=$19, updated_at=$20
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		e.ID, e.Email, e.PasswordHash, pq.Array(e.PriorPasswordHashes), string(e.Role), e.IsActive,
		e.EmailVerified, e.AccountLocked, e.FailedLoginAttempts, e.PasswordMustChange,
		e.DepartmentID, e.FirstName, e.LastName, e.Phone, e.HireDate, e.HourlyRate,
		e.MaxHoursPerWeek, pq.Array(qualificationsToArray(e.Qualifications)), avail, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &repository.NotFoundError{ResourceType: "Employee", ResourceID: e.ID.String()}
	}
	return nil
}

// Delete soft-deletes an employee; the row stays for historical assignment
// and audit references.
func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE employees SET deleted_at = NOW(), is_active = false WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &repository.NotFoundError{ResourceType: "Employee", ResourceID: id.String()}
	}
	return nil
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM employees WHERE deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return count, nil
}
