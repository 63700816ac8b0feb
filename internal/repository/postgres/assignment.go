package postgres

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// AssignmentRepository implements repository.AssignmentRepository for PostgreSQL.
type AssignmentRepository struct {
	db querier
}

func NewAssignmentRepository(db querier) *AssignmentRepository { return &AssignmentRepository{db: db} }

const assignmentColumns = `
	id, schedule_id, employee_id, shift_id, status, priority, notes,
	assigned_by, assigned_at, conflicts_resolved, auto_assigned,
	created_at, updated_at, deleted_at`

func scanAssignment(row interface{ Scan(...any) error }) (*entity.Assignment, error) {
	var a entity.Assignment
	var status string
	err := row.Scan(
		&a.ID, &a.ScheduleID, &a.EmployeeID, &a.ShiftID, &status, &a.Priority, &a.Notes,
		&a.AssignedBy, &a.AssignedAt, &a.ConflictsResolved, &a.AutoAssigned,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = entity.AssignmentStatus(status)
	return &a, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, a *entity.Assignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `
		INSERT INTO assignments (
			id, schedule_id, employee_id, shift_id, status, priority, notes,
			assigned_by, assigned_at, conflicts_resolved, auto_assigned, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.ScheduleID, a.EmployeeID, a.ShiftID, string(a.Status), a.Priority, a.Notes,
		a.AssignedBy, a.AssignedAt, a.ConflictsResolved, a.AutoAssigned, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return &repository.ValidationError{Field: "employee_id,shift_id", Message: "employee is already assigned to this shift"}
		}
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1 AND deleted_at IS NULL`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Assignment", ResourceID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

func (r *AssignmentRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AssignmentRepository) GetByShift(ctx context.Context, shiftID uuid.UUID) ([]*entity.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE shift_id = $1 AND deleted_at IS NULL ORDER BY created_at ASC`
	return r.query(ctx, query, shiftID)
}

func (r *AssignmentRepository) GetByEmployeeAndDateRange(ctx context.Context, employeeID uuid.UUID, start, end time.Time) ([]*entity.Assignment, error) {
	query := `
		SELECT a.id, a.schedule_id, a.employee_id, a.shift_id, a.status, a.priority, a.notes,
		       a.assigned_by, a.assigned_at, a.conflicts_resolved, a.auto_assigned,
		       a.created_at, a.updated_at, a.deleted_at
		FROM assignments a
		INNER JOIN shifts sh ON a.shift_id = sh.id
		WHERE a.employee_id = $1 AND sh.date >= $2 AND sh.date <= $3 AND a.deleted_at IS NULL
		ORDER BY sh.date ASC
	`
	return r.query(ctx, query, employeeID, start, end)
}

// encodeCursor/decodeCursor implement opaque keyset pagination cursors
// over (created_at, id), base64-encoded so callers never depend on the
// internal encoding.
func encodeCursor(createdAt time.Time, id uuid.UUID) string {
	raw := fmt.Sprintf("%d|%s", createdAt.UnixNano(), id.String())
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var nanos int64
	var idStr string
	if _, err := fmt.Sscanf(string(raw), "%d|%s", &nanos, &idStr); err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor: %w", err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("invalid cursor: %w", err)
	}
	return time.Unix(0, nanos), id, nil
}

// GetBySchedule paginates a schedule's assignments by (created_at, id)
// keyset rather than OFFSET, since a schedule can carry thousands of
// assignments and OFFSET pagination degrades linearly with page depth.
func (r *AssignmentRepository) GetBySchedule(ctx context.Context, scheduleID uuid.UUID, cursor string, limit int) (repository.AssignmentCursorPage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows *sql.Rows
	var err error
	if cursor == "" {
		query := `SELECT ` + assignmentColumns + ` FROM assignments
			WHERE schedule_id = $1 AND deleted_at IS NULL
			ORDER BY created_at ASC, id ASC LIMIT $2`
		rows, err = r.db.QueryContext(ctx, query, scheduleID, limit+1)
	} else {
		createdAt, id, decErr := decodeCursor(cursor)
		if decErr != nil {
			return repository.AssignmentCursorPage{}, decErr
		}
		query := `SELECT ` + assignmentColumns + ` FROM assignments
			WHERE schedule_id = $1 AND deleted_at IS NULL
			  AND (created_at, id) > ($2, $3)
			ORDER BY created_at ASC, id ASC LIMIT $4`
		rows, err = r.db.QueryContext(ctx, query, scheduleID, createdAt, id, limit+1)
	}
	if err != nil {
		return repository.AssignmentCursorPage{}, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var items []*entity.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return repository.AssignmentCursorPage{}, fmt.Errorf("scan assignment: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return repository.AssignmentCursorPage{}, fmt.Errorf("iterate assignments: %w", err)
	}

	page := repository.AssignmentCursorPage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
		last := page.Items[len(page.Items)-1]
		page.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, a *entity.Assignment) error {
	query := `
		UPDATE assignments SET schedule_id=$2, employee_id=$3, shift_id=$4, status=$5,
			priority=$6, notes=$7, conflicts_resolved=$8, updated_at=$9
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		a.ID, a.ScheduleID, a.EmployeeID, a.ShiftID, string(a.Status),
		a.Priority, a.Notes, a.ConflictsResolved, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Assignment", ResourceID: a.ID.String()}
	}
	return nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE assignments SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Assignment", ResourceID: id.String()}
	}
	return nil
}

func (r *AssignmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return count, nil
}

// GetAllByShiftIDs retrieves all assignments for multiple shift IDs in a
// single round trip, avoiding N+1 queries when rendering a schedule's
// shifts with their assignments attached.
func (r *AssignmentRepository) GetAllByShiftIDs(ctx context.Context, shiftIDs []uuid.UUID) ([]*entity.Assignment, error) {
	if len(shiftIDs) == 0 {
		return []*entity.Assignment{}, nil
	}
	query := `SELECT ` + assignmentColumns + ` FROM assignments
		WHERE shift_id = ANY($1) AND deleted_at IS NULL
		ORDER BY shift_id, created_at ASC`
	return r.query(ctx, query, pq.Array(shiftIDs))
}
