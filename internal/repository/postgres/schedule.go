package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// ScheduleRepository implements repository.ScheduleRepository for PostgreSQL.
type ScheduleRepository struct {
	db querier
}

func NewScheduleRepository(db querier) *ScheduleRepository { return &ScheduleRepository{db: db} }

const scheduleColumns = `
	id, week_start, week_end, title, status, created_by, approved_by,
	version, parent_id, created_at, updated_at, deleted_at`

func scanSchedule(row interface{ Scan(...any) error }) (*entity.Schedule, error) {
	var s entity.Schedule
	var status string
	err := row.Scan(
		&s.ID, &s.WeekStart, &s.WeekEnd, &s.Title, &status, &s.CreatedBy, &s.ApprovedBy,
		&s.Version, &s.ParentID, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Status = entity.ScheduleStatus(status)
	return &s, nil
}

func (r *ScheduleRepository) Create(ctx context.Context, s *entity.Schedule) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	query := `
		INSERT INTO schedules (
			id, week_start, week_end, title, status, created_by, approved_by,
			version, parent_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.WeekStart, s.WeekEnd, s.Title, string(s.Status), s.CreatedBy, s.ApprovedBy,
		s.Version, s.ParentID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1 AND deleted_at IS NULL`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Schedule", ResourceID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return s, nil
}

// GetByWeek returns the most recent (highest version) schedule for the
// given week, since a week may have several draft/archived versions.
func (r *ScheduleRepository) GetByWeek(ctx context.Context, weekStart time.Time) (*entity.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + ` FROM schedules
		WHERE week_start = $1 AND deleted_at IS NULL
		ORDER BY version DESC LIMIT 1
	`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, weekStart))
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Schedule", ResourceID: weekStart.Format("2006-01-02")}
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule by week: %w", err)
	}
	return s, nil
}

func (r *ScheduleRepository) ListByStatus(ctx context.Context, status entity.ScheduleStatus) ([]*entity.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE status = $1 AND deleted_at IS NULL ORDER BY week_start DESC`
	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var out []*entity.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ScheduleRepository) Update(ctx context.Context, s *entity.Schedule) error {
	query := `
		UPDATE schedules SET week_start=$2, week_end=$3, title=$4, status=$5,
			created_by=$6, approved_by=$7, version=$8, parent_id=$9, updated_at=$10
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		s.ID, s.WeekStart, s.WeekEnd, s.Title, string(s.Status), s.CreatedBy, s.ApprovedBy,
		s.Version, s.ParentID, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Schedule", ResourceID: s.ID.String()}
	}
	return nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE schedules SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Schedule", ResourceID: id.String()}
	}
	return nil
}

func (r *ScheduleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedules WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count schedules: %w", err)
	}
	return count, nil
}
