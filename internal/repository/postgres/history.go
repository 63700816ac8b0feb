package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// HistoryRepository implements repository.HistoryRepository for PostgreSQL,
// an append-only table: rows are never updated or deleted.
type HistoryRepository struct {
	db querier
}

func NewHistoryRepository(db querier) *HistoryRepository { return &HistoryRepository{db: db} }

const historyColumns = `id, employee_id, field, old_value, new_value, changed_by_id, changed_at, reason`

func scanHistory(row interface{ Scan(...any) error }) (*entity.HistoryEntry, error) {
	var h entity.HistoryEntry
	err := row.Scan(&h.ID, &h.EmployeeID, &h.Field, &h.OldValue, &h.NewValue, &h.ChangedByID, &h.ChangedAt, &h.Reason)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HistoryRepository) Create(ctx context.Context, h *entity.HistoryEntry) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	query := `INSERT INTO employee_history (` + historyColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.ExecContext(ctx, query, h.ID, h.EmployeeID, h.Field, h.OldValue, h.NewValue, h.ChangedByID, h.ChangedAt, h.Reason)
	if err != nil {
		return fmt.Errorf("create history entry: %w", err)
	}
	return nil
}

// GetByEmployee paginates an employee's history by (changed_at, id)
// keyset, the same pattern as AssignmentRepository.GetBySchedule, since
// a long-tenured employee can accumulate thousands of entries.
func (r *HistoryRepository) GetByEmployee(ctx context.Context, employeeID uuid.UUID, cursor string, limit int) (repository.HistoryCursorPage, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows *sql.Rows
	var err error
	if cursor == "" {
		query := `SELECT ` + historyColumns + ` FROM employee_history
			WHERE employee_id = $1
			ORDER BY changed_at ASC, id ASC LIMIT $2`
		rows, err = r.db.QueryContext(ctx, query, employeeID, limit+1)
	} else {
		changedAt, id, decErr := decodeCursor(cursor)
		if decErr != nil {
			return repository.HistoryCursorPage{}, decErr
		}
		query := `SELECT ` + historyColumns + ` FROM employee_history
			WHERE employee_id = $1 AND (changed_at, id) > ($2, $3)
			ORDER BY changed_at ASC, id ASC LIMIT $4`
		rows, err = r.db.QueryContext(ctx, query, employeeID, changedAt, id, limit+1)
	}
	if err != nil {
		return repository.HistoryCursorPage{}, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var items []*entity.HistoryEntry
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return repository.HistoryCursorPage{}, fmt.Errorf("scan history entry: %w", err)
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return repository.HistoryCursorPage{}, fmt.Errorf("iterate history: %w", err)
	}

	page := repository.HistoryCursorPage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
		last := page.Items[len(page.Items)-1]
		page.NextCursor = encodeCursor(last.ChangedAt, last.ID)
	}
	return page, nil
}
