package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// NotificationRepository implements repository.NotificationRepository for PostgreSQL.
type NotificationRepository struct {
	db querier
}

func NewNotificationRepository(db querier) *NotificationRepository { return &NotificationRepository{db: db} }

const notificationColumns = `
	id, recipient_id, category, priority, title, body, is_read,
	created_at, expires_at, action_label, action_url`

func scanNotification(row interface{ Scan(...any) error }) (*entity.Notification, error) {
	var n entity.Notification
	var priority string
	err := row.Scan(
		&n.ID, &n.RecipientID, &n.Category, &priority, &n.Title, &n.Body, &n.IsRead,
		&n.CreatedAt, &n.ExpiresAt, &n.ActionLabel, &n.ActionURL,
	)
	if err != nil {
		return nil, err
	}
	n.Priority = entity.NotificationPriority(priority)
	return &n, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	query := `INSERT INTO notifications (` + notificationColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.RecipientID, n.Category, string(n.Priority), n.Title, n.Body, n.IsRead,
		n.CreatedAt, n.ExpiresAt, n.ActionLabel, n.ActionURL,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	n, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &repository.NotFoundError{ResourceType: "Notification", ResourceID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, offset, limit int) ([]*entity.Notification, int64, error) {
	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`
	listQuery := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		countQuery += ` AND is_read = false`
		listQuery += ` AND is_read = false`
	}
	listQuery += ` ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, recipientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listQuery, recipientID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var out []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Notification", ResourceID: id.String()}
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &repository.NotFoundError{ResourceType: "Notification", ResourceID: id.String()}
	}
	return nil
}
