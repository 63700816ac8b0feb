package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/entity"
)

// AuditLogRepository implements repository.AuditLogRepository for PostgreSQL.
type AuditLogRepository struct {
	db querier
}

func NewAuditLogRepository(db querier) *AuditLogRepository { return &AuditLogRepository{db: db} }

const auditLogColumns = `id, actor_id, action, resource, old_values, new_values, timestamp, ip_address`

func scanAuditLog(row interface{ Scan(...any) error }) (*entity.AuditLog, error) {
	var a entity.AuditLog
	err := row.Scan(&a.ID, &a.ActorID, &a.Action, &a.Resource, &a.OldValues, &a.NewValues, &a.Timestamp, &a.IPAddress)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	query := `INSERT INTO audit_logs (` + auditLogColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.ExecContext(ctx, query,
		log.ID, log.ActorID, log.Action, log.Resource, log.OldValues, log.NewValues, log.Timestamp, log.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func (r *AuditLogRepository) query(ctx context.Context, query string, args ...any) ([]*entity.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditLog
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AuditLogRepository) GetByActor(ctx context.Context, actorID uuid.UUID) ([]*entity.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE actor_id = $1 ORDER BY timestamp DESC`
	return r.query(ctx, query, actorID)
}

func (r *AuditLogRepository) GetByResource(ctx context.Context, resource string, resourceID uuid.UUID) ([]*entity.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE resource = $1 AND new_values LIKE '%' || $2 || '%' ORDER BY timestamp DESC`
	return r.query(ctx, query, resource, resourceID.String())
}

func (r *AuditLogRepository) ListRecent(ctx context.Context, limit int) ([]*entity.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs ORDER BY timestamp DESC LIMIT $1`
	return r.query(ctx, query, limit)
}

func (r *AuditLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count audit logs: %w", err)
	}
	return count, nil
}
