// Package postgres implements repository.Database against PostgreSQL via
// database/sql and github.com/lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/shiftsync/scheduler/internal/repository"
)

// querier is satisfied by both *sql.DB and *sql.Tx, letting every
// repository struct be constructed identically inside or outside a
// transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DB wraps a *sql.DB and exposes the full repository.Database surface.
type DB struct {
	conn *sql.DB
}

// New opens a PostgreSQL connection pool and verifies connectivity.
func New(connString string, maxOpen, maxIdle int, connLifetime time.Duration) (*DB, error) {
	sqldb, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqldb.SetMaxOpenConns(maxOpen)
	sqldb.SetMaxIdleConns(maxIdle)
	sqldb.SetConnMaxLifetime(connLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{conn: sqldb}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

func (db *DB) Health(ctx context.Context) error { return db.conn.PingContext(ctx) }

func (db *DB) EmployeeRepository() repository.EmployeeRepository {
	return &EmployeeRepository{db: db.conn}
}
func (db *DB) DepartmentRepository() repository.DepartmentRepository {
	return &DepartmentRepository{db: db.conn}
}
func (db *DB) ShiftRepository() repository.ShiftRepository { return &ShiftRepository{db: db.conn} }
func (db *DB) ScheduleRepository() repository.ScheduleRepository {
	return &ScheduleRepository{db: db.conn}
}
func (db *DB) AssignmentRepository() repository.AssignmentRepository {
	return &AssignmentRepository{db: db.conn}
}
func (db *DB) RuleRepository() repository.RuleRepository { return &RuleRepository{db: db.conn} }
func (db *DB) NotificationRepository() repository.NotificationRepository {
	return &NotificationRepository{db: db.conn}
}
func (db *DB) HistoryRepository() repository.HistoryRepository {
	return &HistoryRepository{db: db.conn}
}
func (db *DB) AuditLogRepository() repository.AuditLogRepository {
	return &AuditLogRepository{db: db.conn}
}

// BeginTx starts a transaction and returns it wrapped as repository.Transaction.
func (db *DB) BeginTx(ctx context.Context) (repository.Transaction, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a *sql.Tx and exposes the same repository accessors as DB, plus
// named-savepoint control used by bulk-assignment creation to isolate a
// single item's failure from the rest of the batch.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

// savepointIdentifier restricts names to what this package itself passes
// in (short alphanumeric tokens), since SAVEPOINT does not accept bind
// parameters and the name is interpolated directly into the statement.
func savepointIdentifier(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for _, r := range name {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func (t *Tx) Savepoint(ctx context.Context, name string) error {
	if !savepointIdentifier(name) {
		return fmt.Errorf("invalid savepoint name %q", name)
	}
	_, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name)
	return err
}

func (t *Tx) RollbackToSavepoint(ctx context.Context, name string) error {
	if !savepointIdentifier(name) {
		return fmt.Errorf("invalid savepoint name %q", name)
	}
	_, err := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name)
	return err
}

func (t *Tx) ReleaseSavepoint(ctx context.Context, name string) error {
	if !savepointIdentifier(name) {
		return fmt.Errorf("invalid savepoint name %q", name)
	}
	_, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name)
	return err
}

func (t *Tx) EmployeeRepository() repository.EmployeeRepository {
	return &EmployeeRepository{db: t.tx}
}
func (t *Tx) DepartmentRepository() repository.DepartmentRepository {
	return &DepartmentRepository{db: t.tx}
}
func (t *Tx) ShiftRepository() repository.ShiftRepository { return &ShiftRepository{db: t.tx} }
func (t *Tx) ScheduleRepository() repository.ScheduleRepository {
	return &ScheduleRepository{db: t.tx}
}
func (t *Tx) AssignmentRepository() repository.AssignmentRepository {
	return &AssignmentRepository{db: t.tx}
}
func (t *Tx) RuleRepository() repository.RuleRepository { return &RuleRepository{db: t.tx} }
func (t *Tx) NotificationRepository() repository.NotificationRepository {
	return &NotificationRepository{db: t.tx}
}
func (t *Tx) HistoryRepository() repository.HistoryRepository {
	return &HistoryRepository{db: t.tx}
}
func (t *Tx) AuditLogRepository() repository.AuditLogRepository {
	return &AuditLogRepository{db: t.tx}
}
