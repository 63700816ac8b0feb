// Package repository defines storage-layer interfaces implemented by
// internal/repository/postgres.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/entity"
)

// Database provides access to all repositories and transaction control.
type Database interface {
	BeginTx(ctx context.Context) (Transaction, error)

	EmployeeRepository() EmployeeRepository
	DepartmentRepository() DepartmentRepository
	ShiftRepository() ShiftRepository
	ScheduleRepository() ScheduleRepository
	AssignmentRepository() AssignmentRepository
	RuleRepository() RuleRepository
	NotificationRepository() NotificationRepository
	HistoryRepository() HistoryRepository
	AuditLogRepository() AuditLogRepository

	Close() error
	Health(ctx context.Context) error
}

// Transaction is a unit of work over the same repository accessors as
// Database, plus SAVEPOINT support used by bulk assignment creation to
// let individual items fail without aborting the whole batch.
type Transaction interface {
	Commit() error
	Rollback() error

	// Savepoint establishes a named savepoint; RollbackToSavepoint undoes only the
	// work since that savepoint, leaving the rest of the transaction
	// intact. name must be a valid SQL identifier (no user input).
	Savepoint(ctx context.Context, name string) error
	RollbackToSavepoint(ctx context.Context, name string) error
	ReleaseSavepoint(ctx context.Context, name string) error

	EmployeeRepository() EmployeeRepository
	DepartmentRepository() DepartmentRepository
	ShiftRepository() ShiftRepository
	ScheduleRepository() ScheduleRepository
	AssignmentRepository() AssignmentRepository
	RuleRepository() RuleRepository
	NotificationRepository() NotificationRepository
	HistoryRepository() HistoryRepository
	AuditLogRepository() AuditLogRepository
}

// EmployeeRepository defines data access operations for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)
	GetByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*entity.Employee, error)
	List(ctx context.Context, offset, limit int) ([]*entity.Employee, int64, error)
	Update(ctx context.Context, e *entity.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	// GetAllByIDs is a batch fetch used to avoid N+1 queries when
	// attaching employees to a list of assignments.
	GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Employee, error)
}

// DepartmentRepository defines data access operations for departments.
type DepartmentRepository interface {
	Create(ctx context.Context, d *entity.Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Department, error)
	GetAll(ctx context.Context) ([]*entity.Department, error)
	GetChildren(ctx context.Context, parentID uuid.UUID) ([]*entity.Department, error)
	Update(ctx context.Context, d *entity.Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// ShiftRepository defines data access operations for shifts.
type ShiftRepository interface {
	Create(ctx context.Context, s *entity.Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error)
	GetByDateRange(ctx context.Context, start, end time.Time, departmentID *uuid.UUID) ([]*entity.Shift, error)
	Update(ctx context.Context, s *entity.Shift) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Shift, error)
}

// ScheduleRepository defines data access operations for schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, s *entity.Schedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	GetByWeek(ctx context.Context, weekStart time.Time) (*entity.Schedule, error)
	ListByStatus(ctx context.Context, status entity.ScheduleStatus) ([]*entity.Schedule, error)
	Update(ctx context.Context, s *entity.Schedule) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// AssignmentCursorPage is one page of a cursor-paginated assignment query.
// Cursor is opaque to callers and should be round-tripped verbatim.
type AssignmentCursorPage struct {
	Items      []*entity.Assignment
	NextCursor string
	HasMore    bool
}

// AssignmentRepository defines data access operations for assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, a *entity.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error)
	GetByShift(ctx context.Context, shiftID uuid.UUID) ([]*entity.Assignment, error)
	GetByEmployeeAndDateRange(ctx context.Context, employeeID uuid.UUID, start, end time.Time) ([]*entity.Assignment, error)
	GetBySchedule(ctx context.Context, scheduleID uuid.UUID, cursor string, limit int) (AssignmentCursorPage, error)
	Update(ctx context.Context, a *entity.Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	// GetAllByShiftIDs is a batch fetch used to avoid N+1 queries when
	// rendering a schedule's shifts with their assignments attached.
	GetAllByShiftIDs(ctx context.Context, shiftIDs []uuid.UUID) ([]*entity.Assignment, error)
}

// RuleRepository defines data access operations for scheduling rules.
type RuleRepository interface {
	Create(ctx context.Context, r *entity.Rule) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Rule, error)
	GetActive(ctx context.Context, employeeID *uuid.UUID) ([]*entity.Rule, error)
	Update(ctx context.Context, r *entity.Rule) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// NotificationRepository defines data access operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
	GetByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, offset, limit int) ([]*entity.Notification, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HistoryCursorPage is one page of a cursor-paginated history query.
type HistoryCursorPage struct {
	Items      []*entity.HistoryEntry
	NextCursor string
	HasMore    bool
}

// HistoryRepository defines data access operations for the append-only
// employee field-change log.
type HistoryRepository interface {
	Create(ctx context.Context, h *entity.HistoryEntry) error
	GetByEmployee(ctx context.Context, employeeID uuid.UUID, cursor string, limit int) (HistoryCursorPage, error)
}

// AuditLogRepository defines data access operations for the coarse,
// free-text compliance audit log.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	GetByActor(ctx context.Context, actorID uuid.UUID) ([]*entity.AuditLog, error)
	GetByResource(ctx context.Context, resource string, resourceID uuid.UUID) ([]*entity.AuditLog, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.AuditLog, error)
	Count(ctx context.Context) (int64, error)
}

// NotFoundError represents a record-not-found error.
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.ResourceType + " " + e.ResourceID
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// ValidationError represents a storage-layer validation error, e.g. a
// unique-constraint violation surfaced from the database driver.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
