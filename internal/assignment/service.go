package assignment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
	"github.com/shiftsync/scheduler/internal/solver"
	"github.com/shiftsync/scheduler/internal/validation"
)

// Service is the C6 component.
type Service struct {
	db repository.Database
}

func NewService(db repository.Database) *Service {
	return &Service{db: db}
}

// Filter narrows List queries; zero values mean "no constraint" except
// ScheduleID, which is required since assignments are always listed within
// the scope of one schedule.
type Filter struct {
	ScheduleID uuid.UUID
	EmployeeID *uuid.UUID
	Status     *entity.AssignmentStatus
	Cursor     string
	Limit      int
}

func (s *Service) List(ctx context.Context, f Filter) (repository.AssignmentCursorPage, error) {
	page, err := s.db.AssignmentRepository().GetBySchedule(ctx, f.ScheduleID, f.Cursor, f.Limit)
	if err != nil {
		return page, err
	}
	if f.EmployeeID == nil && f.Status == nil {
		return page, nil
	}
	filtered := make([]*entity.Assignment, 0, len(page.Items))
	for _, a := range page.Items {
		if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		filtered = append(filtered, a)
	}
	page.Items = filtered
	return page, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.Assignment, error) {
	a, err := s.db.AssignmentRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// loadCandidate resolves a (schedule, employee, shift) triple for
// validation; shared by Create and Update.
func (s *Service) loadCandidate(ctx context.Context, db store, scheduleID, employeeID, shiftID uuid.UUID, excludeID *uuid.UUID) (candidate, error) {
	schedule, err := db.ScheduleRepository().GetByID(ctx, scheduleID)
	if err != nil {
		return candidate{}, err
	}
	if schedule == nil {
		return candidate{}, &repository.NotFoundError{ResourceType: "schedule", ResourceID: scheduleID.String()}
	}
	employee, err := db.EmployeeRepository().GetByID(ctx, employeeID)
	if err != nil {
		return candidate{}, err
	}
	if employee == nil {
		return candidate{}, &repository.NotFoundError{ResourceType: "employee", ResourceID: employeeID.String()}
	}
	shift, err := db.ShiftRepository().GetByID(ctx, shiftID)
	if err != nil {
		return candidate{}, err
	}
	return candidate{Schedule: schedule, Employee: employee, Shift: shift, ExcludeID: excludeID}, nil
}

// Create validates and inserts one assignment, per §4.6's single-create path.
// When validation fails, it returns a nil Assignment alongside the failed
// validation.Result so the caller can render every violation at once.
func (s *Service) Create(ctx context.Context, scheduleID, employeeID, shiftID, assignedBy uuid.UUID, notes *string) (*entity.Assignment, *validation.Result, error) {
	c, err := s.loadCandidate(ctx, s.db, scheduleID, employeeID, shiftID, nil)
	if err != nil {
		return nil, nil, err
	}
	result, err := validatePipeline(ctx, s.db, c)
	if err != nil {
		return nil, nil, err
	}
	if !result.IsValid() {
		return nil, result, nil
	}

	a := &entity.Assignment{
		ID:         uuid.New(),
		ScheduleID: scheduleID,
		EmployeeID: employeeID,
		ShiftID:    shiftID,
		Status:     entity.AssignmentAssigned,
		Notes:      notes,
		AssignedBy: assignedBy,
		AssignedAt: entity.Now(),
		CreatedAt:  entity.Now(),
		UpdatedAt:  entity.Now(),
	}
	if err := s.db.AssignmentRepository().Create(ctx, a); err != nil {
		return nil, nil, fmt.Errorf("create assignment: %w", err)
	}
	return a, nil, nil
}

// BulkItem is one requested assignment within a CreateBulk call.
type BulkItem struct {
	EmployeeID uuid.UUID
	ShiftID    uuid.UUID
	Notes      *string
}

// BulkError describes why one item in a bulk request failed.
type BulkError struct {
	Index      int
	EmployeeID uuid.UUID
	ShiftID    uuid.UUID
	ErrorKind  string
	Message    string
}

// BulkResult is the aggregate outcome of CreateBulk.
type BulkResult struct {
	Created        []*entity.Assignment
	Errors         []BulkError
	TotalProcessed int
	TotalCreated   int
	TotalErrors    int
}

// CreateBulk applies each item inside its own savepoint so that one
// invalid tuple rolls back only its own insert, not the whole batch,
// the same savepoint isolation the shift bulk-create handler uses.
func (s *Service) CreateBulk(ctx context.Context, scheduleID, assignedBy uuid.UUID, items []BulkItem) (*BulkResult, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res := &BulkResult{TotalProcessed: len(items)}

	for i, item := range items {
		spName := fmt.Sprintf("bulk_assign_%d", i)
		if err := tx.Savepoint(ctx, spName); err != nil {
			return nil, fmt.Errorf("create savepoint: %w", err)
		}

		c, err := s.loadCandidate(ctx, tx, scheduleID, item.EmployeeID, item.ShiftID, nil)
		if err != nil {
			_ = tx.RollbackToSavepoint(ctx, spName)
			res.Errors = append(res.Errors, BulkError{Index: i, EmployeeID: item.EmployeeID, ShiftID: item.ShiftID, ErrorKind: "lookup_failed", Message: err.Error()})
			continue
		}
		result, err := validatePipeline(ctx, tx, c)
		if err != nil {
			_ = tx.RollbackToSavepoint(ctx, spName)
			res.Errors = append(res.Errors, BulkError{Index: i, EmployeeID: item.EmployeeID, ShiftID: item.ShiftID, ErrorKind: "validation_error", Message: err.Error()})
			continue
		}
		if !result.IsValid() {
			_ = tx.RollbackToSavepoint(ctx, spName)
			res.Errors = append(res.Errors, BulkError{
				Index: i, EmployeeID: item.EmployeeID, ShiftID: item.ShiftID,
				ErrorKind: "invalid", Message: result.Summary(),
			})
			continue
		}

		a := &entity.Assignment{
			ID:         uuid.New(),
			ScheduleID: scheduleID,
			EmployeeID: item.EmployeeID,
			ShiftID:    item.ShiftID,
			Status:     entity.AssignmentAssigned,
			Notes:      item.Notes,
			AssignedBy: assignedBy,
			AssignedAt: entity.Now(),
			CreatedAt:  entity.Now(),
			UpdatedAt:  entity.Now(),
		}
		if err := tx.AssignmentRepository().Create(ctx, a); err != nil {
			_ = tx.RollbackToSavepoint(ctx, spName)
			res.Errors = append(res.Errors, BulkError{Index: i, EmployeeID: item.EmployeeID, ShiftID: item.ShiftID, ErrorKind: "write_failed", Message: err.Error()})
			continue
		}
		if err := tx.ReleaseSavepoint(ctx, spName); err != nil {
			return nil, fmt.Errorf("release savepoint: %w", err)
		}
		res.Created = append(res.Created, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	res.TotalCreated = len(res.Created)
	res.TotalErrors = len(res.Errors)
	return res, nil
}

// ApplySolverPlan persists a solver.Plan as a batch of assignments, reusing
// the same per-item savepoint isolation as CreateBulk; unassigned shifts
// from the plan are not errors, they're simply omitted from Created.
func (s *Service) ApplySolverPlan(ctx context.Context, scheduleID, assignedBy uuid.UUID, plan *solver.Plan) (*BulkResult, error) {
	items := make([]BulkItem, 0, len(plan.Assignments))
	for _, pa := range plan.Assignments {
		items = append(items, BulkItem{EmployeeID: pa.EmployeeID, ShiftID: pa.ShiftID})
	}
	return s.CreateBulk(ctx, scheduleID, assignedBy, items)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, notes *string) (*entity.Assignment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status.IsTerminal() {
		return nil, ErrAlreadyTerminal
	}
	a.Notes = notes
	a.UpdatedAt = entity.Now()
	if err := s.db.AssignmentRepository().Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.AssignmentRepository().Delete(ctx, id)
}

// Confirm marks an assignment confirmed. Only the assigned employee may
// confirm, and only within the 48-hour window from AssignedAt.
func (s *Service) Confirm(ctx context.Context, id, actingEmployeeID uuid.UUID) (*entity.Assignment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.EmployeeID != actingEmployeeID {
		return nil, ErrNotAssignedEmployee
	}
	if a.Status.IsTerminal() {
		return nil, ErrAlreadyTerminal
	}
	if !a.WithinConfirmWindow(entity.Now()) {
		return nil, ErrConfirmWindowClosed
	}
	a.Status = entity.AssignmentConfirmed
	a.UpdatedAt = entity.Now()
	if err := s.db.AssignmentRepository().Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	return a, nil
}

// Decline marks an assignment declined, which is terminal and requires a
// reason for the audit trail.
func (s *Service) Decline(ctx context.Context, id, actingEmployeeID uuid.UUID, reason string) (*entity.Assignment, error) {
	if reason == "" {
		return nil, ErrDeclineNeedsReason
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.EmployeeID != actingEmployeeID {
		return nil, ErrNotAssignedEmployee
	}
	if a.Status.IsTerminal() {
		return nil, ErrAlreadyTerminal
	}
	if !a.WithinConfirmWindow(entity.Now()) {
		return nil, ErrConfirmWindowClosed
	}
	a.Status = entity.AssignmentDeclined
	a.Notes = &reason
	a.UpdatedAt = entity.Now()
	if err := s.db.AssignmentRepository().Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	return a, nil
}

// AutoExpireUnconfirmed transitions every assigned or pending assignment
// whose confirm window has elapsed into confirmed, per §4.6's auto-transition
// rule. internal/job runs it as a one-off task that publishing a schedule
// enqueues.
func (s *Service) AutoExpireUnconfirmed(ctx context.Context, scheduleID uuid.UUID) (int, error) {
	cursor := ""
	now := entity.Now()
	transitioned := 0
	for {
		page, err := s.db.AssignmentRepository().GetBySchedule(ctx, scheduleID, cursor, 200)
		if err != nil {
			return transitioned, err
		}
		for _, a := range page.Items {
			if a.Status != entity.AssignmentAssigned && a.Status != entity.AssignmentPending {
				continue
			}
			if a.WithinConfirmWindow(now) {
				continue
			}
			a.Status = entity.AssignmentConfirmed
			a.UpdatedAt = now
			if err := s.db.AssignmentRepository().Update(ctx, a); err != nil {
				return transitioned, err
			}
			transitioned++
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}
	return transitioned, nil
}

// ValidateSchedule re-runs the seven-step pipeline against every existing,
// non-terminal assignment in scheduleID without persisting anything, for
// the dry-run "schedule/validate" endpoint.
func (s *Service) ValidateSchedule(ctx context.Context, scheduleID uuid.UUID) (map[uuid.UUID]*validation.Result, error) {
	out := map[uuid.UUID]*validation.Result{}
	cursor := ""
	for {
		page, err := s.db.AssignmentRepository().GetBySchedule(ctx, scheduleID, cursor, 200)
		if err != nil {
			return nil, err
		}
		for _, a := range page.Items {
			if a.IsDeleted() || a.Status.IsTerminal() {
				continue
			}
			c, err := s.loadCandidate(ctx, s.db, scheduleID, a.EmployeeID, a.ShiftID, &a.ID)
			if err != nil {
				return nil, err
			}
			result, err := validatePipeline(ctx, s.db, c)
			if err != nil {
				return nil, err
			}
			if !result.IsValid() {
				out[a.ID] = result
			}
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}
	return out, nil
}

// CheckConflicts reports every other non-terminal assignment for the same
// employee whose shift overlaps this assignment's shift.
func (s *Service) CheckConflicts(ctx context.Context, id uuid.UUID) ([]*entity.Assignment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	shift, err := s.db.ShiftRepository().GetByID(ctx, a.ShiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, nil
	}
	weekStart, weekEnd := weekBounds(shift.Date)
	others, err := s.db.AssignmentRepository().GetByEmployeeAndDateRange(ctx, a.EmployeeID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	shiftIDs := make([]uuid.UUID, 0, len(others))
	byShift := map[uuid.UUID]*entity.Assignment{}
	for _, other := range others {
		if other.ID == a.ID || other.IsDeleted() || other.Status.IsTerminal() {
			continue
		}
		shiftIDs = append(shiftIDs, other.ShiftID)
		byShift[other.ShiftID] = other
	}
	if len(shiftIDs) == 0 {
		return nil, nil
	}
	shifts, err := s.db.ShiftRepository().GetAllByIDs(ctx, shiftIDs)
	if err != nil {
		return nil, err
	}
	var conflicts []*entity.Assignment
	for _, other := range shifts {
		if shift.Overlaps(other) {
			conflicts = append(conflicts, byShift[other.ID])
		}
	}
	return conflicts, nil
}
