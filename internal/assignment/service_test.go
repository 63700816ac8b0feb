package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
)

// fakeDB is a minimal in-memory repository.Database, grounded on the
// mutex-guarded-map mocks in tests/mocks but widened to the accessor set
// internal/assignment actually drives (savepoints, cursor pages, batch
// fetches). BeginTx returns a view over the same maps; savepoints snapshot
// and restore the assignment map only, since that is the only table the
// assignment engine writes to within a transaction.
type fakeDB struct {
	employees   map[uuid.UUID]*entity.Employee
	schedules   map[uuid.UUID]*entity.Schedule
	shifts      map[uuid.UUID]*entity.Shift
	assignments map[uuid.UUID]*entity.Assignment
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		employees:   map[uuid.UUID]*entity.Employee{},
		schedules:   map[uuid.UUID]*entity.Schedule{},
		shifts:      map[uuid.UUID]*entity.Shift{},
		assignments: map[uuid.UUID]*entity.Assignment{},
	}
}

func (f *fakeDB) BeginTx(ctx context.Context) (repository.Transaction, error) {
	return &fakeTx{db: f, snapshots: map[string]map[uuid.UUID]*entity.Assignment{}}, nil
}
func (f *fakeDB) EmployeeRepository() repository.EmployeeRepository     { return fakeEmployees{f} }
func (f *fakeDB) DepartmentRepository() repository.DepartmentRepository { return nil }
func (f *fakeDB) ShiftRepository() repository.ShiftRepository           { return fakeShifts{f} }
func (f *fakeDB) ScheduleRepository() repository.ScheduleRepository     { return fakeSchedules{f} }
func (f *fakeDB) AssignmentRepository() repository.AssignmentRepository { return fakeAssignments{f} }
func (f *fakeDB) RuleRepository() repository.RuleRepository             { return nil }
func (f *fakeDB) NotificationRepository() repository.NotificationRepository { return nil }
func (f *fakeDB) HistoryRepository() repository.HistoryRepository       { return nil }
func (f *fakeDB) AuditLogRepository() repository.AuditLogRepository     { return nil }
func (f *fakeDB) Close() error                                          { return nil }
func (f *fakeDB) Health(ctx context.Context) error                      { return nil }

// fakeTx snapshots the assignment map on Savepoint and restores it on
// RollbackToSavepoint, mirroring what a real SAVEPOINT/ROLLBACK TO pair does
// for one table.
type fakeTx struct {
	db        *fakeDB
	snapshots map[string]map[uuid.UUID]*entity.Assignment
}

func (t *fakeTx) Commit() error   { return nil }
func (t *fakeTx) Rollback() error { return nil }

func (t *fakeTx) Savepoint(ctx context.Context, name string) error {
	snap := make(map[uuid.UUID]*entity.Assignment, len(t.db.assignments))
	for k, v := range t.db.assignments {
		cp := *v
		snap[k] = &cp
	}
	t.snapshots[name] = snap
	return nil
}

func (t *fakeTx) RollbackToSavepoint(ctx context.Context, name string) error {
	snap, ok := t.snapshots[name]
	if !ok {
		return nil
	}
	t.db.assignments = snap
	return nil
}

func (t *fakeTx) ReleaseSavepoint(ctx context.Context, name string) error {
	delete(t.snapshots, name)
	return nil
}

func (t *fakeTx) EmployeeRepository() repository.EmployeeRepository         { return fakeEmployees{t.db} }
func (t *fakeTx) DepartmentRepository() repository.DepartmentRepository     { return nil }
func (t *fakeTx) ShiftRepository() repository.ShiftRepository               { return fakeShifts{t.db} }
func (t *fakeTx) ScheduleRepository() repository.ScheduleRepository         { return fakeSchedules{t.db} }
func (t *fakeTx) AssignmentRepository() repository.AssignmentRepository     { return fakeAssignments{t.db} }
func (t *fakeTx) RuleRepository() repository.RuleRepository                 { return nil }
func (t *fakeTx) NotificationRepository() repository.NotificationRepository { return nil }
func (t *fakeTx) HistoryRepository() repository.HistoryRepository           { return nil }
func (t *fakeTx) AuditLogRepository() repository.AuditLogRepository         { return nil }

type fakeEmployees struct{ f *fakeDB }

func (r fakeEmployees) Create(ctx context.Context, e *entity.Employee) error {
	r.f.employees[e.ID] = e
	return nil
}
func (r fakeEmployees) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	return r.f.employees[id], nil
}
func (r fakeEmployees) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	for _, e := range r.f.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, nil
}
func (r fakeEmployees) GetByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*entity.Employee, error) {
	return nil, nil
}
func (r fakeEmployees) List(ctx context.Context, offset, limit int) ([]*entity.Employee, int64, error) {
	return nil, 0, nil
}
func (r fakeEmployees) Update(ctx context.Context, e *entity.Employee) error {
	r.f.employees[e.ID] = e
	return nil
}
func (r fakeEmployees) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.f.employees, id)
	return nil
}
func (r fakeEmployees) Count(ctx context.Context) (int64, error) { return int64(len(r.f.employees)), nil }
func (r fakeEmployees) GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Employee, error) {
	out := make([]*entity.Employee, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.f.employees[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeShifts struct{ f *fakeDB }

func (r fakeShifts) Create(ctx context.Context, s *entity.Shift) error {
	r.f.shifts[s.ID] = s
	return nil
}
func (r fakeShifts) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	return r.f.shifts[id], nil
}
func (r fakeShifts) GetByDateRange(ctx context.Context, start, end time.Time, departmentID *uuid.UUID) ([]*entity.Shift, error) {
	return nil, nil
}
func (r fakeShifts) Update(ctx context.Context, s *entity.Shift) error {
	r.f.shifts[s.ID] = s
	return nil
}
func (r fakeShifts) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.f.shifts, id)
	return nil
}
func (r fakeShifts) Count(ctx context.Context) (int64, error) { return int64(len(r.f.shifts)), nil }
func (r fakeShifts) GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Shift, error) {
	out := make([]*entity.Shift, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.f.shifts[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSchedules struct{ f *fakeDB }

func (r fakeSchedules) Create(ctx context.Context, s *entity.Schedule) error {
	r.f.schedules[s.ID] = s
	return nil
}
func (r fakeSchedules) GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	return r.f.schedules[id], nil
}
func (r fakeSchedules) GetByWeek(ctx context.Context, weekStart time.Time) (*entity.Schedule, error) {
	return nil, nil
}
func (r fakeSchedules) ListByStatus(ctx context.Context, status entity.ScheduleStatus) ([]*entity.Schedule, error) {
	return nil, nil
}
func (r fakeSchedules) Update(ctx context.Context, s *entity.Schedule) error {
	r.f.schedules[s.ID] = s
	return nil
}
func (r fakeSchedules) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.f.schedules, id)
	return nil
}
func (r fakeSchedules) Count(ctx context.Context) (int64, error) { return int64(len(r.f.schedules)), nil }

type fakeAssignments struct{ f *fakeDB }

func (r fakeAssignments) Create(ctx context.Context, a *entity.Assignment) error {
	r.f.assignments[a.ID] = a
	return nil
}
func (r fakeAssignments) GetByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error) {
	return r.f.assignments[id], nil
}
func (r fakeAssignments) GetByShift(ctx context.Context, shiftID uuid.UUID) ([]*entity.Assignment, error) {
	var out []*entity.Assignment
	for _, a := range r.f.assignments {
		if a.ShiftID == shiftID {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r fakeAssignments) GetByEmployeeAndDateRange(ctx context.Context, employeeID uuid.UUID, start, end time.Time) ([]*entity.Assignment, error) {
	var out []*entity.Assignment
	for _, a := range r.f.assignments {
		if a.EmployeeID != employeeID {
			continue
		}
		shift := r.f.shifts[a.ShiftID]
		if shift == nil {
			continue
		}
		if !shift.Date.Before(start) && shift.Date.Before(end) {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r fakeAssignments) GetBySchedule(ctx context.Context, scheduleID uuid.UUID, cursor string, limit int) (repository.AssignmentCursorPage, error) {
	var out []*entity.Assignment
	for _, a := range r.f.assignments {
		if a.ScheduleID == scheduleID {
			out = append(out, a)
		}
	}
	return repository.AssignmentCursorPage{Items: out}, nil
}
func (r fakeAssignments) Update(ctx context.Context, a *entity.Assignment) error {
	r.f.assignments[a.ID] = a
	return nil
}
func (r fakeAssignments) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.f.assignments, id)
	return nil
}
func (r fakeAssignments) Count(ctx context.Context) (int64, error) { return int64(len(r.f.assignments)), nil }
func (r fakeAssignments) GetAllByShiftIDs(ctx context.Context, shiftIDs []uuid.UUID) ([]*entity.Assignment, error) {
	set := make(map[uuid.UUID]struct{}, len(shiftIDs))
	for _, id := range shiftIDs {
		set[id] = struct{}{}
	}
	var out []*entity.Assignment
	for _, a := range r.f.assignments {
		if _, ok := set[a.ShiftID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func seedCandidate(db *fakeDB, qualified bool) (scheduleID, employeeID, shiftID uuid.UUID) {
	now := entity.Now()
	sched := &entity.Schedule{ID: uuid.New(), Status: entity.ScheduleDraft, WeekStart: now, WeekEnd: now.AddDate(0, 0, 6)}
	db.schedules[sched.ID] = sched

	avail := entity.Availability{}
	for d := entity.Sunday; d <= entity.Saturday; d++ {
		avail[d] = entity.DayAvailability{Available: true, Start: 0, End: 24 * 60}
	}
	emp := &entity.Employee{
		ID: uuid.New(), IsActive: true, MaxHoursPerWeek: 40,
		Qualifications: map[string]struct{}{}, Availability: avail,
	}
	if qualified {
		emp.Qualifications["rn"] = struct{}{}
	}
	db.employees[emp.ID] = emp

	start, _ := entity.ParseTimeOfDay("08:00")
	end, _ := entity.ParseTimeOfDay("16:00")
	shift := &entity.Shift{
		ID: uuid.New(), Date: now, Start: start, End: end,
		Requirements: map[string]struct{}{"rn": {}}, RequiredStaff: 1,
	}
	db.shifts[shift.ID] = shift

	return sched.ID, emp.ID, shift.ID
}

func TestCreateBulkIsolatesFailureToOneItem(t *testing.T) {
	db := newFakeDB()
	scheduleID, goodEmployee, goodShift := seedCandidate(db, true)
	_, badEmployee, badShift := seedCandidate(db, false) // missing the "rn" qualification

	svc := NewService(db)
	result, err := svc.CreateBulk(context.Background(), scheduleID, uuid.New(), []BulkItem{
		{EmployeeID: goodEmployee, ShiftID: goodShift},
		{EmployeeID: badEmployee, ShiftID: badShift},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalCreated)
	require.Equal(t, 1, result.TotalErrors)
	require.Len(t, db.assignments, 1, "the failed item's savepoint rollback must not leave a row behind")
}

func TestCreateBulkRepeatedTupleIsNotDuplicated(t *testing.T) {
	db := newFakeDB()
	scheduleID, employeeID, shiftID := seedCandidate(db, true)

	svc := NewService(db)
	items := []BulkItem{{EmployeeID: employeeID, ShiftID: shiftID}, {EmployeeID: employeeID, ShiftID: shiftID}}
	result, err := svc.CreateBulk(context.Background(), scheduleID, uuid.New(), items)
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalCreated, "second item duplicates the first and must be rejected, not inserted twice")
	require.Equal(t, 1, result.TotalErrors)
}

func TestConfirmOutsideWindowIsRejected(t *testing.T) {
	db := newFakeDB()
	scheduleID, employeeID, shiftID := seedCandidate(db, true)
	a := &entity.Assignment{
		ID: uuid.New(), ScheduleID: scheduleID, EmployeeID: employeeID, ShiftID: shiftID,
		Status: entity.AssignmentAssigned, AssignedAt: entity.Now().Add(-49 * time.Hour),
	}
	db.assignments[a.ID] = a

	svc := NewService(db)
	_, err := svc.Confirm(context.Background(), a.ID, employeeID)
	require.ErrorIs(t, err, ErrConfirmWindowClosed)
}

func TestAutoExpireUnconfirmedTransitionsOnlyElapsedAssignments(t *testing.T) {
	db := newFakeDB()
	scheduleID, employeeID, shiftID := seedCandidate(db, true)

	stale := &entity.Assignment{
		ID: uuid.New(), ScheduleID: scheduleID, EmployeeID: employeeID, ShiftID: shiftID,
		Status: entity.AssignmentAssigned, AssignedAt: entity.Now().Add(-49 * time.Hour),
	}
	fresh := &entity.Assignment{
		ID: uuid.New(), ScheduleID: scheduleID, EmployeeID: employeeID, ShiftID: shiftID,
		Status: entity.AssignmentAssigned, AssignedAt: entity.Now(),
	}
	db.assignments[stale.ID] = stale
	db.assignments[fresh.ID] = fresh

	svc := NewService(db)
	n, err := svc.AutoExpireUnconfirmed(context.Background(), scheduleID)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, entity.AssignmentConfirmed, db.assignments[stale.ID].Status)
	require.Equal(t, entity.AssignmentAssigned, db.assignments[fresh.ID].Status)
}
