package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/validation"
)

// MockEmployeeRepository is an in-memory fake with a subset of the operations
// of repository.EmployeeRepository; it does not satisfy that interface.
type MockEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[uuid.UUID]*entity.Employee
	getErr    error
	saveErr   error
}

// NewMockEmployeeRepository creates a new mock employee repository.
func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{
		employees: make(map[uuid.UUID]*entity.Employee),
	}
}

func (m *MockEmployeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if employee, ok := m.employees[id]; ok {
		return employee, nil
	}
	return nil, nil
}

func (m *MockEmployeeRepository) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, employee := range m.employees {
		if employee.Email == email {
			return employee, nil
		}
	}
	return nil, nil
}

func (m *MockEmployeeRepository) GetAll(ctx context.Context) ([]*entity.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var employees []*entity.Employee
	for _, employee := range m.employees {
		employees = append(employees, employee)
	}
	return employees, nil
}

// SetGetError sets the error to return from Get operations.
func (m *MockEmployeeRepository) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// SetSaveError sets the error to return from Create operations.
func (m *MockEmployeeRepository) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Count returns the number of stored employees.
func (m *MockEmployeeRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.employees)
}

// Clear removes all stored employees.
func (m *MockEmployeeRepository) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = make(map[uuid.UUID]*entity.Employee)
}

// MockScheduleRepository is an in-memory fake with a subset of the operations
// of repository.ScheduleRepository; it does not satisfy that interface.
type MockScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[uuid.UUID]*entity.Schedule
	getErr    error
	saveErr   error
	updateErr error
}

// NewMockScheduleRepository creates a new mock schedule repository.
func NewMockScheduleRepository() *MockScheduleRepository {
	return &MockScheduleRepository{
		schedules: make(map[uuid.UUID]*entity.Schedule),
	}
}

func (m *MockScheduleRepository) Create(ctx context.Context, schedule *entity.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.schedules[schedule.ID] = schedule
	return nil
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if schedule, ok := m.schedules[id]; ok {
		return schedule, nil
	}
	return nil, nil
}

func (m *MockScheduleRepository) ListByStatus(ctx context.Context, status entity.ScheduleStatus) ([]*entity.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var schedules []*entity.Schedule
	for _, schedule := range m.schedules {
		if schedule.Status == status {
			schedules = append(schedules, schedule)
		}
	}
	return schedules, nil
}

func (m *MockScheduleRepository) Update(ctx context.Context, schedule *entity.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.schedules[schedule.ID] = schedule
	return nil
}

// SetGetError sets the error to return from Get operations.
func (m *MockScheduleRepository) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// SetSaveError sets the error to return from Create operations.
func (m *MockScheduleRepository) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// SetUpdateError sets the error to return from Update operations.
func (m *MockScheduleRepository) SetUpdateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateErr = err
}

// Count returns the number of stored schedules.
func (m *MockScheduleRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.schedules)
}

// Clear removes all stored schedules.
func (m *MockScheduleRepository) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules = make(map[uuid.UUID]*entity.Schedule)
}

// MockAssignmentRepository is an in-memory fake modeled on
// repository.AssignmentRepository; its method set differs and it does not
// satisfy that interface.
type MockAssignmentRepository struct {
	mu          sync.RWMutex
	assignments map[uuid.UUID]*entity.Assignment
	getErr      error
	saveErr     error
}

// NewMockAssignmentRepository creates a new mock assignment repository.
func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{
		assignments: make(map[uuid.UUID]*entity.Assignment),
	}
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *entity.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if assignment, ok := m.assignments[id]; ok {
		return assignment, nil
	}
	return nil, nil
}

// GetByEmployeeID retrieves all assignments for an employee.
func (m *MockAssignmentRepository) GetByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]*entity.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var assignments []*entity.Assignment
	for _, assignment := range m.assignments {
		if assignment.EmployeeID == employeeID {
			assignments = append(assignments, assignment)
		}
	}
	return assignments, nil
}

// GetByShiftID retrieves all assignments for a shift.
func (m *MockAssignmentRepository) GetByShiftID(ctx context.Context, shiftID uuid.UUID) ([]*entity.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var assignments []*entity.Assignment
	for _, assignment := range m.assignments {
		if assignment.ShiftID == shiftID {
			assignments = append(assignments, assignment)
		}
	}
	return assignments, nil
}

// SetGetError sets the error to return from Get operations.
func (m *MockAssignmentRepository) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// SetSaveError sets the error to return from Create operations.
func (m *MockAssignmentRepository) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Count returns the number of stored assignments.
func (m *MockAssignmentRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assignments)
}

// Clear removes all stored assignments.
func (m *MockAssignmentRepository) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = make(map[uuid.UUID]*entity.Assignment)
}

// MockValidationService is a mock implementation of a validation service.
type MockValidationService struct {
	mu            sync.RWMutex
	nextResult    *validation.Result
	nextErr       error
	callCount     int
	lastInputName string
}

// NewMockValidationService creates a new mock validation service.
func NewMockValidationService() *MockValidationService {
	return &MockValidationService{
		nextResult: validation.NewResult(),
		callCount:  0,
	}
}

// Validate validates something and returns a result.
func (m *MockValidationService) Validate(ctx context.Context, name string) (*validation.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastInputName = name
	return m.nextResult, m.nextErr
}

// SetNextResult sets the result to return from Validate.
func (m *MockValidationService) SetNextResult(result *validation.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextResult = result
}

// SetNextError sets the error to return from Validate.
func (m *MockValidationService) SetNextError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextErr = err
}

// GetCallCount returns the number of times Validate was called.
func (m *MockValidationService) GetCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.callCount
}

// GetLastInput returns the last input to Validate.
func (m *MockValidationService) GetLastInput() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastInputName
}

// Reset resets the mock state.
func (m *MockValidationService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastInputName = ""
	m.nextResult = validation.NewResult()
	m.nextErr = nil
}
