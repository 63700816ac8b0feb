package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/validation"
	"github.com/shiftsync/scheduler/tests/helpers"
)

// TestMockEmployeeRepository_Create verifies mock can store employees
func TestMockEmployeeRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEmployeeRepository()
	employee := helpers.CreateValidEmployee()

	err := repo.Create(ctx, employee)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if repo.Count() != 1 {
		t.Error("expected 1 employee in repository")
	}
}

// TestMockEmployeeRepository_GetByID verifies mock retrieves employee by ID
func TestMockEmployeeRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEmployeeRepository()
	employee := helpers.CreateValidEmployee()

	repo.Create(ctx, employee)
	retrieved, err := repo.GetByID(ctx, employee.ID)

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if retrieved == nil {
		t.Error("expected employee to be retrieved")
	}
	if retrieved.Email != employee.Email {
		t.Error("expected retrieved employee to match")
	}
}

// TestMockEmployeeRepository_GetByEmail verifies mock retrieves employee by email
func TestMockEmployeeRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEmployeeRepository()
	email := "specific@example.com"
	employee := helpers.CreateValidEmployeeWithEmail(email)

	repo.Create(ctx, employee)
	retrieved, err := repo.GetByEmail(ctx, email)

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if retrieved == nil {
		t.Error("expected employee to be retrieved")
	}
}

// TestMockEmployeeRepository_GetAll verifies mock retrieves all employees
func TestMockEmployeeRepository_GetAll(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEmployeeRepository()

	employees := helpers.BulkCreateValidEmployees(5)
	for _, employee := range employees {
		repo.Create(ctx, employee)
	}

	retrieved, err := repo.GetAll(ctx)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(retrieved) != 5 {
		t.Errorf("expected 5 employees, got %d", len(retrieved))
	}
}

// TestMockEmployeeRepository_Error verifies mock returns errors correctly
func TestMockEmployeeRepository_Error(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEmployeeRepository()
	testErr := errors.New("database error")

	repo.SetGetError(testErr)
	_, err := repo.GetByID(ctx, uuid.New())

	if !errors.Is(err, testErr) {
		t.Error("expected mock to return set error")
	}
}

// TestMockScheduleRepository_Create verifies mock can store schedules
func TestMockScheduleRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewMockScheduleRepository()
	schedule := helpers.CreateValidSchedule()

	err := repo.Create(ctx, schedule)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if repo.Count() != 1 {
		t.Error("expected 1 schedule in repository")
	}
}

// TestMockScheduleRepository_ListByStatus verifies mock retrieves by status
func TestMockScheduleRepository_ListByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMockScheduleRepository()

	draft := helpers.CreateValidSchedule()
	approved := helpers.CreateValidScheduleApproved()

	repo.Create(ctx, draft)
	repo.Create(ctx, approved)

	retrieved, err := repo.ListByStatus(ctx, entity.ScheduleApproved)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(retrieved) != 1 {
		t.Error("expected 1 approved schedule")
	}
}

// TestMockScheduleRepository_Update verifies mock can update schedules
func TestMockScheduleRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMockScheduleRepository()
	schedule := helpers.CreateValidSchedule()

	repo.Create(ctx, schedule)

	approverID := uuid.New()
	if err := schedule.Approve(approverID); err != nil {
		t.Fatalf("unexpected approve error: %v", err)
	}
	err := repo.Update(ctx, schedule)

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	retrieved, _ := repo.GetByID(ctx, schedule.ID)
	if retrieved.Status != entity.ScheduleApproved {
		t.Error("expected schedule to be updated")
	}
}

// TestMockAssignmentRepository_Create verifies mock can store assignments
func TestMockAssignmentRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewMockAssignmentRepository()
	assignment := helpers.CreateValidAssignment()

	err := repo.Create(ctx, assignment)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if repo.Count() != 1 {
		t.Error("expected 1 assignment in repository")
	}
}

// TestMockAssignmentRepository_GetByEmployeeID verifies mock retrieves by employee
func TestMockAssignmentRepository_GetByEmployeeID(t *testing.T) {
	ctx := context.Background()
	repo := NewMockAssignmentRepository()
	employeeID := uuid.New()

	assignment1 := helpers.NewAssignmentBuilder().WithEmployeeID(employeeID).Build()
	assignment2 := helpers.NewAssignmentBuilder().WithEmployeeID(employeeID).Build()
	assignment3 := helpers.NewAssignmentBuilder().Build()

	repo.Create(ctx, assignment1)
	repo.Create(ctx, assignment2)
	repo.Create(ctx, assignment3)

	retrieved, err := repo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(retrieved) != 2 {
		t.Errorf("expected 2 assignments for employee, got %d", len(retrieved))
	}
}

// TestMockAssignmentRepository_GetByShiftID verifies mock retrieves by shift
func TestMockAssignmentRepository_GetByShiftID(t *testing.T) {
	ctx := context.Background()
	repo := NewMockAssignmentRepository()
	shiftID := uuid.New()

	assignment1 := helpers.NewAssignmentBuilder().WithShiftID(shiftID).Build()
	assignment2 := helpers.NewAssignmentBuilder().WithShiftID(shiftID).Build()
	assignment3 := helpers.NewAssignmentBuilder().Build()

	repo.Create(ctx, assignment1)
	repo.Create(ctx, assignment2)
	repo.Create(ctx, assignment3)

	retrieved, err := repo.GetByShiftID(ctx, shiftID)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(retrieved) != 2 {
		t.Errorf("expected 2 assignments for shift, got %d", len(retrieved))
	}
}

// TestMockValidationService_Validate verifies mock can validate
func TestMockValidationService_Validate(t *testing.T) {
	ctx := context.Background()
	service := NewMockValidationService()
	testInput := "test_input"

	result, err := service.Validate(ctx, testInput)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result == nil {
		t.Error("expected result to be set")
	}
}

// TestMockValidationService_SetNextError verifies mock returns errors
func TestMockValidationService_SetNextError(t *testing.T) {
	ctx := context.Background()
	service := NewMockValidationService()
	testErr := errors.New("validation error")

	service.SetNextError(testErr)
	_, err := service.Validate(ctx, "test")

	if !errors.Is(err, testErr) {
		t.Error("expected mock to return set error")
	}
}

// TestMockValidationService_CallTracking verifies mock tracks calls
func TestMockValidationService_CallTracking(t *testing.T) {
	ctx := context.Background()
	service := NewMockValidationService()

	service.Validate(ctx, "input1")
	service.Validate(ctx, "input2")
	service.Validate(ctx, "input3")

	if service.GetCallCount() != 3 {
		t.Error("expected 3 calls to be tracked")
	}

	if service.GetLastInput() != "input3" {
		t.Error("expected last input to be tracked")
	}
}

// TestMockValidationService_Reset verifies mock can be reset
func TestMockValidationService_Reset(t *testing.T) {
	ctx := context.Background()
	service := NewMockValidationService()

	service.Validate(ctx, "test")
	if service.GetCallCount() != 1 {
		t.Error("expected call to be tracked")
	}

	service.Reset()
	if service.GetCallCount() != 0 {
		t.Error("expected call count to be reset")
	}
	if service.GetLastInput() != "" {
		t.Error("expected last input to be reset")
	}
}

// TestMockValidationService_SetNextResult verifies mock returns custom results
func TestMockValidationService_SetNextResult(t *testing.T) {
	ctx := context.Background()
	service := NewMockValidationService()

	customResult := validation.NewResult().
		AddError("DOUBLE_BOOKED", "Test error")
	service.SetNextResult(customResult)

	result, _ := service.Validate(ctx, "test")
	if !result.HasErrors() {
		t.Error("expected result to have errors")
	}
}

// TestMocks_ConcurrentAccess verifies mocks are thread-safe
func TestMocks_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEmployeeRepository()

	// Create 10 employees concurrently
	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func(idx int) {
			employee := helpers.CreateValidEmployee()
			done <- repo.Create(ctx, employee)
		}(i)
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		if err := <-done; err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if repo.Count() != 10 {
		t.Errorf("expected 10 employees, got %d", repo.Count())
	}
}

// TestMocks_Clear verifies mocks can be cleared
func TestMocks_Clear(t *testing.T) {
	ctx := context.Background()
	repo := NewMockEmployeeRepository()

	employees := helpers.BulkCreateValidEmployees(5)
	for _, employee := range employees {
		repo.Create(ctx, employee)
	}

	if repo.Count() != 5 {
		t.Error("expected 5 employees")
	}

	repo.Clear()
	if repo.Count() != 0 {
		t.Error("expected 0 employees after clear")
	}
}

// BenchmarkMock_EmployeeRepositoryCreate benchmarks mock create
func BenchmarkMock_EmployeeRepositoryCreate(b *testing.B) {
	ctx := context.Background()
	repo := NewMockEmployeeRepository()
	for i := 0; i < b.N; i++ {
		employee := helpers.CreateValidEmployee()
		repo.Create(ctx, employee)
	}
}

// BenchmarkMock_EmployeeRepositoryGetByID benchmarks mock retrieval
func BenchmarkMock_EmployeeRepositoryGetByID(b *testing.B) {
	ctx := context.Background()
	repo := NewMockEmployeeRepository()
	employee := helpers.CreateValidEmployee()
	repo.Create(ctx, employee)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		repo.GetByID(ctx, employee.ID)
	}
}
