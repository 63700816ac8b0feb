package helpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shiftsync/scheduler/internal/entity"
)

// TestEmployeeBuilder_Default verifies EmployeeBuilder creates valid entities with defaults.
func TestEmployeeBuilder_Default(t *testing.T) {
	employee := NewEmployeeBuilder().Build()

	if employee.ID == uuid.Nil {
		t.Error("expected employee ID to be set")
	}
	if employee.Email != "employee@example.com" {
		t.Error("expected default email")
	}
	if employee.Role != entity.RoleEmployee {
		t.Error("expected default role to be employee")
	}
	if !employee.IsActive {
		t.Error("expected employee to be active")
	}
	if employee.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

// TestEmployeeBuilder_WithMethods verifies builder methods chain and set values.
func TestEmployeeBuilder_WithMethods(t *testing.T) {
	testID := uuid.New()
	testEmail := "custom@example.com"

	employee := NewEmployeeBuilder().
		WithID(testID).
		WithEmail(testEmail).
		WithRole(entity.RoleManager).
		WithActive(false).
		Build()

	if employee.ID != testID {
		t.Error("expected custom ID")
	}
	if employee.Email != testEmail {
		t.Error("expected custom email")
	}
	if employee.Role != entity.RoleManager {
		t.Error("expected custom role")
	}
	if employee.IsActive {
		t.Error("expected employee to be inactive")
	}
}

// TestEmployeeBuilder_SoftDelete verifies soft delete tracking.
func TestEmployeeBuilder_SoftDelete(t *testing.T) {
	now := time.Now().UTC()
	employee := NewEmployeeBuilder().
		WithDeletedAt(&now).
		Build()

	if employee.DeletedAt == nil {
		t.Error("expected DeletedAt to be set")
	}
	if !employee.IsDeleted() {
		t.Error("expected employee to be marked as deleted")
	}
}

// TestEmployeeBuilder_Qualifications verifies qualification tags are set.
func TestEmployeeBuilder_Qualifications(t *testing.T) {
	employee := NewEmployeeBuilder().
		WithQualifications("forklift", "first-aid").
		Build()

	if !employee.HasQualifications(map[string]struct{}{"forklift": {}}) {
		t.Error("expected employee to hold forklift qualification")
	}
	if employee.HasQualifications(map[string]struct{}{"crane": {}}) {
		t.Error("did not expect employee to hold crane qualification")
	}
}

// TestShiftBuilder_Default verifies ShiftBuilder creates valid entities with defaults.
func TestShiftBuilder_Default(t *testing.T) {
	shift := NewShiftBuilder().Build()

	if shift.ID == uuid.Nil {
		t.Error("expected shift ID to be set")
	}
	if shift.ShiftType != entity.ShiftMorning {
		t.Error("expected default shift type to be morning")
	}
	if shift.RequiredStaff != 1 {
		t.Error("expected default required staff of 1")
	}
	if !shift.Start.Before(shift.End) {
		t.Error("expected start to precede end")
	}
}

// TestShiftBuilder_Overlap verifies two shifts built on the same date overlap
// when their windows intersect.
func TestShiftBuilder_Overlap(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	start, _ := entity.ParseTimeOfDay("09:00")
	midOverlap, _ := entity.ParseTimeOfDay("10:00")
	end, _ := entity.ParseTimeOfDay("17:00")

	a := NewShiftBuilder().WithDate(date).WithStart(start).WithEnd(end).Build()
	b := NewShiftBuilder().WithDate(date).WithStart(midOverlap).WithEnd(end).Build()

	if !a.Overlaps(b) {
		t.Error("expected overlapping shifts")
	}
}

// TestScheduleBuilder_Default verifies ScheduleBuilder creates valid entities with defaults.
func TestScheduleBuilder_Default(t *testing.T) {
	schedule := NewScheduleBuilder().Build()

	if schedule.ID == uuid.Nil {
		t.Error("expected schedule ID to be set")
	}
	if schedule.Status != entity.ScheduleDraft {
		t.Error("expected default status to be draft")
	}
	if schedule.Version != 1 {
		t.Error("expected default version of 1")
	}
	if !schedule.IsEditable() {
		t.Error("expected draft schedule to be editable")
	}
}

// TestAssignmentBuilder_Default verifies AssignmentBuilder creates valid entities with defaults.
func TestAssignmentBuilder_Default(t *testing.T) {
	assignment := NewAssignmentBuilder().Build()

	if assignment.ID == uuid.Nil {
		t.Error("expected assignment ID to be set")
	}
	if assignment.Status != entity.AssignmentAssigned {
		t.Error("expected default status to be assigned")
	}
	if !assignment.WithinConfirmWindow(assignment.AssignedAt.Add(time.Hour)) {
		t.Error("expected assignment to be within its confirm window")
	}
}

// TestRuleBuilder_Default verifies RuleBuilder creates valid entities with defaults.
func TestRuleBuilder_Default(t *testing.T) {
	rule := NewRuleBuilder().Build()

	if rule.ID == uuid.Nil {
		t.Error("expected rule ID to be set")
	}
	if rule.RuleType != entity.RuleAvailability {
		t.Error("expected default rule type to be availability")
	}
	if !rule.Active {
		t.Error("expected rule to be active by default")
	}
}
