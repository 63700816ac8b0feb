package helpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shiftsync/scheduler/internal/entity"
)

// TestCreateValidEmployee verifies the factory creates a valid Employee.
func TestCreateValidEmployee(t *testing.T) {
	employee := CreateValidEmployee()

	if employee.ID == uuid.Nil {
		t.Error("expected employee ID to be set")
	}
	if employee.Email == "" {
		t.Error("expected email to be set")
	}
	if !employee.IsActive {
		t.Error("expected employee to be active by default")
	}
}

// TestCreateValidEmployeeWithEmail verifies the factory sets a custom email.
func TestCreateValidEmployeeWithEmail(t *testing.T) {
	email := "custom@shiftsync.com"
	employee := CreateValidEmployeeWithEmail(email)

	if employee.Email != email {
		t.Error("expected custom email")
	}
}

// TestCreateValidEmployeeWithRole verifies the factory sets the role.
func TestCreateValidEmployeeWithRole(t *testing.T) {
	employee := CreateValidEmployeeWithRole(entity.RoleSupervisor)

	if employee.Role != entity.RoleSupervisor {
		t.Error("expected role to be set")
	}
}

// TestCreateValidEmployeeInactive verifies the factory creates an inactive employee.
func TestCreateValidEmployeeInactive(t *testing.T) {
	employee := CreateValidEmployeeInactive()

	if employee.IsActive {
		t.Error("expected employee to be inactive")
	}
}

// TestCreateValidEmployeeDeleted verifies the factory creates a deleted employee.
func TestCreateValidEmployeeDeleted(t *testing.T) {
	employee := CreateValidEmployeeDeleted()

	if employee.DeletedAt == nil {
		t.Error("expected DeletedAt to be set")
	}
	if !employee.IsDeleted() {
		t.Error("expected employee to be marked as deleted")
	}
}

// TestCreateValidEmployeeWithAvailability verifies availability windows are set.
func TestCreateValidEmployeeWithAvailability(t *testing.T) {
	start, _ := entity.ParseTimeOfDay("09:00")
	end, _ := entity.ParseTimeOfDay("17:00")
	employee := CreateValidEmployeeWithAvailability(entity.Monday, start, end)

	if !employee.Availability.Covers(entity.Monday, start, end) {
		t.Error("expected availability to cover the given window")
	}
	if employee.Availability.Covers(entity.Tuesday, start, end) {
		t.Error("did not expect availability on Tuesday")
	}
}

// TestCreateValidShift verifies the factory creates a valid Shift.
func TestCreateValidShift(t *testing.T) {
	shift := CreateValidShift()

	if shift.ID == uuid.Nil {
		t.Error("expected shift ID to be set")
	}
	if shift.RequiredStaff < 1 {
		t.Error("expected required staff to be at least 1")
	}
}

// TestCreateValidShiftWithType verifies the factory sets the shift type.
func TestCreateValidShiftWithType(t *testing.T) {
	shift := CreateValidShiftWithType(entity.ShiftNight)

	if shift.ShiftType != entity.ShiftNight {
		t.Error("expected shift type to be set")
	}
}

// TestCreateValidShiftDeleted verifies the factory creates a soft-deleted shift.
func TestCreateValidShiftDeleted(t *testing.T) {
	shift := CreateValidShiftDeleted()

	if !shift.IsDeleted() {
		t.Error("expected shift to be marked as deleted")
	}
}

// TestCreateValidSchedule verifies the factory creates a draft Schedule.
func TestCreateValidSchedule(t *testing.T) {
	schedule := CreateValidSchedule()

	if schedule.Status != entity.ScheduleDraft {
		t.Error("expected schedule to start in draft status")
	}
}

// TestCreateValidScheduleApproved verifies the factory creates an approved Schedule.
func TestCreateValidScheduleApproved(t *testing.T) {
	schedule := CreateValidScheduleApproved()

	if schedule.Status != entity.ScheduleApproved {
		t.Error("expected schedule to be approved")
	}
	if schedule.ApprovedBy == nil {
		t.Error("expected approved schedule to carry an approver")
	}
}

// TestCreateValidSchedulePublished verifies the factory creates a published Schedule.
func TestCreateValidSchedulePublished(t *testing.T) {
	schedule := CreateValidSchedulePublished()

	if schedule.Status != entity.SchedulePublished {
		t.Error("expected schedule to be published")
	}
	if schedule.IsEditable() {
		t.Error("did not expect a published schedule to be editable")
	}
}

// TestCreateValidAssignment verifies the factory creates a valid Assignment.
func TestCreateValidAssignment(t *testing.T) {
	assignment := CreateValidAssignment()

	if assignment.ID == uuid.Nil {
		t.Error("expected assignment ID to be set")
	}
	if assignment.Status != entity.AssignmentAssigned {
		t.Error("expected default status to be assigned")
	}
}

// TestCreateValidAssignmentExpiredConfirmWindow verifies the factory produces
// an assignment outside its 48-hour confirm window.
func TestCreateValidAssignmentExpiredConfirmWindow(t *testing.T) {
	assignment := CreateValidAssignmentExpiredConfirmWindow()

	if assignment.WithinConfirmWindow(time.Now().UTC()) {
		t.Error("expected confirm window to have elapsed")
	}
	if assignment.Status != entity.AssignmentPending {
		t.Error("expected pending status")
	}
}

// TestCreateValidRule verifies the factory creates a valid Rule.
func TestCreateValidRule(t *testing.T) {
	rule := CreateValidRule()

	if rule.ID == uuid.Nil {
		t.Error("expected rule ID to be set")
	}
	if !rule.Active {
		t.Error("expected rule to be active by default")
	}
}

// TestCreateValidRuleGlobal verifies the factory creates an unscoped rule.
func TestCreateValidRuleGlobal(t *testing.T) {
	rule := CreateValidRuleGlobal()

	if rule.EmployeeID != nil {
		t.Error("expected a global rule to have no employee scope")
	}
}

// TestCreateValidNotification verifies the factory creates a valid Notification.
func TestCreateValidNotification(t *testing.T) {
	notification := CreateValidNotification()

	if notification.ID == uuid.Nil {
		t.Error("expected notification ID to be set")
	}
	if notification.IsRead {
		t.Error("expected notification to start unread")
	}
}

// TestBulkCreateValidEmployees verifies bulk creation produces unique emails.
func TestBulkCreateValidEmployees(t *testing.T) {
	employees := BulkCreateValidEmployees(5)

	if len(employees) != 5 {
		t.Fatalf("expected 5 employees, got %d", len(employees))
	}
	seen := make(map[string]bool)
	for _, e := range employees {
		if seen[e.Email] {
			t.Errorf("expected unique email, got duplicate %s", e.Email)
		}
		seen[e.Email] = true
	}
}

// TestBulkCreateValidShifts verifies bulk creation returns the requested number of shifts.
func TestBulkCreateValidShifts(t *testing.T) {
	shifts := BulkCreateValidShifts(5)

	if len(shifts) != 5 {
		t.Fatalf("expected 5 shifts, got %d", len(shifts))
	}
}
