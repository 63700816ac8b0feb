package helpers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shiftsync/scheduler/internal/entity"
)

// Factory functions create valid entities with sensible defaults.

// CreateValidEmployee creates a valid Employee with all required fields.
func CreateValidEmployee() *entity.Employee {
	return NewEmployeeBuilder().Build()
}

// CreateValidEmployeeWithEmail creates a valid Employee with a specific email.
func CreateValidEmployeeWithEmail(email string) *entity.Employee {
	return NewEmployeeBuilder().WithEmail(email).Build()
}

// CreateValidEmployeeWithRole creates a valid Employee with a specific role.
func CreateValidEmployeeWithRole(role entity.Role) *entity.Employee {
	return NewEmployeeBuilder().WithRole(role).Build()
}

// CreateValidEmployeeInactive creates a valid but inactive Employee.
func CreateValidEmployeeInactive() *entity.Employee {
	return NewEmployeeBuilder().WithActive(false).Build()
}

// CreateValidEmployeeDeleted creates a valid but soft-deleted Employee.
func CreateValidEmployeeDeleted() *entity.Employee {
	now := time.Now().UTC()
	return NewEmployeeBuilder().WithDeletedAt(&now).Build()
}

// CreateValidEmployeeWithQualifications creates an Employee holding the given qualification tags.
func CreateValidEmployeeWithQualifications(tags ...string) *entity.Employee {
	return NewEmployeeBuilder().WithQualifications(tags...).Build()
}

// CreateValidEmployeeWithAvailability creates an Employee available only on the given weekday window.
func CreateValidEmployeeWithAvailability(day entity.Weekday, start, end entity.TimeOfDay) *entity.Employee {
	return NewEmployeeBuilder().
		WithAvailability(entity.Availability{
			day: {Available: true, Start: start, End: end},
		}).
		Build()
}

// CreateValidDepartment creates a valid Department.
func CreateValidDepartment() *entity.Department {
	return NewDepartmentBuilder().Build()
}

// CreateValidDepartmentWithParent creates a Department nested under a parent.
func CreateValidDepartmentWithParent(parentID uuid.UUID) *entity.Department {
	return NewDepartmentBuilder().WithParentID(&parentID).Build()
}

// CreateValidShift creates a valid Shift with all required fields.
func CreateValidShift() *entity.Shift {
	return NewShiftBuilder().Build()
}

// CreateValidShiftWithType creates a valid Shift with a specific shift type.
func CreateValidShiftWithType(shiftType entity.ShiftType) *entity.Shift {
	return NewShiftBuilder().WithShiftType(shiftType).Build()
}

// CreateValidShiftOnDate creates a valid Shift on a specific date.
func CreateValidShiftOnDate(date time.Time) *entity.Shift {
	return NewShiftBuilder().WithDate(date).Build()
}

// CreateValidShiftRequiringStaff creates a Shift requiring multiple staff.
func CreateValidShiftRequiringStaff(n int) *entity.Shift {
	return NewShiftBuilder().WithRequiredStaff(n).Build()
}

// CreateValidShiftDeleted creates a valid but soft-deleted Shift.
func CreateValidShiftDeleted() *entity.Shift {
	now := time.Now().UTC()
	return NewShiftBuilder().WithDeletedAt(&now).Build()
}

// CreateValidAssignment creates a valid Assignment with all required fields.
func CreateValidAssignment() *entity.Assignment {
	return NewAssignmentBuilder().Build()
}

// CreateValidAssignmentWithStatus creates a valid Assignment in a specific status.
func CreateValidAssignmentWithStatus(status entity.AssignmentStatus) *entity.Assignment {
	return NewAssignmentBuilder().WithStatus(status).Build()
}

// CreateValidAssignmentAutoAssigned creates a valid Assignment produced by the solver.
func CreateValidAssignmentAutoAssigned() *entity.Assignment {
	return NewAssignmentBuilder().WithAutoAssigned(true).Build()
}

// CreateValidAssignmentExpiredConfirmWindow creates an Assignment whose 48-hour
// confirm window has already elapsed.
func CreateValidAssignmentExpiredConfirmWindow() *entity.Assignment {
	return NewAssignmentBuilder().
		WithStatus(entity.AssignmentPending).
		WithAssignedAt(time.Now().UTC().Add(-72 * time.Hour)).
		Build()
}

// CreateValidAssignmentDeleted creates a valid but soft-deleted Assignment.
func CreateValidAssignmentDeleted() *entity.Assignment {
	now := time.Now().UTC()
	return NewAssignmentBuilder().WithDeletedAt(&now).Build()
}

// CreateValidSchedule creates a valid Schedule in draft status.
func CreateValidSchedule() *entity.Schedule {
	return NewScheduleBuilder().Build()
}

// CreateValidScheduleApproved creates a valid Schedule in approved status.
func CreateValidScheduleApproved() *entity.Schedule {
	approver := uuid.New()
	return NewScheduleBuilder().
		WithStatus(entity.ScheduleApproved).
		WithApprovedBy(&approver).
		Build()
}

// CreateValidSchedulePublished creates a valid Schedule in published status.
func CreateValidSchedulePublished() *entity.Schedule {
	approver := uuid.New()
	return NewScheduleBuilder().
		WithStatus(entity.SchedulePublished).
		WithApprovedBy(&approver).
		Build()
}

// CreateValidScheduleArchived creates a valid Schedule in archived status.
func CreateValidScheduleArchived() *entity.Schedule {
	return NewScheduleBuilder().WithStatus(entity.ScheduleArchived).Build()
}

// CreateValidRule creates a valid availability Rule.
func CreateValidRule() *entity.Rule {
	return NewRuleBuilder().Build()
}

// CreateValidRuleWithType creates a valid Rule of a specific type.
func CreateValidRuleWithType(ruleType entity.RuleType) *entity.Rule {
	return NewRuleBuilder().WithRuleType(ruleType).Build()
}

// CreateValidRuleGlobal creates a Rule with no employee scope.
func CreateValidRuleGlobal() *entity.Rule {
	return NewRuleBuilder().WithEmployeeID(nil).Build()
}

// CreateValidNotification creates a valid Notification.
func CreateValidNotification() *entity.Notification {
	return &entity.Notification{
		ID:          uuid.New(),
		RecipientID: uuid.New(),
		Category:    "assignment",
		Priority:    entity.NotifyMedium,
		Title:       "New shift assigned",
		Body:        "You have been assigned a new shift.",
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
	}
}

// CreateValidNotificationUrgent creates a valid urgent Notification.
func CreateValidNotificationUrgent() *entity.Notification {
	n := CreateValidNotification()
	n.Priority = entity.NotifyUrgent
	return n
}

// CreateValidHistoryEntry creates a valid HistoryEntry.
func CreateValidHistoryEntry() *entity.HistoryEntry {
	return &entity.HistoryEntry{
		ID:          uuid.New(),
		EmployeeID:  uuid.New(),
		Field:       "role",
		OldValue:    string(entity.RoleEmployee),
		NewValue:    string(entity.RoleSupervisor),
		ChangedByID: uuid.New(),
		ChangedAt:   time.Now().UTC(),
	}
}

// CreateValidAuditLog creates a valid AuditLog entry.
func CreateValidAuditLog() *entity.AuditLog {
	return &entity.AuditLog{
		ID:        uuid.New(),
		ActorID:   uuid.New(),
		Action:    "PUBLISH_SCHEDULE",
		Resource:  fmt.Sprintf("Schedule#%s", uuid.New().String()),
		OldValues: `{"status":"approved"}`,
		NewValues: `{"status":"published"}`,
		Timestamp: time.Now().UTC(),
		IPAddress: "192.168.1.1",
	}
}

// BulkCreateValidEmployees creates multiple valid Employee entities.
func BulkCreateValidEmployees(count int) []*entity.Employee {
	employees := make([]*entity.Employee, count)
	for i := 0; i < count; i++ {
		email := fmt.Sprintf("employee%d@example.com", i+1)
		employees[i] = CreateValidEmployeeWithEmail(email)
	}
	return employees
}

// BulkCreateValidShifts creates multiple valid Shift entities spread across shift types.
func BulkCreateValidShifts(count int) []*entity.Shift {
	shifts := make([]*entity.Shift, count)
	shiftTypes := []entity.ShiftType{
		entity.ShiftMorning,
		entity.ShiftEvening,
		entity.ShiftNight,
		entity.ShiftManagement,
		entity.ShiftEmergency,
	}
	for i := 0; i < count; i++ {
		shifts[i] = CreateValidShiftWithType(shiftTypes[i%len(shiftTypes)])
	}
	return shifts
}

// BulkCreateValidAssignments creates multiple valid Assignment entities spread across statuses.
func BulkCreateValidAssignments(count int) []*entity.Assignment {
	assignments := make([]*entity.Assignment, count)
	statuses := []entity.AssignmentStatus{
		entity.AssignmentAssigned,
		entity.AssignmentConfirmed,
		entity.AssignmentPending,
	}
	for i := 0; i < count; i++ {
		assignments[i] = CreateValidAssignmentWithStatus(statuses[i%len(statuses)])
	}
	return assignments
}
