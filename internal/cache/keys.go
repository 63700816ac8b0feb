package cache

import "github.com/google/uuid"

// Key builders for the cache families the service relies on. Centralizing
// them keeps read and invalidation call sites from drifting apart.
func EmployeeByEmailKey(email string) string { return "employee:email:" + email }

func EmployeeByIDKey(id uuid.UUID) string { return "employee:id:" + id.String() }

func DepartmentHierarchyKey() string { return "department:hierarchy" }

func ShiftByNameKey(name string) string { return "shift:name:" + name }

func ScheduleAssignmentsKey(scheduleID uuid.UUID) string {
	return "schedule:" + scheduleID.String() + ":assignments"
}

func ScheduleAssignmentsPattern(scheduleID uuid.UUID) string {
	return "schedule:" + scheduleID.String() + ":*"
}

func RolePermissionsKey(role string) string { return "role:" + role + ":permissions" }

func NotificationsKey(recipientID uuid.UUID) string {
	return "notifications:" + recipientID.String()
}

func NotificationsPattern(recipientID uuid.UUID) string {
	return "notifications:" + recipientID.String() + "*"
}
