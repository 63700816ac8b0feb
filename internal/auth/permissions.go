package auth

import "github.com/shiftsync/scheduler/internal/entity"

// CanManageEmployees reports whether actor may create/update employees other
// than itself: admin or manager. It looks only at the actor's role; a
// manager passes whether or not the target employee is an admin.
func CanManageEmployees(actor entity.Role) bool {
	return actor == entity.RoleAdmin || actor == entity.RoleManager
}

// CanDeleteEmployee reports whether actor may delete employees at all;
// callers must separately enforce the "no future assignments" condition.
func CanDeleteEmployee(actor entity.Role) bool { return actor == entity.RoleAdmin }

// CanResetPassword reports whether actor may reset target's password.
func CanResetPassword(actor, target entity.Role) bool {
	if actor == entity.RoleAdmin {
		return true
	}
	return actor == entity.RoleManager && target != entity.RoleAdmin
}

// CanChangeRoleOrStatus reports whether actor may change target's role or
// active status: only an admin, and never for itself (it returns false when
// actorID == targetID, S6 self-lockout prevention).
func CanChangeRoleOrStatus(actor entity.Role, actorID, targetID entity.EmployeeID) bool {
	if actor != entity.RoleAdmin {
		return false
	}
	return actorID != targetID
}

// CanCreateAssignment reports whether actor may create or bulk-create
// assignments.
func CanCreateAssignment(actor entity.Role) bool {
	switch actor {
	case entity.RoleAdmin, entity.RoleManager, entity.RoleScheduler:
		return true
	default:
		return false
	}
}

// CanConfirmAssignment reports whether actor may confirm/decline an
// assignment belonging to employeeID.
func CanConfirmAssignment(actor entity.Role, actorID, assignmentEmployeeID entity.EmployeeID) bool {
	if actor == entity.RoleAdmin || actor == entity.RoleManager || actor == entity.RoleScheduler {
		return true
	}
	return actorID == assignmentEmployeeID
}

// CanRunSolver reports whether actor may trigger schedule generation.
func CanRunSolver(actor entity.Role) bool {
	switch actor {
	case entity.RoleAdmin, entity.RoleManager, entity.RoleScheduler:
		return true
	default:
		return false
	}
}

// CanProposeSchedule reports whether actor may create/edit shifts and
// schedules; "scheduler" may only propose (create drafts), not approve.
func CanProposeSchedule(actor entity.Role) bool {
	switch actor {
	case entity.RoleAdmin, entity.RoleManager, entity.RoleScheduler:
		return true
	default:
		return false
	}
}

// CanApproveSchedule reports whether actor may approve/publish a schedule.
func CanApproveSchedule(actor entity.Role) bool {
	return actor == entity.RoleAdmin || actor == entity.RoleManager
}
