package entity

import "errors"

// Domain-specific errors shared across the entity, repository, and
// assignment layers.
var (
	ErrInvalidTimeFormat     = errors.New("entity: time must be HH:MM")
	ErrScheduleNotEditable   = errors.New("entity: schedule is not in an editable state")
	ErrScheduleNotApproved   = errors.New("entity: schedule must be approved before it can be published")
	ErrInvalidDateRange      = errors.New("entity: end must be after start")
	ErrShiftOverlap          = errors.New("entity: shift overlaps an existing shift")
	ErrEmployeeInactive      = errors.New("entity: employee is not active")
	ErrEmployeeUnqualified   = errors.New("entity: employee lacks a required qualification")
	ErrEmployeeUnavailable   = errors.New("entity: employee is not available for this shift")
	ErrDoubleBooked          = errors.New("entity: employee is already assigned to an overlapping shift")
	ErrMaxHoursExceeded      = errors.New("entity: assignment would exceed the employee's weekly hour limit")
	ErrInsufficientRest      = errors.New("entity: assignment violates minimum rest between shifts")
	ErrAssignmentTerminal    = errors.New("entity: assignment is in a terminal state and cannot change")
	ErrConfirmWindowExpired  = errors.New("entity: confirm/decline window has expired")
	ErrUnknownRuleType       = errors.New("entity: unknown rule type")
	ErrTooManyQualifications = errors.New("entity: too many qualifications")
)

// ValidRuleType reports whether rt is one of the four rule types (§4.4).
func ValidRuleType(rt RuleType) bool {
	switch rt {
	case RuleAvailability, RuleRequirement, RulePreference, RuleRestriction:
		return true
	}
	return false
}

// ValidShiftType reports whether st is a recognized shift type.
func ValidShiftType(st ShiftType) bool {
	switch st {
	case ShiftMorning, ShiftEvening, ShiftNight, ShiftManagement, ShiftEmergency:
		return true
	}
	return false
}

// ValidAssignmentStatus reports whether s is a recognized assignment status.
func ValidAssignmentStatus(s AssignmentStatus) bool {
	switch s {
	case AssignmentAssigned, AssignmentPending, AssignmentConfirmed, AssignmentDeclined, AssignmentCancelled, AssignmentCompleted:
		return true
	}
	return false
}

// ValidScheduleStatus reports whether s is a recognized schedule status.
func ValidScheduleStatus(s ScheduleStatus) bool {
	switch s {
	case ScheduleDraft, SchedulePending, ScheduleApproved, SchedulePublished, ScheduleArchived:
		return true
	}
	return false
}
