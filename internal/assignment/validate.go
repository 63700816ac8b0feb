package assignment

import (
	"context"
	"time"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/repository"
	"github.com/shiftsync/scheduler/internal/validation"
)

// store is the subset of repository.Database (and repository.Transaction,
// which has the identical accessor methods) that the pipeline needs, so it
// can run equally against a plain connection or an open transaction.
type store interface {
	EmployeeRepository() repository.EmployeeRepository
	ScheduleRepository() repository.ScheduleRepository
	ShiftRepository() repository.ShiftRepository
	AssignmentRepository() repository.AssignmentRepository
}

// candidate is the input to the seven-step pipeline: the tuple about to
// become (or become, again) an Assignment row.
type candidate struct {
	Schedule  *entity.Schedule
	Employee  *entity.Employee
	Shift     *entity.Shift
	ExcludeID *entity.AssignmentID // set when validating an update, to exclude itself from duplicate checks
}

// validatePipeline runs the seven checks from §4.6 in order, accumulating
// into a single validation.Result instead of failing fast, so a caller can
// report every problem with one round trip.
func validatePipeline(ctx context.Context, repo store, c candidate) (*validation.Result, error) {
	result := validation.NewResult()

	// 1. schedule must be editable
	if !c.Schedule.IsEditable() {
		result.AddError(validation.CodeScheduleNotEditable, "schedule is not in an editable state")
	}

	// 2. employee must be active
	if !c.Employee.IsActive || c.Employee.IsDeleted() {
		result.AddError(validation.CodeEmployeeInactive, "employee is not active")
	}

	// 3. shift must exist and not be deleted (caller already resolved it;
	// a nil Shift means lookup failed upstream)
	if c.Shift == nil || c.Shift.IsDeleted() {
		result.AddError(validation.CodeInvalidDateRange, "shift does not exist")
		return result, nil // remaining checks need a live shift
	}

	// 4. no duplicate (employee, shift) tuple within the schedule
	existing, err := repo.AssignmentRepository().GetByShift(ctx, c.Shift.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.IsDeleted() || a.Status.IsTerminal() {
			continue
		}
		if a.ScheduleID != c.Schedule.ID {
			continue
		}
		if c.ExcludeID != nil && a.ID == *c.ExcludeID {
			continue
		}
		if a.EmployeeID == c.Employee.ID {
			result.AddError(validation.CodeDuplicateAssignment, "employee is already assigned to this shift")
		}
	}

	// 5. no overlapping shift in the same week for this employee
	weekStart, weekEnd := weekBounds(c.Shift.Date)
	weekAssignments, err := repo.AssignmentRepository().GetByEmployeeAndDateRange(ctx, c.Employee.ID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	shiftIDs := make([]entity.ShiftID, 0, len(weekAssignments))
	for _, a := range weekAssignments {
		if a.IsDeleted() || a.Status.IsTerminal() {
			continue
		}
		if c.ExcludeID != nil && a.ID == *c.ExcludeID {
			continue
		}
		shiftIDs = append(shiftIDs, a.ShiftID)
	}
	if len(shiftIDs) > 0 {
		weekShifts, err := repo.ShiftRepository().GetAllByIDs(ctx, shiftIDs)
		if err != nil {
			return nil, err
		}
		totalMinutes := int(c.Shift.End - c.Shift.Start)
		for _, other := range weekShifts {
			if other.ID == c.Shift.ID {
				continue
			}
			if c.Shift.Overlaps(other) {
				result.AddError(validation.CodeShiftOverlap, "shift overlaps another assignment this week")
			}
			totalMinutes += int(other.End - other.Start)
		}
		if totalMinutes > c.Employee.MaxHoursPerWeek*60 {
			result.AddError(validation.CodeMaxHoursExceeded, "assignment would exceed the employee's weekly hour cap")
		}
	}

	// 6. employee must hold every qualification the shift requires
	if !c.Employee.HasQualifications(c.Shift.Requirements) {
		result.AddError(validation.CodeEmployeeUnqualified, "employee lacks a required qualification for this shift")
	}

	// 7. employee's availability calendar must permit the shift's window
	if !c.Employee.Availability.Covers(c.Shift.Weekday(), c.Shift.Start, c.Shift.End) {
		result.AddError(validation.CodeEmployeeUnavailable, "employee is not available for this shift's day and time")
	}

	return result, nil
}

func weekBounds(date time.Time) (time.Time, time.Time) {
	weekday := int(date.Weekday())
	start := date.AddDate(0, 0, -weekday)
	end := start.AddDate(0, 0, 7)
	return start, end
}
