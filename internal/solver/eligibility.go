package solver

import "github.com/shiftsync/scheduler/internal/entity"

// staticEligibility applies the hard constraints that do not depend on
// assignment order: qualification, department scope, the base availability
// calendar, and explicit negation rules. Safe to compute in parallel across
// shifts since it only reads immutable inputs.
func staticEligibility(sh *entity.Shift, employees []*entity.Employee, cons *constraints) []*entity.Employee {
	out := make([]*entity.Employee, 0, len(employees))
	for _, e := range employees {
		if sh.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *sh.DepartmentID) {
			continue
		}
		if !e.HasQualifications(sh.Requirements) {
			continue
		}
		if !e.Availability.Covers(sh.Weekday(), sh.Start, sh.End) {
			continue
		}
		if cons.blockedByAvailabilityRule(e, sh) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// filterDynamic narrows an eligibility set further using state that only
// makes sense after earlier shifts in this run have been assigned: the
// weekly hour cap and the minimum rest gap.
func filterDynamic(sh *entity.Shift, candidates []*entity.Employee, state *assignState) []*entity.Employee {
	out := make([]*entity.Employee, 0, len(candidates))
	for _, e := range candidates {
		maxWeekly := state.cons.maxHoursFor(e)
		minRest := state.cons.minRestHoursFor(e, state.defaultMinRest)
		if state.hasRoomFor(e, sh, minRest, maxWeekly) {
			out = append(out, e)
		}
	}
	return out
}

const defaultMinRestHours = 8
