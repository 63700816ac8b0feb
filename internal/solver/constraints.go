package solver

import "github.com/shiftsync/scheduler/internal/entity"

// constraints is the lowered form of the active rule set: indexed by
// employee so the hot assignment loop never re-scans the rule list.
type constraints struct {
	availability map[entity.EmployeeID][]*entity.AvailabilityRule
	restriction  map[entity.EmployeeID][]*entity.RestrictionRule
	globalRest   []*entity.RestrictionRule
	preference   map[entity.EmployeeID][]*entity.PreferenceRule
}

func buildConstraints(rules []*entity.Rule) *constraints {
	c := &constraints{
		availability: map[entity.EmployeeID][]*entity.AvailabilityRule{},
		restriction:  map[entity.EmployeeID][]*entity.RestrictionRule{},
		preference:   map[entity.EmployeeID][]*entity.PreferenceRule{},
	}
	for _, r := range rules {
		if !r.Active {
			continue
		}
		switch r.RuleType {
		case entity.RuleAvailability:
			if r.Structured.Availability == nil || r.EmployeeID == nil {
				continue
			}
			id := *r.EmployeeID
			c.availability[id] = append(c.availability[id], r.Structured.Availability)
		case entity.RuleRestriction:
			if r.Structured.Restriction == nil {
				continue
			}
			if r.EmployeeID == nil || r.Structured.Restriction.Global {
				c.globalRest = append(c.globalRest, r.Structured.Restriction)
				continue
			}
			id := *r.EmployeeID
			c.restriction[id] = append(c.restriction[id], r.Structured.Restriction)
		case entity.RulePreference:
			if r.Structured.Preference == nil || r.EmployeeID == nil {
				continue
			}
			id := *r.EmployeeID
			c.preference[id] = append(c.preference[id], r.Structured.Preference)
		}
	}
	return c
}

// maxHoursFor resolves the tightest applicable weekly hour cap: the
// employee's own MaxHoursPerWeek, narrowed by any matching restriction
// rules (global or employee-scoped).
func (c *constraints) maxHoursFor(e *entity.Employee) int {
	max := e.MaxHoursPerWeek
	if max <= 0 {
		max = 40
	}
	for _, r := range c.globalRest {
		if r.MaxHoursPerWeek != nil && *r.MaxHoursPerWeek < max {
			max = *r.MaxHoursPerWeek
		}
	}
	for _, r := range c.restriction[e.ID] {
		if r.MaxHoursPerWeek != nil && *r.MaxHoursPerWeek < max {
			max = *r.MaxHoursPerWeek
		}
	}
	return max
}

// minRestHoursFor resolves the minimum rest gap required between an
// employee's consecutive shifts, defaulting to the solver-wide default.
func (c *constraints) minRestHoursFor(e *entity.Employee, def int) int {
	min := def
	for _, r := range c.globalRest {
		if r.MinRestHours != nil && *r.MinRestHours > min {
			min = *r.MinRestHours
		}
	}
	for _, r := range c.restriction[e.ID] {
		if r.MinRestHours != nil && *r.MinRestHours > min {
			min = *r.MinRestHours
		}
	}
	return min
}

// blockedByAvailabilityRule reports whether an explicit negation rule rules
// this employee out for the shift's day/window, independent of the base
// Availability calendar.
func (c *constraints) blockedByAvailabilityRule(e *entity.Employee, sh *entity.Shift) bool {
	for _, r := range c.availability[e.ID] {
		if !r.Negation {
			continue
		}
		if len(r.Days) > 0 && !r.Days[sh.Weekday()] {
			continue
		}
		if r.HasWindow {
			if sh.Start < r.Window.End && r.Window.Start < sh.End {
				return true
			}
			continue
		}
		return true
	}
	return false
}

// prefers reports whether any active preference rule for e favors sh, used
// as a soft scoring bonus, never a hard filter.
func (c *constraints) prefers(e *entity.Employee, sh *entity.Shift) bool {
	for _, p := range c.preference[e.ID] {
		if len(p.Days) > 0 && !p.Days[sh.Weekday()] {
			continue
		}
		matchedType := len(p.ShiftTypes) == 0
		for _, t := range p.ShiftTypes {
			if t == sh.ShiftType {
				matchedType = true
				break
			}
		}
		if !matchedType {
			continue
		}
		if len(p.Windows) == 0 {
			return true
		}
		for _, win := range p.Windows {
			if win.Start <= sh.Start && sh.End <= win.End {
				return true
			}
		}
	}
	return false
}
