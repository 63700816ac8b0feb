// Package rules implements the natural-language rule parser (C4): it turns
// a free-text scheduling sentence into a typed, solver-consumable
// entity.RuleStructured payload.
package rules

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shiftsync/scheduler/internal/entity"
)

// Result is the outcome of parsing one sentence.
type Result struct {
	RuleType    entity.RuleType
	Structured  entity.RuleStructured
	EmployeeID  *entity.EmployeeID
	Confidence  float64
	Ambiguous   bool
	Candidates  []entity.RuleType
}

// synonymWindows maps informal time-of-day phrases to a concrete window,
// configurable in spirit (a fixed table here, since the corpus has no
// dynamic synonym store to ground one on).
var synonymWindows = map[string]entity.AvailabilityWindow{
	"lunch hours": {Start: mustTime("11:00"), End: mustTime("14:00")},
	"lunch":       {Start: mustTime("11:00"), End: mustTime("14:00")},
	"morning":     {Start: mustTime("06:00"), End: mustTime("12:00")},
	"afternoon":   {Start: mustTime("12:00"), End: mustTime("17:00")},
	"evening":     {Start: mustTime("17:00"), End: mustTime("22:00")},
	"night":       {Start: mustTime("22:00"), End: mustTime("23:59")},
	"noon":        {Start: mustTime("12:00"), End: mustTime("12:00")},
}

func mustTime(s string) entity.TimeOfDay {
	t, err := entity.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	weekdayNames = map[string]entity.Weekday{
		"sunday": entity.Sunday, "monday": entity.Monday, "tuesday": entity.Tuesday,
		"wednesday": entity.Wednesday, "thursday": entity.Thursday, "friday": entity.Friday,
		"saturday": entity.Saturday,
	}

	clockTimeRE  = regexp.MustCompile(`\b(1[0-2]|0?[1-9])(:([0-5][0-9]))?\s*(am|pm)\b`)
	twentyFourRE = regexp.MustCompile(`\b([01]?[0-9]|2[0-3]):([0-5][0-9])\b`)
	quantityRE   = regexp.MustCompile(`\b(?:at least|minimum|min|need|require[sd]?)\s+(\d{1,3})\b`)
	maxHoursRE   = regexp.MustCompile(`\b(?:no more than|max(?:imum)?|up to)\s+(\d{1,3})\s*hours?\b`)
	restHoursRE  = regexp.MustCompile(`(\d{1,2})\s*hours?\s*(?:of\s*)?rest\b`)

	negationWords  = []string{"can't", "cannot", "not available", "unavailable", "won't", "will not", "no "}
	preferenceCues = []string{"prefer", "would rather", "likes to", "wants to"}
)

// extractTimes pulls every recognizable time expression from text, in the
// order they appear, normalized to TimeOfDay.
func extractTimes(text string) []entity.TimeOfDay {
	var times []entity.TimeOfDay
	for _, m := range clockTimeRE.FindAllStringSubmatch(text, -1) {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[3] != "" {
			minute, _ = strconv.Atoi(m[3])
		}
		if strings.EqualFold(m[4], "pm") && hour != 12 {
			hour += 12
		}
		if strings.EqualFold(m[4], "am") && hour == 12 {
			hour = 0
		}
		times = append(times, entity.TimeOfDay(hour*60+minute))
	}
	for _, m := range twentyFourRE.FindAllStringSubmatch(text, -1) {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		times = append(times, entity.TimeOfDay(hour*60+minute))
	}
	return times
}

func extractWeekdays(text string) map[entity.Weekday]bool {
	days := map[entity.Weekday]bool{}
	switch {
	case strings.Contains(text, "weekdays"):
		for d := entity.Monday; d <= entity.Friday; d++ {
			days[d] = true
		}
	case strings.Contains(text, "weekends"):
		days[entity.Saturday] = true
		days[entity.Sunday] = true
	}
	for name, d := range weekdayNames {
		if strings.Contains(text, name) {
			days[d] = true
		}
	}
	return days
}

func hasAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// resolveEmployee matches a free-text name fragment against the active
// employee directory snapshot by case-insensitive first- or last-name
// substring, the simplest deterministic match that does not require a
// full NER pipeline.
func resolveEmployee(text string, employees []*entity.Employee) *entity.EmployeeID {
	lower := strings.ToLower(text)
	for _, e := range employees {
		if e.FirstName == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(e.FirstName)) {
			id := e.ID
			return &id
		}
		if e.LastName != "" && strings.Contains(lower, strings.ToLower(e.LastName)) {
			id := e.ID
			return &id
		}
	}
	return nil
}

// Parse is a pure function of (text, employee directory snapshot): the
// same inputs always yield the same Result.
func Parse(text string, employees []*entity.Employee) Result {
	lower := strings.ToLower(strings.TrimSpace(text))

	negation := hasAny(lower, negationWords)
	days := extractWeekdays(lower)
	times := extractTimes(lower)
	employeeID := resolveEmployee(text, employees)

	phrases := make([]string, 0, len(synonymWindows))
	for phrase := range synonymWindows {
		phrases = append(phrases, phrase)
	}
	sort.Strings(phrases)
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			window := synonymWindows[phrase]
			times = append(times, window.Start, window.End)
			break
		}
	}

	switch {
	case quantityRE.MatchString(lower):
		m := quantityRE.FindStringSubmatch(lower)
		headcount, _ := strconv.Atoi(m[1])
		window := entity.AvailabilityWindow{}
		if len(times) >= 2 {
			window = entity.AvailabilityWindow{Start: times[0], End: times[1]}
		}
		var qualification *string
		if q := extractQualificationTag(lower); q != "" {
			qualification = &q
		}
		return Result{
			RuleType:   entity.RuleRequirement,
			Confidence: 0.8,
			Structured: entity.RuleStructured{Requirement: &entity.RequirementRule{
				Window:        window,
				MinHeadcount:  headcount,
				Qualification: qualification,
			}},
		}

	case maxHoursRE.MatchString(lower) || restHoursRE.MatchString(lower):
		restriction := &entity.RestrictionRule{Global: employeeID == nil}
		if m := maxHoursRE.FindStringSubmatch(lower); m != nil {
			hours, _ := strconv.Atoi(m[1])
			restriction.MaxHoursPerWeek = &hours
		}
		if m := restHoursRE.FindStringSubmatch(lower); m != nil {
			hours, _ := strconv.Atoi(m[1])
			restriction.MinRestHours = &hours
		}
		return Result{
			RuleType:   entity.RuleRestriction,
			EmployeeID: employeeID,
			Confidence: 0.85,
			Structured: entity.RuleStructured{Restriction: restriction},
		}

	case hasAny(lower, preferenceCues):
		pref := &entity.PreferenceRule{Days: days}
		if len(times) >= 2 {
			pref.Windows = []entity.AvailabilityWindow{{Start: times[0], End: times[1]}}
		}
		pref.ShiftTypes = extractShiftTypes(lower)
		return Result{
			RuleType:   entity.RulePreference,
			EmployeeID: employeeID,
			Confidence: 0.7,
			Structured: entity.RuleStructured{Preference: pref},
		}

	case employeeID != nil || len(days) > 0 || len(times) > 0:
		avail := &entity.AvailabilityRule{Days: days, Negation: negation}
		if len(times) >= 2 {
			avail.HasWindow = true
			avail.Window = entity.AvailabilityWindow{Start: times[0], End: times[1]}
		}
		confidence := 0.75
		if employeeID == nil {
			confidence = 0.4 // rule clearly targets "someone" but no entity resolved
		}
		return Result{
			RuleType:   entity.RuleAvailability,
			EmployeeID: employeeID,
			Confidence: confidence,
			Ambiguous:  employeeID == nil,
			Candidates: []entity.RuleType{entity.RuleAvailability, entity.RulePreference},
			Structured: entity.RuleStructured{Availability: avail},
		}

	default:
		return Result{
			Ambiguous:  true,
			Confidence: 0.0,
			Candidates: []entity.RuleType{entity.RuleAvailability, entity.RuleRequirement, entity.RulePreference, entity.RuleRestriction},
		}
	}
}

func extractQualificationTag(lower string) string {
	re := regexp.MustCompile(`\b(?:qualified|certified)\s+([a-z-]+)\b`)
	if m := re.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	return ""
}

func extractShiftTypes(lower string) []entity.ShiftType {
	var types []entity.ShiftType
	for _, t := range []entity.ShiftType{
		entity.ShiftMorning,
		entity.ShiftEvening,
		entity.ShiftNight,
		entity.ShiftManagement,
		entity.ShiftEmergency,
	} {
		if strings.Contains(lower, string(t)) {
			types = append(types, t)
		}
	}
	return types
}
