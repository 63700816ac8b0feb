package solver

import (
	"math"
	"time"

	"github.com/shiftsync/scheduler/internal/entity"
)

// assignedShift records one shift actually picked for an employee during the
// sequential pass, kept to evaluate the weekly rest-gap constraint against
// shifts assigned earlier in the same run.
type assignedShift struct {
	date  time.Time
	start entity.TimeOfDay
	end   entity.TimeOfDay
}

// assignState tracks everything the greedy pass must know about prior
// picks: hours booked per employee (for fairness and the weekly cap) and
// the shifts already booked (for overlap and rest-gap checks).
type assignState struct {
	cons             *constraints
	defaultMinRest   int
	hoursBooked      map[entity.EmployeeID]float64
	shiftsBooked     map[entity.EmployeeID][]assignedShift
	employeeByID     map[entity.EmployeeID]*entity.Employee
	totalCost        float64
	preferenceMisses int
	preferenceHits   int
}

func newAssignState(employees []*entity.Employee, cons *constraints, defaultMinRest int) *assignState {
	if defaultMinRest <= 0 {
		defaultMinRest = defaultMinRestHours
	}
	s := &assignState{
		cons:           cons,
		defaultMinRest: defaultMinRest,
		hoursBooked:    map[entity.EmployeeID]float64{},
		shiftsBooked:   map[entity.EmployeeID][]assignedShift{},
		employeeByID:   map[entity.EmployeeID]*entity.Employee{},
	}
	for _, e := range employees {
		s.employeeByID[e.ID] = e
	}
	return s
}

func (s *assignState) hoursFor(id entity.EmployeeID) float64 { return s.hoursBooked[id] }

func (s *assignState) record(sh *entity.Shift, e *entity.Employee) {
	hours := sh.Duration().Hours()
	s.hoursBooked[e.ID] += hours
	s.totalCost += hours * e.HourlyRate
	s.shiftsBooked[e.ID] = append(s.shiftsBooked[e.ID], assignedShift{date: sh.Date, start: sh.Start, end: sh.End})
}

func (s *assignState) hoursStats() (mean, stddev float64) {
	if len(s.employeeByID) == 0 {
		return 0, 0
	}
	var sum float64
	for id := range s.employeeByID {
		sum += s.hoursBooked[id]
	}
	mean = sum / float64(len(s.employeeByID))
	var variance float64
	for id := range s.employeeByID {
		d := s.hoursBooked[id] - mean
		variance += d * d
	}
	variance /= float64(len(s.employeeByID))
	return mean, math.Sqrt(variance)
}

// spreadPenalty measures over-assignment concentration: the gap between
// the busiest and least-busy active employee, used as the "spread" soft
// objective (§4.5 over-assignment spread).
func (s *assignState) spreadPenalty() float64 {
	if len(s.employeeByID) == 0 {
		return 0
	}
	min, max := math.Inf(1), math.Inf(-1)
	for id := range s.employeeByID {
		h := s.hoursBooked[id]
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	return max - min
}

func (s *assignState) metrics() Metrics {
	_, stddev := s.hoursStats()
	return Metrics{
		TotalCost:          s.totalCost,
		FairnessStdDev:     stddev,
		PreferencesHonored: s.preferenceHits,
		PreferencesTotal:   s.preferenceHits + s.preferenceMisses,
	}
}

// hasRoomFor reports whether e can take sh without exceeding the weekly
// hour cap, overlapping an already-booked shift, or violating the minimum
// rest gap against adjoining booked shifts.
func (s *assignState) hasRoomFor(e *entity.Employee, sh *entity.Shift, minRestHours int, maxWeekly int) bool {
	if s.hoursBooked[e.ID]+sh.Duration().Hours() > float64(maxWeekly) {
		return false
	}
	shiftStart := sh.Date.Add(time.Duration(sh.Start) * time.Minute)
	shiftEnd := sh.Date.Add(time.Duration(sh.End) * time.Minute)
	rest := time.Duration(minRestHours) * time.Hour

	for _, booked := range s.shiftsBooked[e.ID] {
		bStart := booked.date.Add(time.Duration(booked.start) * time.Minute)
		bEnd := booked.date.Add(time.Duration(booked.end) * time.Minute)
		if shiftStart.Before(bEnd) && bStart.Before(shiftEnd) {
			return false // direct overlap
		}
		var gap time.Duration
		if shiftStart.After(bEnd) {
			gap = shiftStart.Sub(bEnd)
		} else {
			gap = bStart.Sub(shiftEnd)
		}
		if gap < rest {
			return false
		}
	}
	return true
}
