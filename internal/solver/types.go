package solver

import (
	"time"

	"github.com/shiftsync/scheduler/internal/entity"
)

// Weights controls the relative priority of each soft objective. Callers
// may override the defaults per generation request.
type Weights struct {
	Cost      float64
	Fairness  float64
	Pref      float64
	Stability float64
	Spread    float64
}

// DefaultWeights matches the spec's default ordering: cost ≥ fairness ≥
// preference ≥ stability ≥ spread.
func DefaultWeights() Weights {
	return Weights{Cost: 5, Fairness: 4, Pref: 3, Stability: 2, Spread: 1}
}

// Input is everything the solver needs to produce a plan. It never touches
// the store directly; callers gather this from the repository layer.
type Input struct {
	Employees           []*entity.Employee
	Shifts              []*entity.Shift
	Rules               []*entity.Rule
	PriorAssignments    []*entity.Assignment // for the stability objective when re-solving
	Seed                int64
	TimeBudget          time.Duration
	WorkerCount         int
	Weights             Weights
	MinRestHoursDefault int
}

// Status is the solver's reported outcome.
type Status string

const (
	StatusOptimal        Status = "optimal"
	StatusFeasible       Status = "feasible"
	StatusInfeasible     Status = "infeasible"
	StatusTimeoutNoSolve Status = "timeout-no-solution"
	StatusCancelled      Status = "cancelled"
)

// PlannedAssignment is one (employee, shift) pairing the solver proposes.
type PlannedAssignment struct {
	EmployeeID    entity.EmployeeID
	ShiftID       entity.ShiftID
	RationaleTags []string
}

// UnassignedShift explains why a shift did not reach full coverage.
type UnassignedShift struct {
	ShiftID entity.ShiftID
	Reason  string
}

// Metrics summarizes the plan's quality for the response shape.
type Metrics struct {
	TotalCost            float64
	FairnessStdDev       float64
	PreferencesHonored   int
	PreferencesTotal     int
}

// Plan is the solver's complete output; the assignment engine (C6) is
// responsible for applying it transactionally.
type Plan struct {
	Status          Status
	Objective       float64
	Gap             *float64
	Assignments     []PlannedAssignment
	UnassignedShifts []UnassignedShift
	Metrics         Metrics
	Seed            int64
}
