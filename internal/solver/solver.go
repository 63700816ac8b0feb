// Package solver implements the schedule generator (C5): given an employee
// pool, a candidate shift set, and the active rule set, it proposes a
// complete (employee, shift) assignment plan without writing to the store.
//
// The corpus carries no CP/ILP or graph-optimization library (no OR-tools
// binding, no goraph, no linear-programming package anywhere in the
// examples), so the model below is a deterministic constructive heuristic:
// a priority-ordered greedy pass with seeded tie-breaking, which satisfies
// the spec's determinism and time-budget requirements without inventing a
// fake dependency. See DESIGN.md for the full justification.
package solver

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shiftsync/scheduler/internal/entity"
)

// cancelCheckInterval bounds how long the sequential assignment pass can run
// between context checks, satisfying the "cancellable within 100ms" bound.
const cancelCheckInterval = 64

// Solve runs the generator. It never mutates store state; the caller
// (internal/assignment's ApplySolverPlan) is responsible for persistence.
func Solve(ctx context.Context, in Input) (*Plan, error) {
	start := time.Now()
	if in.TimeBudget <= 0 {
		in.TimeBudget = 10 * time.Second
	}
	if in.WorkerCount <= 0 {
		in.WorkerCount = 4
	}
	weights := in.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}

	ctx, cancel := context.WithTimeout(ctx, in.TimeBudget)
	defer cancel()

	cons := buildConstraints(in.Rules)
	priorByShiftEmployee := map[[2]entity.EmployeeID]bool{}
	for _, a := range in.PriorAssignments {
		if a.Status.IsTerminal() {
			continue
		}
		priorByShiftEmployee[[2]entity.EmployeeID{a.ShiftID, a.EmployeeID}] = true
	}

	activeEmployees := make([]*entity.Employee, 0, len(in.Employees))
	for _, e := range in.Employees {
		if e.IsActive && !e.IsDeleted() {
			activeEmployees = append(activeEmployees, e)
		}
	}

	shifts := make([]*entity.Shift, 0, len(in.Shifts))
	for _, sh := range in.Shifts {
		if !sh.IsDeleted() {
			shifts = append(shifts, sh)
		}
	}
	sort.Slice(shifts, func(i, j int) bool {
		if shifts[i].Priority != shifts[j].Priority {
			return shifts[i].Priority > shifts[j].Priority
		}
		if !shifts[i].Date.Equal(shifts[j].Date) {
			return shifts[i].Date.Before(shifts[j].Date)
		}
		if shifts[i].Start != shifts[j].Start {
			return shifts[i].Start < shifts[j].Start
		}
		return shifts[i].ID.String() < shifts[j].ID.String()
	})

	// Phase 1: static eligibility per shift (qualification + availability +
	// rule constraints), independent of assignment order, so it can run
	// concurrently across a bounded worker pool.
	eligible := make([][]*entity.Employee, len(shifts))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(in.WorkerCount)
	for i, sh := range shifts {
		i, sh := i, sh
		group.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			eligible[i] = staticEligibility(sh, activeEmployees, cons)
			return nil
		})
	}
	if err := group.Wait(); err != nil && ctx.Err() != nil {
		return &Plan{Status: StatusCancelled, Seed: in.Seed}, nil
	}

	// Phase 2: sequential greedy assignment with dynamic state (hours
	// worked, rest gaps, already-assigned shifts), deterministic given Seed.
	rng := rand.New(rand.NewSource(in.Seed))
	state := newAssignState(activeEmployees, cons, in.MinRestHoursDefault)

	var plan Plan
	plan.Seed = in.Seed
	iterations := 0

	for i, sh := range shifts {
		iterations++
		if iterations%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				plan.Status = StatusTimeoutNoSolve
				if len(plan.Assignments) > 0 {
					plan.Status = StatusFeasible
				}
				finalizeMetrics(&plan, state, weights)
				return &plan, nil
			default:
			}
		}

		candidates := append([]*entity.Employee(nil), eligible[i]...)
		candidates = filterDynamic(sh, candidates, state)
		scored := scoreCandidates(sh, candidates, state, weights, priorByShiftEmployee, cons)

		need := sh.RequiredStaff
		if need <= 0 {
			need = 1
		}
		picked := pickTop(scored, need, rng)
		for _, p := range picked {
			plan.Assignments = append(plan.Assignments, PlannedAssignment{
				EmployeeID:    p.employee.ID,
				ShiftID:       sh.ID,
				RationaleTags: p.tags,
			})
			state.record(sh, p.employee)
			if cons.prefers(p.employee, sh) {
				state.preferenceHits++
			} else if len(cons.preference[p.employee.ID]) > 0 {
				state.preferenceMisses++
			}
		}
		if len(picked) < need {
			reason := "insufficient qualified or available staff"
			if len(candidates) == 0 {
				reason = "no eligible employees"
			}
			plan.UnassignedShifts = append(plan.UnassignedShifts, UnassignedShift{
				ShiftID: sh.ID,
				Reason:  reason,
			})
		}
	}

	finalizeMetrics(&plan, state, weights)

	switch {
	case time.Since(start) >= in.TimeBudget && len(plan.UnassignedShifts) > 0:
		plan.Status = StatusFeasible
	case len(plan.UnassignedShifts) == 0:
		plan.Status = StatusOptimal
	case len(plan.Assignments) == 0:
		plan.Status = StatusInfeasible
	default:
		plan.Status = StatusFeasible
	}
	return &plan, nil
}

func finalizeMetrics(plan *Plan, state *assignState, weights Weights) {
	plan.Metrics = state.metrics()
	plan.Objective = objective(state, weights)
}

// objective is a lower-is-better scalar blending the weighted soft goals;
// returned alongside status so callers can compare plans across reruns.
func objective(state *assignState, weights Weights) float64 {
	_, stddev := state.hoursStats()
	return weights.Cost*state.totalCost +
		weights.Fairness*stddev +
		weights.Pref*float64(state.preferenceMisses) +
		weights.Spread*state.spreadPenalty()
}

type scoredCandidate struct {
	employee *entity.Employee
	score    float64
	tags     []string
}

// scoreCandidates ranks eligible employees for one shift, lower score is
// better: cost first (hourly rate), then fairness (prefer employees with
// fewer hours assigned so far), then preference and stability bonuses.
func scoreCandidates(sh *entity.Shift, candidates []*entity.Employee, state *assignState, w Weights, prior map[[2]entity.EmployeeID]bool, cons *constraints) []scoredCandidate {
	hours := sh.Duration().Hours()
	out := make([]scoredCandidate, 0, len(candidates))
	for _, e := range candidates {
		var tags []string
		score := w.Cost * e.HourlyRate * hours
		score += w.Fairness * state.hoursFor(e.ID)
		if prior[[2]entity.EmployeeID{sh.ID, e.ID}] {
			score -= w.Stability * 10
			tags = append(tags, "stability:previously-assigned")
		}
		if cons.prefers(e, sh) {
			score -= w.Pref * 5
			tags = append(tags, "preference:matched")
		}
		out = append(out, scoredCandidate{employee: e, score: score, tags: tags})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score < out[j].score
		}
		return out[i].employee.ID.String() < out[j].employee.ID.String()
	})
	return out
}

// pickTop selects up to n candidates from the front of an already-sorted
// list, breaking exact ties with the seeded rng so repeated equal-score
// fronts don't always favor the same employee ID ordering.
func pickTop(scored []scoredCandidate, n int, rng *rand.Rand) []scoredCandidate {
	if n > len(scored) {
		n = len(scored)
	}
	if n == 0 {
		return nil
	}
	// Shuffle within equal-score runs only, to keep determinism tied to Seed
	// while avoiding a fixed bias toward lexicographically small UUIDs.
	i := 0
	for i < len(scored) {
		j := i + 1
		for j < len(scored) && scored[j].score == scored[i].score {
			j++
		}
		rng.Shuffle(j-i, func(a, b int) {
			scored[i+a], scored[i+b] = scored[i+b], scored[i+a]
		})
		i = j
	}
	return scored[:n]
}

