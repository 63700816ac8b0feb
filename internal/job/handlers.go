package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shiftsync/scheduler/internal/assignment"
	"github.com/shiftsync/scheduler/internal/broadcast"
	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/metrics"
	"github.com/shiftsync/scheduler/internal/repository"
	"github.com/shiftsync/scheduler/internal/solver"
)

// Handlers registers asynq.HandlerFuncs for every task type this service
// enqueues, wiring the solver and assignment engine into the background
// worker process (cmd/worker).
type Handlers struct {
	db         repository.Database
	assignment *assignment.Service
	hub        *broadcast.Hub
	workerCount int
	timeBudget  time.Duration
}

func NewHandlers(db repository.Database, assignSvc *assignment.Service, hub *broadcast.Hub, workerCount int, timeBudget time.Duration) *Handlers {
	return &Handlers{db: db, assignment: assignSvc, hub: hub, workerCount: workerCount, timeBudget: timeBudget}
}

// Register attaches every handler to mux, mirroring the teacher's
// one-HandleFunc-per-task-type wiring.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeGenerateSchedule, h.handleGenerateSchedule)
	mux.HandleFunc(TypeExpireConfirms, h.handleExpireConfirms)
}

func (h *Handlers) handleGenerateSchedule(ctx context.Context, t *asynq.Task) error {
	var payload GenerateSchedulePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", TypeGenerateSchedule, err)
	}

	schedule, err := h.db.ScheduleRepository().GetByID(ctx, payload.ScheduleID)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}
	if schedule == nil {
		return fmt.Errorf("schedule %s not found: %w", payload.ScheduleID, asynq.SkipRetry)
	}

	employees, _, err := h.db.EmployeeRepository().List(ctx, 0, 10000)
	if err != nil {
		return fmt.Errorf("load employees: %w", err)
	}
	shifts, err := h.db.ShiftRepository().GetByDateRange(ctx, schedule.WeekStart, schedule.WeekEnd, nil)
	if err != nil {
		return fmt.Errorf("load shifts: %w", err)
	}
	rules, err := h.db.RuleRepository().GetActive(ctx, nil)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	prior, err := h.priorAssignments(ctx, schedule)
	if err != nil {
		return fmt.Errorf("load prior assignments: %w", err)
	}

	if h.hub != nil {
		h.hub.Publish(scheduleTopic(schedule.ID), "solver.started", nil)
	}

	start := time.Now()
	plan, err := solver.Solve(ctx, solver.Input{
		Employees:   employees,
		Shifts:      shifts,
		Rules:       rules,
		PriorAssignments: prior,
		Seed:        payload.Seed,
		TimeBudget:  h.timeBudget,
		WorkerCount: h.workerCount,
	})
	metrics.SolverDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SolverRunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("solve: %w", err)
	}
	metrics.SolverRunsTotal.WithLabelValues(string(plan.Status)).Inc()

	if plan.Status == solver.StatusInfeasible || plan.Status == solver.StatusCancelled {
		if h.hub != nil {
			h.hub.Publish(scheduleTopic(schedule.ID), "solver.failed", plan)
		}
		return nil
	}

	result, err := h.assignment.ApplySolverPlan(ctx, schedule.ID, payload.RequestedBy, plan)
	if err != nil {
		return fmt.Errorf("apply solver plan: %w", err)
	}
	if h.hub != nil {
		h.hub.Publish(scheduleTopic(schedule.ID), "solver.completed", result)
	}
	return nil
}

func (h *Handlers) priorAssignments(ctx context.Context, schedule *entity.Schedule) ([]*entity.Assignment, error) {
	if schedule.ParentID == nil {
		return nil, nil
	}
	page, err := h.db.AssignmentRepository().GetBySchedule(ctx, *schedule.ParentID, "", 10000)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (h *Handlers) handleExpireConfirms(ctx context.Context, t *asynq.Task) error {
	var payload ExpireConfirmsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", TypeExpireConfirms, err)
	}
	n, err := h.assignment.AutoExpireUnconfirmed(ctx, payload.ScheduleID)
	if err != nil {
		return fmt.Errorf("auto-expire confirms: %w", err)
	}
	if n > 0 && h.hub != nil {
		h.hub.Publish(scheduleTopic(payload.ScheduleID), "assignments.auto_confirmed", n)
	}
	return nil
}

func scheduleTopic(id entity.ScheduleID) string {
	return "schedule:" + id.String()
}
