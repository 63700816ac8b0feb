package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shiftsync/scheduler/internal/auth"
	"github.com/shiftsync/scheduler/internal/job"
)

type generateScheduleRequest struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
	Seed       int64     `json:"seed"`
}

// generateSchedule enqueues a solver run for an existing draft schedule;
// the worker (cmd/worker) applies the resulting plan and broadcasts
// solver.completed on the schedule's topic when it finishes.
func (h *handlerSet) generateSchedule(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanRunSolver(claims.Role) {
		return forbidden(c, "not permitted to run the scheduler")
	}
	if h.d.Scheduler == nil {
		return c.JSON(http.StatusServiceUnavailable, envelope{Error: &errorEnvelope{Kind: "dependency_unavailable", Message: "background scheduler is not configured"}})
	}
	var req generateScheduleRequest
	if err := c.Bind(&req); err != nil || req.ScheduleID == uuid.Nil {
		return badRequest(c, "schedule_id is required")
	}
	if err := h.d.Scheduler.EnqueueGenerateSchedule(c.Request().Context(), job.GenerateSchedulePayload{
		ScheduleID:  req.ScheduleID,
		RequestedBy: claims.EmployeeID,
		Seed:        req.Seed,
	}); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusAccepted, map[string]string{"status": "queued"})
}

// optimizeSchedule re-enqueues a solver run over an already-populated
// schedule; when the target schedule has a parent (via NextVersion), the
// worker seeds the solver with the parent's assignments for stability.
func (h *handlerSet) optimizeSchedule(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanRunSolver(claims.Role) {
		return forbidden(c, "not permitted to run the scheduler")
	}
	if h.d.Scheduler == nil {
		return c.JSON(http.StatusServiceUnavailable, envelope{Error: &errorEnvelope{Kind: "dependency_unavailable", Message: "background scheduler is not configured"}})
	}
	var req generateScheduleRequest
	if err := c.Bind(&req); err != nil || req.ScheduleID == uuid.Nil {
		return badRequest(c, "schedule_id is required")
	}
	if err := h.d.Scheduler.EnqueueGenerateSchedule(c.Request().Context(), job.GenerateSchedulePayload{
		ScheduleID:  req.ScheduleID,
		RequestedBy: claims.EmployeeID,
		Seed:        req.Seed,
	}); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusAccepted, map[string]string{"status": "queued"})
}

type validateScheduleRequest struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
}

// validateSchedule re-runs the assignment validation pipeline against
// every current assignment without persisting, surfacing whatever
// violations would block approval.
func (h *handlerSet) validateSchedule(c echo.Context) error {
	var req validateScheduleRequest
	if err := c.Bind(&req); err != nil || req.ScheduleID == uuid.Nil {
		return badRequest(c, "schedule_id is required")
	}
	violations, err := h.d.Assignment.ValidateSchedule(c.Request().Context(), req.ScheduleID)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, map[string]any{"valid": len(violations) == 0, "violations": violations})
}
