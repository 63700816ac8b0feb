package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shiftsync/scheduler/internal/assignment"
	"github.com/shiftsync/scheduler/internal/auth"
	"github.com/shiftsync/scheduler/internal/entity"
)

func (h *handlerSet) listAssignments(c echo.Context) error {
	scheduleID, err := uuid.Parse(c.QueryParam("schedule_id"))
	if err != nil {
		return badRequest(c, "schedule_id is required")
	}
	cursor, limit := pagination(c)
	f := assignment.Filter{ScheduleID: scheduleID, Cursor: cursor, Limit: limit}
	if raw := c.QueryParam("employee_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid employee_id")
		}
		f.EmployeeID = &id
	}
	if raw := c.QueryParam("status"); raw != "" {
		st := entity.AssignmentStatus(raw)
		f.Status = &st
	}
	page, err := h.d.Assignment.List(c.Request().Context(), f)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, map[string]any{"items": page.Items, "next_cursor": page.NextCursor, "has_more": page.HasMore})
}

func (h *handlerSet) getAssignment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	a, err := h.d.Assignment.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, a)
}

type bulkAssignmentsRequest struct {
	Items []bulkAssignmentItem `json:"items"`
}

type bulkAssignmentItem struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	ShiftID    uuid.UUID `json:"shift_id"`
	Notes      *string   `json:"notes"`
}

// bulkAssignments is idempotent per item: re-submitting the same
// (employee, shift) tuple for a schedule surfaces CodeDuplicateAssignment
// on the repeat rather than creating a second row.
func (h *handlerSet) bulkAssignments(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanCreateAssignment(claims.Role) {
		return forbidden(c, "not permitted to create assignments")
	}
	scheduleID, err := uuid.Parse(c.QueryParam("schedule_id"))
	if err != nil {
		return badRequest(c, "schedule_id is required")
	}
	var req bulkAssignmentsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	items := make([]assignment.BulkItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = assignment.BulkItem{EmployeeID: it.EmployeeID, ShiftID: it.ShiftID, Notes: it.Notes}
	}
	result, err := h.d.Assignment.CreateBulk(c.Request().Context(), scheduleID, claims.EmployeeID, items)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if h.d.Hub != nil && result.TotalCreated > 0 {
		h.d.Hub.Publish(scheduleTopic(scheduleID), "assignments.bulk_created", result)
	}
	return ok(c, http.StatusCreated, result)
}

type updateAssignmentRequest struct {
	Notes *string `json:"notes"`
}

func (h *handlerSet) updateAssignment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req updateAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	a, err := h.d.Assignment.Update(c.Request().Context(), id, req.Notes)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, a)
}

func (h *handlerSet) deleteAssignment(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanCreateAssignment(claims.Role) {
		return forbidden(c, "not permitted to delete assignments")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.d.Assignment.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return noContent(c)
}

func (h *handlerSet) confirmAssignment(c echo.Context) error {
	claims, _ := actor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	a, err := h.d.Assignment.Confirm(c.Request().Context(), id, claims.EmployeeID)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if h.d.Hub != nil {
		h.d.Hub.Publish(scheduleTopic(a.ScheduleID), "assignment.confirmed", a)
	}
	return ok(c, http.StatusOK, a)
}

type declineAssignmentRequest struct {
	Reason string `json:"reason"`
}

func (h *handlerSet) declineAssignment(c echo.Context) error {
	claims, _ := actor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req declineAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	a, err := h.d.Assignment.Decline(c.Request().Context(), id, claims.EmployeeID, req.Reason)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if h.d.Hub != nil {
		h.d.Hub.Publish(scheduleTopic(a.ScheduleID), "assignment.declined", a)
	}
	return ok(c, http.StatusOK, a)
}

func (h *handlerSet) assignmentConflicts(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	conflicts, err := h.d.Assignment.CheckConflicts(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, map[string]any{"items": conflicts})
}
