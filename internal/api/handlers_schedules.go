package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shiftsync/scheduler/internal/auth"
	"github.com/shiftsync/scheduler/internal/broadcast"
	"github.com/shiftsync/scheduler/internal/entity"
)

func (h *handlerSet) listSchedules(c echo.Context) error {
	status := entity.ScheduleStatus(c.QueryParam("status"))
	if status == "" {
		status = entity.ScheduleDraft
	}
	items, err := h.d.DB.ScheduleRepository().ListByStatus(c.Request().Context(), status)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, map[string]any{"items": items})
}

func (h *handlerSet) getSchedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	s, err := h.d.DB.ScheduleRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if s == nil {
		return notFound(c, "schedule not found")
	}
	return ok(c, http.StatusOK, s)
}

type scheduleRequest struct {
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	Title     string `json:"title"`
}

func (h *handlerSet) createSchedule(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanProposeSchedule(claims.Role) {
		return forbidden(c, "not permitted to create schedules")
	}
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	weekStart, err := time.Parse(dateLayout, req.WeekStart)
	if err != nil {
		return badRequest(c, "invalid week_start")
	}
	weekEnd, err := time.Parse(dateLayout, req.WeekEnd)
	if err != nil {
		return badRequest(c, "invalid week_end")
	}
	if !weekEnd.After(weekStart) {
		return badRequest(c, "week_end must be after week_start")
	}
	s := &entity.Schedule{
		ID: uuid.New(), WeekStart: weekStart, WeekEnd: weekEnd, Title: req.Title,
		Status: entity.ScheduleDraft, CreatedBy: claims.EmployeeID, Version: 1,
		CreatedAt: entity.Now(), UpdatedAt: entity.Now(),
	}
	if err := h.d.DB.ScheduleRepository().Create(c.Request().Context(), s); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusCreated, s)
}

func (h *handlerSet) updateSchedule(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanProposeSchedule(claims.Role) {
		return forbidden(c, "not permitted to update schedules")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	s, err := h.d.DB.ScheduleRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if s == nil {
		return notFound(c, "schedule not found")
	}
	if !s.IsEditable() {
		return c.JSON(http.StatusConflict, envelope{Error: &errorEnvelope{Kind: "conflict", Message: "schedule is not in an editable state"}})
	}
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.Title != "" {
		s.Title = req.Title
	}
	s.UpdatedAt = entity.Now()
	if err := h.d.DB.ScheduleRepository().Update(c.Request().Context(), s); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, s)
}

func (h *handlerSet) deleteSchedule(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanProposeSchedule(claims.Role) {
		return forbidden(c, "not permitted to delete schedules")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.d.DB.ScheduleRepository().Delete(c.Request().Context(), id); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return noContent(c)
}

func (h *handlerSet) approveSchedule(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanApproveSchedule(claims.Role) {
		return forbidden(c, "not permitted to approve schedules")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	s, err := h.d.DB.ScheduleRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if s == nil {
		return notFound(c, "schedule not found")
	}
	if err := s.Approve(claims.EmployeeID); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if err := h.d.DB.ScheduleRepository().Update(c.Request().Context(), s); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if h.d.Hub != nil {
		h.d.Hub.Publish(scheduleTopic(s.ID), "schedule.approved", s)
	}
	return ok(c, http.StatusOK, s)
}

func (h *handlerSet) publishSchedule(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanApproveSchedule(claims.Role) {
		return forbidden(c, "not permitted to publish schedules")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	s, err := h.d.DB.ScheduleRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if s == nil {
		return notFound(c, "schedule not found")
	}
	if err := s.Publish(); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if err := h.d.DB.ScheduleRepository().Update(c.Request().Context(), s); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if h.d.Scheduler != nil {
		_ = h.d.Scheduler.EnqueueExpireConfirms(c.Request().Context(), s.ID)
	}
	if h.d.Hub != nil {
		h.d.Hub.Publish(scheduleTopic(s.ID), "schedule.published", s)
	}
	return ok(c, http.StatusOK, s)
}

type createAssignmentRequest struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	ShiftID    uuid.UUID `json:"shift_id"`
	Notes      *string   `json:"notes"`
}

func (h *handlerSet) createAssignment(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanCreateAssignment(claims.Role) {
		return forbidden(c, "not permitted to create assignments")
	}
	scheduleID, err := uuid.Parse(c.Param("schedule_id"))
	if err != nil {
		return badRequest(c, "invalid schedule_id")
	}
	var req createAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	a, result, err := h.d.Assignment.Create(c.Request().Context(), scheduleID, req.EmployeeID, req.ShiftID, claims.EmployeeID, req.Notes)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if result != nil {
		return failValidation(c, result)
	}
	if h.d.Hub != nil {
		h.d.Hub.Publish(scheduleTopic(scheduleID), "assignment.created", a)
	}
	return ok(c, http.StatusCreated, a)
}

// scheduleEvents streams the schedule's broadcast topic as Server-Sent
// Events; Last-Event-ID lets a reconnecting client resume without
// replaying the whole buffer.
func (h *handlerSet) scheduleEvents(c echo.Context) error {
	if h.d.Hub == nil {
		return notFound(c, "real-time updates are not available")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var afterSeq uint64
	if raw := c.Request().Header.Get("Last-Event-ID"); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			afterSeq = n
		}
	}
	sub := h.d.Hub.Subscribe(scheduleTopic(id), afterSeq)
	defer h.d.Hub.Unsubscribe(sub)

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	w := bufio.NewWriter(resp)

	return h.d.Hub.Run(c.Request().Context(), sub, func(ev broadcast.Event) error {
		return writeEvent(w, resp, ev)
	})
}

func scheduleTopic(id entity.ScheduleID) string { return "schedule:" + id.String() }

// writeEvent serializes one broadcast event as an SSE frame.
func writeEvent(w *bufio.Writer, resp *echo.Response, ev broadcast.Event) error {
	body, err := json.Marshal(ev.Payload)
	if err != nil {
		body = []byte("null")
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.Seq, ev.Kind, body); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	resp.Flush()
	return nil
}
