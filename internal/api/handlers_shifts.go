package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shiftsync/scheduler/internal/auth"
	"github.com/shiftsync/scheduler/internal/entity"
)

const dateLayout = "2006-01-02"

func (h *handlerSet) listShifts(c echo.Context) error {
	start, err := parseDateParam(c, "start", entity.Now().AddDate(0, 0, -7))
	if err != nil {
		return badRequest(c, "invalid start date")
	}
	end, err := parseDateParam(c, "end", entity.Now().AddDate(0, 0, 30))
	if err != nil {
		return badRequest(c, "invalid end date")
	}
	var deptID *uuid.UUID
	if raw := c.QueryParam("department_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid department_id")
		}
		deptID = &id
	}
	shifts, err := h.d.DB.ShiftRepository().GetByDateRange(c.Request().Context(), start, end, deptID)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, map[string]any{"items": shifts})
}

func parseDateParam(c echo.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse(dateLayout, raw)
}

func (h *handlerSet) getShift(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	sh, err := h.d.DB.ShiftRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if sh == nil {
		return notFound(c, "shift not found")
	}
	return ok(c, http.StatusOK, sh)
}

type shiftRequest struct {
	Date          string           `json:"date"`
	Start         string           `json:"start"`
	End           string           `json:"end"`
	ShiftType     entity.ShiftType `json:"shift_type"`
	DepartmentID  *uuid.UUID       `json:"department_id"`
	RequiredStaff int              `json:"required_staff"`
	Priority      int              `json:"priority"`
	Requirements  []string         `json:"requirements"`
}

func (r shiftRequest) toEntity() (*entity.Shift, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return nil, err
	}
	start, err := entity.ParseTimeOfDay(r.Start)
	if err != nil {
		return nil, err
	}
	end, err := entity.ParseTimeOfDay(r.End)
	if err != nil {
		return nil, err
	}
	reqs := make(map[string]struct{}, len(r.Requirements))
	for _, q := range r.Requirements {
		reqs[q] = struct{}{}
	}
	priority := r.Priority
	if priority == 0 {
		priority = 5
	}
	return &entity.Shift{
		ID: uuid.New(), Date: date, Start: start, End: end, ShiftType: r.ShiftType,
		DepartmentID: r.DepartmentID, RequiredStaff: r.RequiredStaff, Priority: priority,
		Requirements: reqs, CreatedAt: entity.Now(), UpdatedAt: entity.Now(),
	}, nil
}

func (h *handlerSet) createShift(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanProposeSchedule(claims.Role) {
		return forbidden(c, "not permitted to manage shifts")
	}
	var req shiftRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	sh, err := req.toEntity()
	if err != nil {
		return badRequest(c, "invalid shift fields")
	}
	if err := h.d.DB.ShiftRepository().Create(c.Request().Context(), sh); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusCreated, sh)
}

type bulkShiftError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// createShiftsBulk inserts each shift within its own savepoint, mirroring
// internal/assignment's bulk path, so one malformed row doesn't abort the
// whole batch.
func (h *handlerSet) createShiftsBulk(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanProposeSchedule(claims.Role) {
		return forbidden(c, "not permitted to manage shifts")
	}
	var req []shiftRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	ctx := c.Request().Context()
	tx, err := h.d.DB.BeginTx(ctx)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	created := make([]*entity.Shift, 0, len(req))
	errs := make([]bulkShiftError, 0)
	for i, item := range req {
		sp := fmt.Sprintf("bulk_shift_%d", i)
		if err := tx.Savepoint(ctx, sp); err != nil {
			_ = tx.Rollback()
			return fail(c, err, h.d.Config.IsProduction())
		}
		sh, err := item.toEntity()
		if err == nil {
			err = tx.ShiftRepository().Create(ctx, sh)
		}
		if err != nil {
			errs = append(errs, bulkShiftError{Index: i, Message: err.Error()})
			_ = tx.RollbackToSavepoint(ctx, sp)
			continue
		}
		created = append(created, sh)
		_ = tx.ReleaseSavepoint(ctx, sp)
	}
	if err := tx.Commit(); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusCreated, map[string]any{"created": created, "errors": errs})
}

func (h *handlerSet) updateShift(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanProposeSchedule(claims.Role) {
		return forbidden(c, "not permitted to manage shifts")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	sh, err := h.d.DB.ShiftRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if sh == nil {
		return notFound(c, "shift not found")
	}
	var req shiftRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.Date != "" {
		if d, err := time.Parse(dateLayout, req.Date); err == nil {
			sh.Date = d
		}
	}
	if req.Start != "" {
		if v, err := entity.ParseTimeOfDay(req.Start); err == nil {
			sh.Start = v
		}
	}
	if req.End != "" {
		if v, err := entity.ParseTimeOfDay(req.End); err == nil {
			sh.End = v
		}
	}
	if req.ShiftType != "" {
		sh.ShiftType = req.ShiftType
	}
	if req.DepartmentID != nil {
		sh.DepartmentID = req.DepartmentID
	}
	if req.RequiredStaff != 0 {
		sh.RequiredStaff = req.RequiredStaff
	}
	if req.Priority != 0 {
		sh.Priority = req.Priority
	}
	if req.Requirements != nil {
		reqs := make(map[string]struct{}, len(req.Requirements))
		for _, q := range req.Requirements {
			reqs[q] = struct{}{}
		}
		sh.Requirements = reqs
	}
	sh.UpdatedAt = entity.Now()
	if err := h.d.DB.ShiftRepository().Update(c.Request().Context(), sh); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, sh)
}

func (h *handlerSet) deleteShift(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanProposeSchedule(claims.Role) {
		return forbidden(c, "not permitted to manage shifts")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.d.DB.ShiftRepository().Delete(c.Request().Context(), id); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return noContent(c)
}
