package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shiftsync/scheduler/internal/auth"
	"github.com/shiftsync/scheduler/internal/entity"
)

func (h *handlerSet) listDepartments(c echo.Context) error {
	all, err := h.d.DB.DepartmentRepository().GetAll(c.Request().Context())
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, map[string]any{"items": all})
}

func (h *handlerSet) getDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	dept, err := h.d.DB.DepartmentRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if dept == nil {
		return notFound(c, "department not found")
	}
	return ok(c, http.StatusOK, dept)
}

type departmentRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func (h *handlerSet) createDepartment(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanManageEmployees(claims.Role) {
		return forbidden(c, "not permitted to manage departments")
	}
	var req departmentRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return badRequest(c, "name is required")
	}
	dept := &entity.Department{
		ID: uuid.New(), Name: req.Name, ParentID: req.ParentID,
		CreatedAt: entity.Now(), UpdatedAt: entity.Now(),
	}
	if err := h.d.DB.DepartmentRepository().Create(c.Request().Context(), dept); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusCreated, dept)
}

func (h *handlerSet) updateDepartment(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanManageEmployees(claims.Role) {
		return forbidden(c, "not permitted to manage departments")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	dept, err := h.d.DB.DepartmentRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if dept == nil {
		return notFound(c, "department not found")
	}
	var req departmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.Name != "" {
		dept.Name = req.Name
	}
	dept.ParentID = req.ParentID
	dept.UpdatedAt = entity.Now()
	if err := h.d.DB.DepartmentRepository().Update(c.Request().Context(), dept); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, dept)
}

func (h *handlerSet) deleteDepartment(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanManageEmployees(claims.Role) {
		return forbidden(c, "not permitted to manage departments")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.d.DB.DepartmentRepository().Delete(c.Request().Context(), id); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return noContent(c)
}
