package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shiftsync/scheduler/internal/auth"
	"github.com/shiftsync/scheduler/internal/entity"
)

func (h *handlerSet) listEmployees(c echo.Context) error {
	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		offset, _ = strconv.Atoi(raw)
	}
	_, limit := pagination(c)
	all, total, err := h.d.DB.EmployeeRepository().List(c.Request().Context(), offset, limit)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	filtered := filterEmployees(c, all)
	return ok(c, http.StatusOK, map[string]any{"items": filtered, "total": total})
}

func filterEmployees(c echo.Context, all []*entity.Employee) []*entity.Employee {
	search := strings.ToLower(c.QueryParam("search"))
	role := c.QueryParam("role")
	deptParam := c.QueryParam("department_id")
	activeParam := c.QueryParam("is_active")

	out := make([]*entity.Employee, 0, len(all))
	for _, e := range all {
		if search != "" && !strings.Contains(strings.ToLower(e.FullName()), search) && !strings.Contains(strings.ToLower(e.Email), search) {
			continue
		}
		if role != "" && string(e.Role) != role {
			continue
		}
		if deptParam != "" {
			id, err := uuid.Parse(deptParam)
			if err != nil || e.DepartmentID == nil || *e.DepartmentID != id {
				continue
			}
		}
		if activeParam != "" && strconv.FormatBool(e.IsActive) != activeParam {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (h *handlerSet) getEmployee(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	e, err := h.d.DB.EmployeeRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if e == nil {
		return notFound(c, "employee not found")
	}
	return ok(c, http.StatusOK, e)
}

type createEmployeeRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      entity.Role `json:"role"`
}

func (h *handlerSet) createEmployee(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanManageEmployees(claims.Role) {
		return forbidden(c, "not permitted to create employees")
	}
	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if !entity.ValidRole(req.Role) {
		req.Role = entity.RoleEmployee
	}
	e, err := h.d.Auth.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName, req.Role)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusCreated, e)
}

type updateEmployeeRequest struct {
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	Phone           *string    `json:"phone"`
	DepartmentID    *uuid.UUID `json:"department_id"`
	HourlyRate      *float64   `json:"hourly_rate"`
	MaxHoursPerWeek *int       `json:"max_hours_per_week"`
	Qualifications  *[]string  `json:"qualifications"`
}

func (h *handlerSet) updateEmployee(c echo.Context) error {
	claims, _ := actor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if claims.EmployeeID != id && !auth.CanManageEmployees(claims.Role) {
		return forbidden(c, "not permitted to update this employee")
	}
	e, err := h.d.DB.EmployeeRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if e == nil {
		return notFound(c, "employee not found")
	}
	var req updateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.FirstName != nil {
		e.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		e.LastName = *req.LastName
	}
	if req.Phone != nil {
		e.Phone = req.Phone
	}
	if req.DepartmentID != nil {
		e.DepartmentID = req.DepartmentID
	}
	if req.HourlyRate != nil {
		e.HourlyRate = *req.HourlyRate
	}
	if req.MaxHoursPerWeek != nil {
		e.MaxHoursPerWeek = *req.MaxHoursPerWeek
	}
	if req.Qualifications != nil {
		set := make(map[string]struct{}, len(*req.Qualifications))
		for _, q := range *req.Qualifications {
			set[q] = struct{}{}
		}
		e.Qualifications = set
	}
	e.UpdatedAt = entity.Now()
	if err := h.d.DB.EmployeeRepository().Update(c.Request().Context(), e); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, e)
}

func (h *handlerSet) deleteEmployee(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanDeleteEmployee(claims.Role) {
		return forbidden(c, "not permitted to delete employees")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.d.DB.EmployeeRepository().Delete(c.Request().Context(), id); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return noContent(c)
}

type resetPasswordResponse struct {
	TemporaryPassword string `json:"temporary_password"`
}

func (h *handlerSet) resetPassword(c echo.Context) error {
	claims, _ := actor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	target, err := h.d.DB.EmployeeRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if target == nil {
		return notFound(c, "employee not found")
	}
	if !auth.CanResetPassword(claims.Role, target.Role) {
		return forbidden(c, "not permitted to reset this employee's password")
	}
	temp, err := h.d.Auth.ResetPassword(c.Request().Context(), target)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, resetPasswordResponse{TemporaryPassword: temp})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// changePassword lets an employee change their own password, or lets a
// manager/admin reset a subordinate's without knowing the old one.
func (h *handlerSet) changePassword(c echo.Context) error {
	claims, _ := actor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	target, err := h.d.DB.EmployeeRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if target == nil {
		return notFound(c, "employee not found")
	}
	isSelf := claims.EmployeeID == id
	isAdminReset := !isSelf && auth.CanResetPassword(claims.Role, target.Role)
	if !isSelf && !isAdminReset {
		return forbidden(c, "not permitted to change this employee's password")
	}
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := h.d.Auth.ChangePassword(c.Request().Context(), target, req.OldPassword, req.NewPassword, isAdminReset); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return noContent(c)
}

type changeStatusRequest struct {
	IsActive bool    `json:"is_active"`
	Reason   *string `json:"reason"`
}

func (h *handlerSet) changeStatus(c echo.Context) error {
	claims, _ := actor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if !auth.CanChangeRoleOrStatus(claims.Role, claims.EmployeeID, id) {
		return forbidden(c, "not permitted to change this employee's status")
	}
	target, err := h.d.DB.EmployeeRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if target == nil {
		return notFound(c, "employee not found")
	}
	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	old := strconv.FormatBool(target.IsActive)
	target.IsActive = req.IsActive
	target.UpdatedAt = entity.Now()
	if err := h.d.DB.EmployeeRepository().Update(c.Request().Context(), target); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	_ = h.d.DB.HistoryRepository().Create(c.Request().Context(), &entity.HistoryEntry{
		ID: uuid.New(), EmployeeID: id, Field: "status", OldValue: old,
		NewValue: strconv.FormatBool(req.IsActive), ChangedByID: claims.EmployeeID,
		ChangedAt: entity.Now(), Reason: req.Reason,
	})
	return ok(c, http.StatusOK, target)
}

type changeRoleRequest struct {
	Role   entity.Role `json:"role"`
	Reason *string     `json:"reason"`
}

func (h *handlerSet) changeRole(c echo.Context) error {
	claims, _ := actor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if !auth.CanChangeRoleOrStatus(claims.Role, claims.EmployeeID, id) {
		return forbidden(c, "not permitted to change this employee's role")
	}
	target, err := h.d.DB.EmployeeRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if target == nil {
		return notFound(c, "employee not found")
	}
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil || !entity.ValidRole(req.Role) {
		return badRequest(c, "invalid role")
	}
	old := string(target.Role)
	target.Role = req.Role
	target.UpdatedAt = entity.Now()
	if err := h.d.DB.EmployeeRepository().Update(c.Request().Context(), target); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	_ = h.d.DB.HistoryRepository().Create(c.Request().Context(), &entity.HistoryEntry{
		ID: uuid.New(), EmployeeID: id, Field: "role", OldValue: old,
		NewValue: string(req.Role), ChangedByID: claims.EmployeeID,
		ChangedAt: entity.Now(), Reason: req.Reason,
	})
	return ok(c, http.StatusOK, target)
}

func (h *handlerSet) historyByField(c echo.Context, field string) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	cursor, limit := pagination(c)
	page, err := h.d.DB.HistoryRepository().GetByEmployee(c.Request().Context(), id, cursor, limit)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	filtered := make([]*entity.HistoryEntry, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Field == field {
			filtered = append(filtered, item)
		}
	}
	return ok(c, http.StatusOK, map[string]any{"items": filtered, "next_cursor": page.NextCursor, "has_more": page.HasMore})
}

func (h *handlerSet) statusHistory(c echo.Context) error     { return h.historyByField(c, "status") }
func (h *handlerSet) roleHistory(c echo.Context) error       { return h.historyByField(c, "role") }
func (h *handlerSet) departmentHistory(c echo.Context) error { return h.historyByField(c, "department") }
