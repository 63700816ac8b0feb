package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shiftsync/scheduler/internal/auth"
	"github.com/shiftsync/scheduler/internal/rules"
)

type parseRuleRequest struct {
	Text string `json:"text"`
}

func (h *handlerSet) parseRule(c echo.Context) error {
	var req parseRuleRequest
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return badRequest(c, "text is required")
	}
	result, err := h.d.Rules.ParsePreview(c.Request().Context(), req.Text)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, result)
}

type createRuleRequest struct {
	Text     string `json:"text"`
	Priority int    `json:"priority"`
	Confirm  bool   `json:"confirm"`
}

func (h *handlerSet) createRule(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanProposeSchedule(claims.Role) {
		return forbidden(c, "not permitted to create rules")
	}
	var req createRuleRequest
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return badRequest(c, "text is required")
	}
	rule, result, err := h.d.Rules.Create(c.Request().Context(), req.Text, req.Priority, req.Confirm)
	if err != nil {
		if err == rules.ErrAmbiguous {
			return c.JSON(http.StatusUnprocessableEntity, envelope{
				Data:  result,
				Error: &errorEnvelope{Kind: "validation", Message: "parse is ambiguous, resubmit with confirm=true to accept"},
			})
		}
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusCreated, rule)
}

func (h *handlerSet) listRules(c echo.Context) error {
	var employeeID *uuid.UUID
	if raw := c.QueryParam("employee_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "invalid employee_id")
		}
		employeeID = &id
	}
	items, err := h.d.Rules.ActiveFor(c.Request().Context(), employeeID)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, map[string]any{"items": items})
}

type updateRuleRequest struct {
	Priority *int  `json:"priority"`
	Active   *bool `json:"active"`
}

func (h *handlerSet) updateRule(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanProposeSchedule(claims.Role) {
		return forbidden(c, "not permitted to update rules")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	rule, err := h.d.DB.RuleRepository().GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	if rule == nil {
		return notFound(c, "rule not found")
	}
	var req updateRuleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if err := h.d.DB.RuleRepository().Update(c.Request().Context(), rule); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, rule)
}

func (h *handlerSet) deleteRule(c echo.Context) error {
	claims, _ := actor(c)
	if !auth.CanProposeSchedule(claims.Role) {
		return forbidden(c, "not permitted to delete rules")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.d.DB.RuleRepository().Delete(c.Request().Context(), id); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return noContent(c)
}
