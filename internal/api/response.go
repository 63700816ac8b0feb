// Package api implements the HTTP surface (C8): an Echo router, its
// middleware pipeline, and the handlers for every endpoint in the external
// interface.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shiftsync/scheduler/internal/assignment"
	"github.com/shiftsync/scheduler/internal/auth"
	"github.com/shiftsync/scheduler/internal/repository"
	"github.com/shiftsync/scheduler/internal/rules"
	"github.com/shiftsync/scheduler/internal/validation"
)

// envelope is the single response shape used across the API: success
// responses carry data, failures carry a typed error.
type envelope struct {
	Data  any            `json:"data,omitempty"`
	Error *errorEnvelope `json:"error,omitempty"`
}

type errorEnvelope struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Data: data})
}

func noContent(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func forbidden(c echo.Context, message string) error {
	return c.JSON(http.StatusForbidden, envelope{Error: &errorEnvelope{Kind: "forbidden", Message: message}})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, envelope{Error: &errorEnvelope{Kind: "validation", Message: message}})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, envelope{Error: &errorEnvelope{Kind: "not_found", Message: message}})
}

// fail maps a domain error to an HTTP status and a stable error kind,
// following the kind/status table in the external interface section.
// isProduction controls whether unmapped errors get a generic message or
// the underlying error text.
func fail(c echo.Context, err error, isProduction bool) error {
	status, kind, msg := classify(err)
	if status == http.StatusInternalServerError && isProduction {
		msg = "an internal error occurred"
	}
	return c.JSON(status, envelope{Error: &errorEnvelope{Kind: kind, Message: msg}})
}

func failValidation(c echo.Context, result *validation.Result) error {
	fields := map[string]string{}
	for _, m := range result.MessagesBySeverity(validation.SeverityError) {
		fields[m.Code] = m.Text
	}
	return c.JSON(http.StatusUnprocessableEntity, envelope{Error: &errorEnvelope{
		Kind:    "validation",
		Message: "one or more assignment constraints were violated",
		Fields:  fields,
	}})
}

func classify(err error) (status int, kind, message string) {
	switch {
	case err == nil:
		return http.StatusOK, "", ""

	case repository.IsNotFound(err):
		return http.StatusNotFound, "not_found", err.Error()
	case repository.IsValidation(err):
		return http.StatusBadRequest, "validation", err.Error()

	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "unauthenticated", "invalid email or password"
	case errors.Is(err, auth.ErrAccountLocked):
		return http.StatusLocked, "locked", "account is locked, try again later"
	case errors.Is(err, auth.ErrAccountInactive):
		return http.StatusForbidden, "forbidden", "account is not active"
	case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrTokenRevoked):
		return http.StatusUnauthorized, "unauthenticated", err.Error()
	case errors.Is(err, auth.ErrPasswordReused), errors.Is(err, auth.ErrWeakPassword):
		return http.StatusUnprocessableEntity, "validation", err.Error()
	case errors.Is(err, auth.ErrSelfLockout):
		return http.StatusConflict, "conflict", err.Error()
	case errors.Is(err, auth.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", err.Error()

	case errors.Is(err, assignment.ErrNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, assignment.ErrNotAssignedEmployee):
		return http.StatusForbidden, "forbidden", err.Error()
	case errors.Is(err, assignment.ErrAlreadyTerminal):
		return http.StatusConflict, "conflict", err.Error()
	case errors.Is(err, assignment.ErrConfirmWindowClosed):
		return http.StatusConflict, "conflict", err.Error()
	case errors.Is(err, assignment.ErrDeclineNeedsReason):
		return http.StatusBadRequest, "validation", err.Error()

	case errors.Is(err, rules.ErrAmbiguous):
		return http.StatusUnprocessableEntity, "validation", err.Error()

	default:
		return http.StatusInternalServerError, "internal", err.Error()
	}
}
