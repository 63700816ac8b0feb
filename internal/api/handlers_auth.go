package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shiftsync/scheduler/internal/entity"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *handlerSet) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Error: &errorEnvelope{Kind: "validation", Message: "malformed request body"}})
	}
	e, err := h.d.Auth.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName, entity.RoleEmployee)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusCreated, e)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlerSet) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Error: &errorEnvelope{Kind: "validation", Message: "malformed request body"}})
	}
	e, session, err := h.d.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, map[string]any{
		"employee":      e,
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_at":    session.ExpiresAt,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *handlerSet) refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, envelope{Error: &errorEnvelope{Kind: "validation", Message: "malformed request body"}})
	}
	e, session, err := h.d.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, map[string]any{
		"employee":      e,
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_at":    session.ExpiresAt,
	})
}

func (h *handlerSet) logout(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token := ""
	if len(header) > 7 {
		token = header[7:]
	}
	if err := h.d.Auth.Logout(c.Request().Context(), token); err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return noContent(c)
}

func (h *handlerSet) me(c echo.Context) error {
	claims, _ := actor(c)
	e, err := h.d.DB.EmployeeRepository().GetByID(c.Request().Context(), claims.EmployeeID)
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	return ok(c, http.StatusOK, e)
}

// csrfToken issues a fresh token via a same-site cookie and echoes it in
// the response body so clients can copy it into X-CSRF-Token.
func (h *handlerSet) csrfToken(c echo.Context) error {
	token, err := newCSRFToken()
	if err != nil {
		return fail(c, err, h.d.Config.IsProduction())
	}
	c.SetCookie(&http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.d.Config.IsProduction(),
		Expires:  time.Now().Add(1 * time.Hour),
	})
	return ok(c, http.StatusOK, map[string]string{"csrf_token": token})
}
