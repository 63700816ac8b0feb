package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/shiftsync/scheduler/internal/auth"
)

const actorContextKey = "actor_claims"

// securityHeaders sets the fixed header set from the external interface
// section on every response.
func securityHeaders(isProduction bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Content-Security-Policy", "default-src 'self'")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
			if isProduction {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			return next(c)
		}
	}
}

func cors(allowedOrigins []string) echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, "X-CSRF-Token"},
	})
}

func bodySizeLimit(maxKB int) echo.MiddlewareFunc {
	return echomw.BodyLimit(strconv.Itoa(maxKB) + "K")
}

// rateLimit applies the C1 per-principal token-bucket limiter, keyed by
// authenticated employee ID when present, falling back to client IP for
// anonymous requests (login, register).
func rateLimit(limiter *auth.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if claims, ok := c.Get(actorContextKey).(*auth.Claims); ok && claims != nil {
				key = claims.EmployeeID.String()
			}
			if !limiter.Allow(key) {
				return c.JSON(http.StatusTooManyRequests, envelope{Error: &errorEnvelope{
					Kind: "rate_limited", Message: "too many requests",
				}})
			}
			return next(c)
		}
	}
}

// authenticate extracts and validates the bearer token when present,
// attaching the resulting claims to the request context. It does not
// reject unauthenticated requests itself; individual routes opt into
// requireAuth.
func authenticate(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.HasPrefix(header, "Bearer ") {
				token := strings.TrimPrefix(header, "Bearer ")
				if claims, err := svc.Authenticate(c.Request().Context(), token); err == nil {
					c.Set(actorContextKey, claims)
				}
			}
			return next(c)
		}
	}
}

// requireAuth rejects requests without a validated actor.
func requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := actor(c); !ok {
			return c.JSON(http.StatusUnauthorized, envelope{Error: &errorEnvelope{
				Kind: "unauthenticated", Message: "a valid access token is required",
			}})
		}
		return next(c)
	}
}

func actor(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(actorContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}

const csrfCookieName = "csrf_token"

// csrfProtect requires state-changing requests to echo the token issued by
// GET /api/csrf-token both as a cookie and as the X-CSRF-Token header,
// the double-submit pattern named in the external interface section.
func csrfProtect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch c.Request().Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			cookie, err := c.Cookie(csrfCookieName)
			if err != nil || cookie.Value == "" {
				return csrfRejected(c)
			}
			header := c.Request().Header.Get("X-CSRF-Token")
			if header == "" || header != cookie.Value {
				return csrfRejected(c)
			}
		}
		return next(c)
	}
}

func csrfRejected(c echo.Context) error {
	return c.JSON(http.StatusForbidden, envelope{Error: &errorEnvelope{
		Kind: "forbidden", Message: "missing or invalid CSRF token",
	}})
}

func newCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
