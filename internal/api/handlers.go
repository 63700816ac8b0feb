package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type handlerSet struct {
	d Deps
}

func (h *handlerSet) health(c echo.Context) error {
	if err := h.d.DB.Health(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, envelope{Error: &errorEnvelope{
			Kind: "dependency_unavailable", Message: "database is unreachable",
		}})
	}
	return ok(c, http.StatusOK, map[string]string{"status": "healthy"})
}

// pagination reads cursor/limit query params with the project-wide default
// page size of 50 and a hard ceiling of 200.
func pagination(c echo.Context) (cursor string, limit int) {
	cursor = c.QueryParam("cursor")
	limit = 50
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	return cursor, limit
}
