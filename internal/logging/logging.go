// Package logging configures the process-wide structured logger and the
// Echo middleware that feeds it from each HTTP request.
package logging

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a SugaredLogger configured for the given environment. "local"
// and "staging" get a human-readable console encoder; "production" gets
// JSON suitable for log aggregation.
func New(env string) (*zap.SugaredLogger, error) {
	var cfg zap.Config

	switch env {
	case "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}

const requestIDHeader = "X-Request-ID"

// RequestID assigns each request a correlation ID, reusing one supplied by
// the caller, and stores it on the Echo context under "request_id".
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			c.Set("request_id", id)
			c.Response().Header().Set(requestIDHeader, id)
			return next(c)
		}
	}
}

// RequestIDFrom extracts the request ID stashed by RequestID, or "" if the
// middleware was not installed.
func RequestIDFrom(c echo.Context) string {
	id, _ := c.Get("request_id").(string)
	return id
}

// Access logs one line per request: INFO for 2xx/3xx, WARN for 4xx and for
// requests slower than slowThreshold, ERROR for 5xx,
// mirroring the teacher's duration/status/request-id fields.
func Access(log *zap.SugaredLogger, slowThreshold time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < 400 {
					status = 500
				}
			}
			duration := time.Since(start)

			fields := []interface{}{
				"request_id", RequestIDFrom(c),
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"duration_ms", duration.Milliseconds(),
			}
			switch {
			case status >= 500:
				log.Errorw("request completed", fields...)
			case status >= 400:
				log.Warnw("request completed", fields...)
			case slowThreshold > 0 && duration > slowThreshold:
				log.Warnw("slow request", fields...)
			default:
				log.Infow("request completed", fields...)
			}
			return err
		}
	}
}
