package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shiftsync/scheduler/config"
	"github.com/shiftsync/scheduler/internal/assignment"
	"github.com/shiftsync/scheduler/internal/auth"
	"github.com/shiftsync/scheduler/internal/broadcast"
	"github.com/shiftsync/scheduler/internal/job"
	"github.com/shiftsync/scheduler/internal/logging"
	"github.com/shiftsync/scheduler/internal/repository"
	"github.com/shiftsync/scheduler/internal/rules"
)

// Deps bundles every component the router dispatches into.
type Deps struct {
	Config     *config.Config
	DB         repository.Database
	Auth       *auth.Service
	Limiter    *auth.Limiter
	LoginLimiter *auth.Limiter
	Rules      *rules.Service
	Assignment *assignment.Service
	Hub        *broadcast.Hub
	Scheduler  *job.Scheduler
	Log        *zap.SugaredLogger
}

// NewRouter builds the Echo instance with the full middleware pipeline
// from §4.8 and every route from the external interface section wired to
// its handler.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		_ = fail(c, err, d.Config.IsProduction())
	}

	h := &handlerSet{d: d}

	e.Use(logging.RequestID())
	e.Use(securityHeaders(d.Config.IsProduction()))
	e.Use(cors(d.Config.CORSAllowedOrigins))
	e.Use(bodySizeLimit(d.Config.MaxRequestBodyKB))
	e.Use(authenticate(d.Auth))
	e.Use(rateLimit(d.Limiter))
	e.Use(logging.Access(d.Log, time.Duration(d.Config.SlowRequestMillis)*time.Millisecond))

	e.GET("/api/health", h.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", h.register, csrfProtect)
	authGroup.POST("/login", h.login, loginRateLimit(d.LoginLimiter), csrfProtect)
	authGroup.POST("/refresh", h.refresh, csrfProtect)
	authGroup.POST("/logout", h.logout, requireAuth, csrfProtect)
	authGroup.GET("/me", h.me, requireAuth)
	e.GET("/api/csrf-token", h.csrfToken)

	employees := e.Group("/api/employees", requireAuth)
	employees.GET("", h.listEmployees)
	employees.POST("", h.createEmployee, csrfProtect)
	employees.GET("/:id", h.getEmployee)
	employees.PATCH("/:id", h.updateEmployee, csrfProtect)
	employees.DELETE("/:id", h.deleteEmployee, csrfProtect)
	employees.POST("/:id/reset-password", h.resetPassword, csrfProtect)
	employees.PATCH("/:id/change-password", h.changePassword, csrfProtect)
	employees.PATCH("/:id/status", h.changeStatus, csrfProtect)
	employees.GET("/:id/status-history", h.statusHistory)
	employees.PATCH("/:id/role", h.changeRole, csrfProtect)
	employees.GET("/:id/role-history", h.roleHistory)
	employees.GET("/:id/department-history", h.departmentHistory)

	departments := e.Group("/api/departments", requireAuth)
	departments.GET("", h.listDepartments)
	departments.POST("", h.createDepartment, csrfProtect)
	departments.GET("/:id", h.getDepartment)
	departments.PATCH("/:id", h.updateDepartment, csrfProtect)
	departments.DELETE("/:id", h.deleteDepartment, csrfProtect)

	shifts := e.Group("/api/shifts", requireAuth)
	shifts.GET("", h.listShifts)
	shifts.POST("", h.createShift, csrfProtect)
	shifts.POST("/bulk", h.createShiftsBulk, csrfProtect)
	shifts.GET("/:id", h.getShift)
	shifts.PATCH("/:id", h.updateShift, csrfProtect)
	shifts.DELETE("/:id", h.deleteShift, csrfProtect)

	schedules := e.Group("/api/schedules", requireAuth)
	schedules.GET("", h.listSchedules)
	schedules.POST("", h.createSchedule, csrfProtect)
	schedules.GET("/:id", h.getSchedule)
	schedules.PATCH("/:id", h.updateSchedule, csrfProtect)
	schedules.DELETE("/:id", h.deleteSchedule, csrfProtect)
	schedules.POST("/:id/approve", h.approveSchedule, csrfProtect)
	schedules.POST("/:id/publish", h.publishSchedule, csrfProtect)
	schedules.POST("/:schedule_id/assignments", h.createAssignment, csrfProtect)
	schedules.GET("/:id/events", h.scheduleEvents)

	assignments := e.Group("/api/assignments", requireAuth)
	assignments.GET("", h.listAssignments)
	assignments.POST("/bulk", h.bulkAssignments, csrfProtect)
	assignments.GET("/:id", h.getAssignment)
	assignments.PUT("/:id", h.updateAssignment, csrfProtect)
	assignments.DELETE("/:id", h.deleteAssignment, csrfProtect)
	assignments.POST("/:id/confirm", h.confirmAssignment, csrfProtect)
	assignments.POST("/:id/decline", h.declineAssignment, csrfProtect)
	assignments.GET("/:id/conflicts", h.assignmentConflicts)

	ruleGroup := e.Group("/api/rules", requireAuth)
	ruleGroup.POST("/parse", h.parseRule, csrfProtect)
	ruleGroup.POST("", h.createRule, csrfProtect)
	ruleGroup.GET("", h.listRules)
	ruleGroup.PATCH("/:id", h.updateRule, csrfProtect)
	ruleGroup.DELETE("/:id", h.deleteRule, csrfProtect)

	scheduling := e.Group("/api/schedule", requireAuth, csrfProtect)
	scheduling.POST("/generate", h.generateSchedule)
	scheduling.POST("/optimize", h.optimizeSchedule)
	scheduling.POST("/validate", h.validateSchedule)

	return e
}

// loginRateLimit applies the tighter login-specific limiter (C1's
// LoginRateLimitPerMin) ahead of the route handler, keyed by client IP
// since the caller isn't authenticated yet.
func loginRateLimit(limiter *auth.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow(c.RealIP()) {
				return c.JSON(429, envelope{Error: &errorEnvelope{Kind: "rate_limited", Message: "too many login attempts"}})
			}
			return next(c)
		}
	}
}
