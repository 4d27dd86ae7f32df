package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rominswe/pg-progress-sub002/core"
	"github.com/rominswe/pg-progress-sub002/services/metrics"
)

var (
	staffRoles = []string{core.RoleStaff, core.RoleAdmin}
	feedRoles  = core.Roles
)

// roleMiddleware lets through callers holding one of roles.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, err := getContextClaims(ctx); err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// metricsMiddleware records request latency by route pattern.
func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)
		if err != nil {
			// let the error handler write the final status before we read it
			ctx.Error(err)
		}
		status := strconv.Itoa(ctx.Response().Status)
		metrics.RecordHTTPRequestDuration(ctx.Request().Method, ctx.Path(), status, time.Since(start))
		return nil
	}
}
