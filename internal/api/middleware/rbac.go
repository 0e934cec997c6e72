package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/wilsy/service-tracker/internal/core/authz"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowed authz.AllowList) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authz.Authorize(Claims(c), allowed); err != nil {
				return deny(err)
			}
			return next(c)
		}
	}
}
