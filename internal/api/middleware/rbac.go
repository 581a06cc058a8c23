package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// RBAC lets the request through when the caller holds any of allowedRoles.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Full authentication is required to access this resource")
			}
			for _, r := range p.Roles {
				if slices.Contains(allowedRoles, r) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Access Denied")
		}
	}
}
