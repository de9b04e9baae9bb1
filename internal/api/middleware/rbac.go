package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC rejects callers whose role is not in the allowed set. Finer-grained,
// record-level checks stay in the core; this gate only cuts off roles that
// never have access to a route.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
