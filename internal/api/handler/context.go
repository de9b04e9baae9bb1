package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/helpdesk-api/internal/api/middleware"
	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// principal extracts the authenticated principal injected by the Auth
// middleware. A missing or unparseable role means the middleware did not run
// or the token is structurally unusable; fail with 401 before any service
// call.
func principal(c echo.Context) (domain.Principal, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	roleStr, _ := c.Get(middleware.CtxRole).(string)

	role, ok := domain.ParseRole(roleStr)
	if id == "" || !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Principal{ID: id, Role: role}, nil
}
