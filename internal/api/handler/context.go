package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ornik8/incident-sync/internal/api/middleware"
	"github.com/ornik8/incident-sync/internal/core/domain"
)

// ctxActor returns the role injected by the Auth middleware. A missing role
// means the route was mounted without Auth.
func ctxActor(c echo.Context) (domain.Role, error) {
	role, _ := c.Get(middleware.CtxRole).(domain.Role)
	if role == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return role, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
