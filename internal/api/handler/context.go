package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carservice/station/internal/api/middleware"
	"github.com/carservice/station/internal/core/ports"
)

// principal returns the caller set by the Auth middleware. Its absence means
// the route was registered without Auth, which is answered as unauthenticated.
func principal(c echo.Context) (ports.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.UserID == 0 {
		return ports.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
