package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/ecuador-legendario/premium-api/internal/api/middleware"
	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

// ctxUser returns the session snapshot injected by the Sessions middleware
// and fails fast before any service call when there is none. Routes are
// already behind RequireLogin; this guards handlers mounted without it.
func ctxUser(c echo.Context) (*domain.SessionSnapshot, string, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, "", domain.ErrNotLoggedIn
	}
	return user, middleware.SessionToken(c), nil
}
