package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecuador-legendario/premium-api/internal/api/middleware"
	"github.com/ecuador-legendario/premium-api/internal/core/domain"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
)

// SessionCookies writes and clears the session cookie.
type SessionCookies interface {
	Issue(c echo.Context, token string)
	Clear(c echo.Context)
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     SessionCookies
}

func NewAuthHandler(authService ports.AuthService, cookies SessionCookies) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a new account and logs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Email and password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse  "MISSING_FIELDS or INVALID_PAYLOAD"
// @Failure      409   {object}  errorResponse  "USER_EXISTS"
// @Failure      500   {object}  errorResponse  "DB_ERROR"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req, domain.ErrMissingFields); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.Issue(c, res.Token)
	return c.JSON(http.StatusOK, authResponse{OK: true, User: res.User})
}

// Login authenticates an account and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse  "INVALID_PAYLOAD"
// @Failure      401   {object}  errorResponse  "BAD_CREDENTIALS"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidPayload
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.Issue(c, res.Token)
	return c.JSON(http.StatusOK, authResponse{OK: true, User: res.User})
}

// Logout destroys the current session, if any.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  okResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	_ = h.authService.Logout(c.Request().Context(), middleware.SessionToken(c))
	h.cookies.Clear(c)
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Me returns the current session snapshot, or null when anonymous.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := h.authService.Me(c.Request().Context(), middleware.SessionToken(c))
	return c.JSON(http.StatusOK, meResponse{User: user})
}
