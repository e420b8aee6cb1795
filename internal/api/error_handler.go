package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// apiError pairs an HTTP status with the stable code the frontend switches on.
type apiError struct {
	status int
	code   string
}

// errorTable is checked in order. Provider operation errors come before
// ErrUpstreamAuthFailed because a token failure is wrapped by both.
var errorTable = []struct {
	target error
	apiError
}{
	{domain.ErrInvalidPayload, apiError{http.StatusBadRequest, "INVALID_PAYLOAD"}},
	{domain.ErrMissingFields, apiError{http.StatusBadRequest, "MISSING_FIELDS"}},
	{domain.ErrMissingOrderID, apiError{http.StatusBadRequest, "NO_ORDER_ID"}},
	{domain.ErrInvalidLink, apiError{http.StatusBadRequest, "INVALID_LINK"}},
	{domain.ErrNotCompleted, apiError{http.StatusBadRequest, "NOT_COMPLETED"}},
	{domain.ErrInvalidCredentials, apiError{http.StatusUnauthorized, "BAD_CREDENTIALS"}},
	{domain.ErrNotLoggedIn, apiError{http.StatusUnauthorized, "NO_LOGIN"}},
	{domain.ErrOrderNotOwned, apiError{http.StatusForbidden, "ORDER_NOT_OWNED"}},
	{domain.ErrOrderNotFound, apiError{http.StatusNotFound, "ORDER_NOT_FOUND"}},
	{domain.ErrUserExists, apiError{http.StatusConflict, "USER_EXISTS"}},
	{domain.ErrCaptureInProgress, apiError{http.StatusConflict, "CAPTURE_IN_PROGRESS"}},
	{domain.ErrOrderCreateFailed, apiError{http.StatusInternalServerError, "PAYPAL_CREATE_FAILED"}},
	{domain.ErrOrderCaptureFailed, apiError{http.StatusInternalServerError, "PAYPAL_CAPTURE_FAILED"}},
	{domain.ErrUpstreamAuthFailed, apiError{http.StatusBadGateway, "UPSTREAM_AUTH_FAILED"}},
	{domain.ErrOrderExists, apiError{http.StatusInternalServerError, "DB_ERROR"}},
	{domain.ErrUserNotFound, apiError{http.StatusInternalServerError, "DB_ERROR"}},
	{domain.ErrStorage, apiError{http.StatusInternalServerError, "DB_ERROR"}},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and error code.
//   - Logs server-side failures with the request id, never leaking details.
//   - Renders a consistent JSON envelope: {"error": "<CODE>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resolved := resolveError(err)
		if resolved.status >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("code", resolved.code).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resolved.status)
			return
		}
		_ = c.JSON(resolved.status, errorResponse{Error: resolved.code})
	}
}

func resolveError(err error) apiError {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.apiError
		}
	}

	// Echo's own errors (unknown route, wrong method, oversized body).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return apiError{status: he.Code, code: statusCode(he.Code)}
	}

	return apiError{http.StatusInternalServerError, "INTERNAL_ERROR"}
}

// statusCode turns 404 into "NOT_FOUND", 405 into "METHOD_NOT_ALLOWED" etc.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "INTERNAL_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
