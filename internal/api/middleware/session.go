package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
)

// Context keys set by Session.
const (
	ContextKeyUser  = "session_user"
	ContextKeyToken = "session_token"
)

// SessionConfig controls the session cookie.
type SessionConfig struct {
	CookieName string
	Secret     string
	Secure     bool
	TTL        time.Duration
}

// Sessions moves session tokens between the cookie and the echo context.
// The cookie value is "<token>.<signature>" where the signature is an
// HMAC-SHA256 of the token keyed with the session secret.
type Sessions struct {
	cfg      SessionConfig
	sessions ports.SessionService
}

func NewSessions(cfg SessionConfig, sessions ports.SessionService) *Sessions {
	if cfg.CookieName == "" {
		cfg.CookieName = "sid"
	}
	return &Sessions{cfg: cfg, sessions: sessions}
}

// Load resolves the cookie into a session snapshot. A missing, tampered or
// expired cookie leaves the request anonymous; it never fails the request.
func (s *Sessions) Load() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(s.cfg.CookieName)
			if err != nil {
				return next(c)
			}

			token, ok := s.verify(cookie.Value)
			if !ok {
				return next(c)
			}

			c.Set(ContextKeyToken, token)
			if user := s.sessions.Get(c.Request().Context(), token); user != nil {
				c.Set(ContextKeyUser, user)
			}
			return next(c)
		}
	}
}

// Issue writes the signed session cookie for token.
func (s *Sessions) Issue(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    s.sign(token),
		Path:     "/",
		MaxAge:   int(s.cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie on the client.
func (s *Sessions) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) sign(token string) string {
	return token + "." + s.mac(token)
}

func (s *Sessions) verify(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", false
	}
	token, sig := value[:i], value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(s.mac(token))) {
		return "", false
	}
	return token, true
}

func (s *Sessions) mac(token string) string {
	h := hmac.New(sha256.New, []byte(s.cfg.Secret))
	h.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// RequireLogin rejects requests without a loaded session before the handler
// runs.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return domain.ErrNotLoggedIn
			}
			return next(c)
		}
	}
}

// CurrentUser returns the snapshot loaded by Sessions.Load, or nil.
func CurrentUser(c echo.Context) *domain.SessionSnapshot {
	user, _ := c.Get(ContextKeyUser).(*domain.SessionSnapshot)
	return user
}

// SessionToken returns the verified session token, or "".
func SessionToken(c echo.Context) string {
	token, _ := c.Get(ContextKeyToken).(string)
	return token
}
