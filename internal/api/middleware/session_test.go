package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

type stubSessionService struct {
	getFn func(ctx context.Context, token string) *domain.SessionSnapshot
}

func (s *stubSessionService) Create(context.Context, *domain.User) (string, error) { return "", nil }
func (s *stubSessionService) Get(ctx context.Context, token string) *domain.SessionSnapshot {
	return s.getFn(ctx, token)
}
func (s *stubSessionService) Update(context.Context, string, func(*domain.SessionSnapshot)) error {
	return nil
}
func (s *stubSessionService) Destroy(context.Context, string) error { return nil }

func newSessions(getFn func(ctx context.Context, token string) *domain.SessionSnapshot) *Sessions {
	return NewSessions(SessionConfig{
		CookieName: "sid",
		Secret:     "test-secret",
		TTL:        time.Hour,
	}, &stubSessionService{getFn: getFn})
}

func runLoad(t *testing.T, s *Sessions, cookie *http.Cookie) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	if err := s.Load()(func(c echo.Context) error {
		called = true
		return nil
	})(c); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	return c
}

func TestSessionsLoad_ValidCookie(t *testing.T) {
	snap := &domain.SessionSnapshot{ID: 1, Username: "a@b.com"}
	s := newSessions(func(_ context.Context, token string) *domain.SessionSnapshot {
		if token != "tok123" {
			t.Fatalf("unexpected token %q", token)
		}
		return snap
	})

	c := runLoad(t, s, &http.Cookie{Name: "sid", Value: s.sign("tok123")})

	if CurrentUser(c) != snap {
		t.Fatalf("expected snapshot in context")
	}
	if SessionToken(c) != "tok123" {
		t.Fatalf("expected token in context, got %q", SessionToken(c))
	}
}

func TestSessionsLoad_TamperedCookieIsAnonymous(t *testing.T) {
	s := newSessions(func(context.Context, string) *domain.SessionSnapshot {
		t.Fatalf("store must not be consulted for a bad signature")
		return nil
	})

	signed := s.sign("tok123")
	tampered := "tok124" + signed[len("tok123"):]

	for _, value := range []string{tampered, "tok123", "tok123.", ".sig", "", "a.b.c"} {
		c := runLoad(t, s, &http.Cookie{Name: "sid", Value: value})
		if CurrentUser(c) != nil || SessionToken(c) != "" {
			t.Fatalf("cookie %q must read as not logged in", value)
		}
	}
}

func TestSessionsLoad_OtherSecretRejected(t *testing.T) {
	s := newSessions(func(context.Context, string) *domain.SessionSnapshot {
		t.Fatalf("store must not be consulted")
		return nil
	})
	other := NewSessions(SessionConfig{CookieName: "sid", Secret: "other"}, nil)

	c := runLoad(t, s, &http.Cookie{Name: "sid", Value: other.sign("tok123")})
	if CurrentUser(c) != nil {
		t.Fatalf("expected anonymous request")
	}
}

func TestSessionsLoad_ExpiredSession(t *testing.T) {
	s := newSessions(func(context.Context, string) *domain.SessionSnapshot { return nil })

	c := runLoad(t, s, &http.Cookie{Name: "sid", Value: s.sign("gone")})
	if CurrentUser(c) != nil {
		t.Fatalf("expected anonymous request")
	}
}

func TestSessionsLoad_NoCookie(t *testing.T) {
	s := newSessions(func(context.Context, string) *domain.SessionSnapshot {
		t.Fatalf("store must not be consulted")
		return nil
	})
	c := runLoad(t, s, nil)
	if CurrentUser(c) != nil {
		t.Fatalf("expected anonymous request")
	}
}

func TestSessionsIssueAndClear(t *testing.T) {
	s := newSessions(nil)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	s.Issue(c, "tok123")
	header := rec.Header().Get(echo.HeaderSetCookie)
	for _, want := range []string{"sid=" + s.sign("tok123"), "HttpOnly", "SameSite=Lax", "Max-Age=3600", "Path=/"} {
		if !strings.Contains(header, want) {
			t.Fatalf("Set-Cookie %q missing %q", header, want)
		}
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	s.Clear(c)
	if header := rec.Header().Get(echo.HeaderSetCookie); !strings.Contains(header, "Max-Age=0") {
		t.Fatalf("expected expiring cookie, got %q", header)
	}
}

func TestRequireLogin(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())

	err := RequireLogin()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}

	c.Set(ContextKeyUser, &domain.SessionSnapshot{ID: 1})
	called := false
	if err := RequireLogin()(func(c echo.Context) error {
		called = true
		return nil
	})(c); err != nil || !called {
		t.Fatalf("expected next to run, err=%v", err)
	}
}
