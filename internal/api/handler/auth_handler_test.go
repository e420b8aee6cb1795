package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ecuador-legendario/premium-api/internal/api/middleware"
	"github.com/ecuador-legendario/premium-api/internal/core/domain"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	logoutFn   func(ctx context.Context, token string) error
	meFn       func(ctx context.Context, token string) *domain.SessionSnapshot
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Me(ctx context.Context, token string) *domain.SessionSnapshot {
	return s.meFn(ctx, token)
}

type stubCookies struct {
	issued  string
	cleared bool
}

func (s *stubCookies) Issue(_ echo.Context, token string) { s.issued = token }
func (s *stubCookies) Clear(echo.Context)                 { s.cleared = true }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	cookies := &stubCookies{}
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "Ana@Example.com" || password != "pw" {
				t.Fatalf("unexpected args: %q %q", email, password)
			}
			return &ports.AuthResult{
				Token: "tok",
				User:  &domain.SessionSnapshot{ID: 1, Username: "ana@example.com"},
			}, nil
		},
	}
	handler := NewAuthHandler(stub, cookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"email":"Ana@Example.com","password":"pw"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cookies.issued != "tok" {
		t.Fatalf("expected session cookie for tok, got %q", cookies.issued)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["ok"] != true {
		t.Fatalf("expected ok:true, got %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "ana@example.com" || user["isPremium"] != false || user["id"] != float64(1) {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, &stubCookies{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"email":"ana@example.com"}`), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, &stubCookies{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"email":`), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newEcho()
	cookies := &stubCookies{}
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, cookies)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"email":"a@b.com","password":"pw"}`), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if cookies.issued != "" {
		t.Fatalf("no cookie may be issued on failure")
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, &stubCookies{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"nope"}`), httptest.NewRecorder())

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_ReflectsPremium(t *testing.T) {
	e := newEcho()
	cookies := &stubCookies{}
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return &ports.AuthResult{Token: "t2", User: &domain.SessionSnapshot{ID: 2, Username: "p@b.com", IsPremium: true}}, nil
		},
	}
	handler := NewAuthHandler(stub, cookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"p@b.com","password":"pw"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"isPremium":true`) {
		t.Fatalf("expected premium snapshot, got %s", rec.Body.String())
	}
	if cookies.issued != "t2" {
		t.Fatalf("expected cookie for t2")
	}
}

func TestAuthHandler_Logout_AlwaysOK(t *testing.T) {
	e := newEcho()
	cookies := &stubCookies{}
	var gotToken string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, token string) error {
			gotToken = token
			return errors.New("store down")
		},
	}
	handler := NewAuthHandler(stub, cookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), rec)
	c.Set(middleware.ContextKeyToken, "tok")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	if gotToken != "tok" || !cookies.cleared {
		t.Fatalf("expected session destroyed and cookie cleared")
	}
}

func TestAuthHandler_Me_Anonymous(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		meFn: func(context.Context, string) *domain.SessionSnapshot { return nil },
	}
	handler := NewAuthHandler(stub, &stubCookies{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), rec)

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"user":null}` {
		t.Fatalf("expected null user, got %s", rec.Body.String())
	}
}
