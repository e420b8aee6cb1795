package ports

import (
	"context"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

// AuthResult is returned by successful registration and login. Token is the
// raw session token that the transport layer delivers as a cookie.
type AuthResult struct {
	Token string
	User  *domain.SessionSnapshot
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) *domain.SessionSnapshot
}
