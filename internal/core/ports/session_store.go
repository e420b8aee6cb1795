package ports

import (
	"context"
	"time"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

// SessionStore persists session snapshots keyed by opaque token.
type SessionStore interface {
	Save(ctx context.Context, token string, snapshot *domain.SessionSnapshot, ttl time.Duration) error
	// Load returns domain.ErrSessionNotFound for unknown or expired tokens.
	Load(ctx context.Context, token string) (*domain.SessionSnapshot, error)
	Delete(ctx context.Context, token string) error
}

// SessionService is the session manager used by the auth and premium flows.
type SessionService interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	// Get returns nil when the token is empty, unknown or expired.
	Get(ctx context.Context, token string) *domain.SessionSnapshot
	Update(ctx context.Context, token string, patch func(*domain.SessionSnapshot)) error
	Destroy(ctx context.Context, token string) error
}
