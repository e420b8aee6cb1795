package ports

import (
	"context"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

// UserRepository defines the persistence operations for accounts.
type UserRepository interface {
	// Create inserts a new account and returns it with its assigned id.
	// A username collision returns domain.ErrUserExists.
	Create(ctx context.Context, username, passwordHash string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// SetPremium marks the account as premium. Calling it on an account that
	// is already premium is a no-op.
	SetPremium(ctx context.Context, id int64) error
}
