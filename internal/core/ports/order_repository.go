package ports

import (
	"context"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

// OrderRepository stores the order-id to user-id mapping written at order
// creation and verified at capture.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.OrderIntent) error
	// FindByOrderID returns domain.ErrOrderNotFound when no intent exists.
	FindByOrderID(ctx context.Context, orderID string) (*domain.OrderIntent, error)
	// UpdateStatus sets the intent status and appends a history entry.
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, providerStatus string) error
}

// CaptureLock serialises capture attempts for the same order id.
type CaptureLock interface {
	// Acquire returns ok=false when another request already holds the lock.
	// The token identifies this holder and must be passed to Release.
	Acquire(ctx context.Context, orderID string) (token string, ok bool, err error)
	// Release drops the lock only while token still holds it.
	Release(ctx context.Context, orderID, token string) error
}
