package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ecuador-legendario/premium-api/internal/core/ports"
)

const defaultCaptureLockTTL = time.Minute

// releaseScript deletes the key only when it still carries the caller's token,
// so an expired holder cannot drop a lock taken over by another request.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CaptureLock serialises capture attempts per order id.
// Key format: capture:<order_id>, value: holder token.
type CaptureLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCaptureLock creates a CaptureLock wrapping the given Redis client. The
// lock expires after ttl so a crashed request cannot block an order forever.
func NewCaptureLock(client *redis.Client, ttl time.Duration) ports.CaptureLock {
	if ttl <= 0 {
		ttl = defaultCaptureLockTTL
	}
	return &CaptureLock{client: client, ttl: ttl}
}

// Acquire reports whether this caller now holds the lock for orderID.
func (l *CaptureLock) Acquire(ctx context.Context, orderID string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(orderID), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("capture lock acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the lock for orderID if token still holds it.
func (l *CaptureLock) Release(ctx context.Context, orderID, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key(orderID)}, token).Err(); err != nil {
		return fmt.Errorf("capture lock release: %w", err)
	}
	return nil
}

func (l *CaptureLock) key(orderID string) string {
	return "capture:" + orderID
}
