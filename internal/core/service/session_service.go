package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
)

const (
	defaultSessionTTL = 7 * 24 * time.Hour
	tokenBytes        = 32
)

// SessionService maps opaque tokens to user snapshots held in a SessionStore.
type SessionService struct {
	store  ports.SessionStore
	ttl    time.Duration
	logger zerolog.Logger
}

func NewSessionService(store ports.SessionStore, ttl time.Duration, logger zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{store: store, ttl: ttl, logger: logger}
}

// Create stores a snapshot of user under a fresh random token.
func (s *SessionService) Create(ctx context.Context, user *domain.User) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if err := s.store.Save(ctx, token, user.Snapshot(), s.ttl); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Get never fails: any lookup problem reads as "not logged in".
func (s *SessionService) Get(ctx context.Context, token string) *domain.SessionSnapshot {
	if token == "" {
		return nil
	}
	snap, err := s.store.Load(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.logger.Warn().Err(err).Msg("session lookup failed")
		}
		return nil
	}
	return snap
}

// Update applies patch to the stored snapshot and refreshes its TTL.
func (s *SessionService) Update(ctx context.Context, token string, patch func(*domain.SessionSnapshot)) error {
	snap, err := s.store.Load(ctx, token)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	patch(snap)
	if err := s.store.Save(ctx, token, snap, s.ttl); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Destroy removes the session. Unknown tokens are not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func generateSessionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
