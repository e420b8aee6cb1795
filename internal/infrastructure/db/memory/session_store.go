// Package memory provides a process-local session store for development and
// tests. Sessions do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

const defaultSweepInterval = time.Minute

type entry struct {
	snapshot  domain.SessionSnapshot
	expiresAt time.Time
}

// SessionStore is a mutex-guarded map with lazy expiry plus a periodic sweep.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionStore starts a store that sweeps expired entries every interval.
// Call Close to stop the sweeper.
func NewSessionStore(interval time.Duration) *SessionStore {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	s := &SessionStore{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go s.sweep(interval)
	return s
}

func (s *SessionStore) Save(_ context.Context, token string, snapshot *domain.SessionSnapshot, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = entry{snapshot: *snapshot, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Load(_ context.Context, token string) (*domain.SessionSnapshot, error) {
	s.mu.RLock()
	e, ok := s.entries[token]
	s.mu.RUnlock()

	if !ok || !s.now().Before(e.expiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	snap := e.snapshot
	return &snap, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}

// Close stops the background sweeper. It is safe to call more than once.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.purgeExpired()
		}
	}
}

func (s *SessionStore) purgeExpired() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, token)
		}
	}
}
