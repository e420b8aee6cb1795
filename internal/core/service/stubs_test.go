package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

// --- users ---

type stubUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*domain.User

	setPremiumErr   error
	setPremiumCalls int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, username, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	u := &domain.User{ID: r.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	r.users[username] = u
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetPremium(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setPremiumCalls++
	if r.setPremiumErr != nil {
		return r.setPremiumErr
	}
	for _, u := range r.users {
		if u.ID == id {
			u.IsPremium = true
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) isPremium(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	return ok && u.IsPremium
}

// --- sessions ---

type mapSessionStore struct {
	mu      sync.Mutex
	data    map[string]domain.SessionSnapshot
	ttls    map[string]time.Duration
	saveErr error
	loadErr error
}

func newMapSessionStore() *mapSessionStore {
	return &mapSessionStore{
		data: make(map[string]domain.SessionSnapshot),
		ttls: make(map[string]time.Duration),
	}
}

func (s *mapSessionStore) Save(ctx context.Context, token string, snap *domain.SessionSnapshot, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[token] = *snap
	s.ttls[token] = ttl
	return nil
}

func (s *mapSessionStore) Load(ctx context.Context, token string) (*domain.SessionSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	snap, ok := s.data[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &snap, nil
}

func (s *mapSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, token)
	return nil
}

// --- orders ---

type stubOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]*domain.OrderIntent
	findErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.OrderIntent)}
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.OrderIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.OrderID]; ok {
		return domain.ErrOrderExists
	}
	clone := *order
	r.orders[order.OrderID] = &clone
	return nil
}

func (r *stubOrderRepo) FindByOrderID(_ context.Context, orderID string) (*domain.OrderIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	o, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, providerStatus string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	o.History = append(o.History, domain.OrderHistoryEntry{Status: status, ProviderStatus: providerStatus, Timestamp: time.Now()})
	return nil
}

func (r *stubOrderRepo) status(orderID string) domain.OrderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[orderID]; ok {
		return o.Status
	}
	return ""
}

// --- gateway ---

type stubGateway struct {
	createFn  func(ctx context.Context, amount, currency string) (string, error)
	captureFn func(ctx context.Context, orderID string) (string, error)

	mu           sync.Mutex
	captureCalls int
}

func (g *stubGateway) CreateOrder(ctx context.Context, amount, currency string) (string, error) {
	return g.createFn(ctx, amount, currency)
}

func (g *stubGateway) CaptureOrder(ctx context.Context, orderID string) (string, error) {
	g.mu.Lock()
	g.captureCalls++
	g.mu.Unlock()
	return g.captureFn(ctx, orderID)
}

func (g *stubGateway) captures() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.captureCalls
}

// --- lock ---

type stubLock struct {
	mu       sync.Mutex
	held     map[string]string
	err      error
	next     int
	released []string
}

func newStubLock() *stubLock {
	return &stubLock{held: make(map[string]string)}
}

func (l *stubLock) Acquire(_ context.Context, orderID string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", false, l.err
	}
	if _, ok := l.held[orderID]; ok {
		return "", false, nil
	}
	l.next++
	token := fmt.Sprintf("lock-%d", l.next)
	l.held[orderID] = token
	return token, true, nil
}

func (l *stubLock) Release(_ context.Context, orderID, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[orderID] == token {
		delete(l.held, orderID)
		l.released = append(l.released, orderID)
	}
	return nil
}
