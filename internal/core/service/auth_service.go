package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
	"github.com/ecuador-legendario/premium-api/pkg/metrics"
)

// maxPasswordBytes is the bcrypt input limit. It counts bytes, not runes.
const maxPasswordBytes = 72

// AuthService implements registration, login and logout on top of the user
// repository and the session manager.
type AuthService struct {
	repo     ports.UserRepository
	sessions ports.SessionService
	cost     int
	logger   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, sessions ports.SessionService, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, sessions: sessions, cost: bcrypt.DefaultCost, logger: logger}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	username, password := normalizeCredentials(email, password)
	if username == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "missing_fields").Inc()
		return nil, domain.ErrMissingFields
	}
	if len(password) > maxPasswordBytes {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid_payload").Inc()
		return nil, fmt.Errorf("%w: password longer than %d bytes", domain.ErrInvalidPayload, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
		}
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "user_exists").Inc()
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	s.logger.Info().Int64("user_id", user.ID).Msg("user registered")
	return result, nil
}

// Login returns domain.ErrInvalidCredentials both for unknown users and for
// wrong passwords.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	username, password := normalizeCredentials(email, password)
	if username == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "bad_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "bad_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "bad_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return result, nil
}

// Logout destroys the session. Failures are logged and swallowed.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		s.logger.Warn().Err(err).Msg("logout: destroy session failed")
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, token string) *domain.SessionSnapshot {
	return s.sessions.Get(ctx, token)
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User) (*ports.AuthResult, error) {
	token, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user.Snapshot()}, nil
}

func normalizeCredentials(email, password string) (string, string) {
	return strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(password)
}
