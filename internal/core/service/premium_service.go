package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
	"github.com/ecuador-legendario/premium-api/pkg/metrics"
)

// PremiumPrice is the configured price of the premium upgrade.
type PremiumPrice struct {
	Amount   float64
	Currency string
}

// Value formats the amount the way the provider expects it (two decimals).
func (p PremiumPrice) Value() string {
	return strconv.FormatFloat(p.Amount, 'f', 2, 64)
}

type premiumService struct {
	gateway  ports.PaymentGateway
	orders   ports.OrderRepository
	users    ports.UserRepository
	sessions ports.SessionService
	lock     ports.CaptureLock
	price    PremiumPrice
	log      zerolog.Logger
}

// NewPremiumService returns the PremiumService implementation.
func NewPremiumService(
	gateway ports.PaymentGateway,
	orders ports.OrderRepository,
	users ports.UserRepository,
	sessions ports.SessionService,
	lock ports.CaptureLock,
	price PremiumPrice,
	log zerolog.Logger,
) ports.PremiumService {
	return &premiumService{
		gateway:  gateway,
		orders:   orders,
		users:    users,
		sessions: sessions,
		lock:     lock,
		price:    price,
		log:      log,
	}
}

// CreateOrder asks the provider for a capture-intent order and records which
// user it belongs to.
func (s *premiumService) CreateOrder(ctx context.Context, user *domain.SessionSnapshot) (string, error) {
	if user == nil {
		return "", domain.ErrNotLoggedIn
	}

	orderID, err := s.gateway.CreateOrder(ctx, s.price.Value(), s.price.Currency)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("create", "provider_error").Inc()
		return "", fmt.Errorf("create order: %w", err)
	}

	now := time.Now().UTC()
	intent := &domain.OrderIntent{
		OrderID:   orderID,
		UserID:    user.ID,
		Amount:    s.price.Value(),
		Currency:  s.price.Currency,
		Status:    domain.OrderCreated,
		CreatedAt: now,
		UpdatedAt: now,
		History:   []domain.OrderHistoryEntry{{Status: domain.OrderCreated, Timestamp: now}},
	}
	if err := s.orders.Create(ctx, intent); err != nil {
		metrics.OrdersTotal.WithLabelValues("create", "storage_error").Inc()
		s.log.Error().Err(err).Str("order_id", orderID).Int64("user_id", user.ID).Msg("failed to record order intent")
		return "", fmt.Errorf("create order: %w", err)
	}

	metrics.OrdersTotal.WithLabelValues("create", "ok").Inc()
	s.log.Info().Str("order_id", orderID).Int64("user_id", user.ID).Msg("order created")
	return orderID, nil
}

// CaptureOrder finalises an approved order and, only on a COMPLETED capture,
// promotes the user in storage and in the session.
func (s *premiumService) CaptureOrder(ctx context.Context, in ports.CaptureInput) (*ports.CaptureResult, error) {
	if in.User == nil {
		return nil, domain.ErrNotLoggedIn
	}
	orderID := strings.TrimSpace(in.OrderID)
	if orderID == "" {
		return nil, domain.ErrMissingOrderID
	}

	// 1. Ownership check before anything reaches the provider.
	intent, err := s.orders.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("capture order: %w", err)
	}
	if !intent.OwnedBy(in.User.ID) {
		s.log.Warn().Str("order_id", orderID).Int64("user_id", in.User.ID).Msg("capture attempted on foreign order")
		return nil, domain.ErrOrderNotOwned
	}

	// 2. Replay of an order we already saw complete.
	if intent.Status == domain.OrderCompleted {
		if err := s.promote(ctx, in); err != nil {
			return nil, err
		}
		metrics.OrdersTotal.WithLabelValues("capture", "replayed").Inc()
		return &ports.CaptureResult{Replayed: true}, nil
	}

	// 3. Single-flight per order id; a lock backend failure is not fatal.
	lockToken, acquired, err := s.lock.Acquire(ctx, orderID)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("capture lock unavailable, capturing anyway")
	case !acquired:
		return nil, domain.ErrCaptureInProgress
	default:
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), orderID, lockToken); err != nil {
				s.log.Warn().Err(err).Str("order_id", orderID).Msg("failed to release capture lock")
			}
		}()
	}

	// 4. Provider capture.
	status, err := s.gateway.CaptureOrder(ctx, orderID)

	// The provider may have moved money by now; local writes must not depend
	// on the client staying connected.
	wctx := context.WithoutCancel(ctx)

	if err != nil {
		metrics.OrdersTotal.WithLabelValues("capture", "provider_error").Inc()
		if errors.Is(err, domain.ErrProviderOutcomeUnknown) || ctx.Err() != nil {
			s.log.Warn().Err(err).Str("order_id", orderID).Msg("capture outcome unknown, leaving order open for retry")
		} else {
			s.recordStatus(wctx, orderID, domain.OrderFailed, "")
		}
		return nil, fmt.Errorf("capture order: %w", err)
	}

	if status != domain.CaptureStatusCompleted {
		metrics.OrdersTotal.WithLabelValues("capture", "not_completed").Inc()
		s.recordStatus(wctx, orderID, domain.OrderNotCompleted, status)
		s.log.Info().Str("order_id", orderID).Str("provider_status", status).Msg("capture not completed")
		return nil, domain.ErrNotCompleted
	}

	// 5. Record completion first so a failed promotion can be retried by
	// replaying the capture request.
	if err := s.orders.UpdateStatus(wctx, orderID, domain.OrderCompleted, status); err != nil {
		s.log.Error().Err(err).Str("order_id", orderID).Msg("failed to record completed capture")
	}

	if err := s.promote(wctx, in); err != nil {
		return nil, err
	}

	metrics.OrdersTotal.WithLabelValues("capture", "ok").Inc()
	metrics.PremiumPromotionsTotal.Inc()
	s.log.Info().Str("order_id", orderID).Int64("user_id", in.User.ID).Msg("user promoted to premium")
	return &ports.CaptureResult{}, nil
}

// promote persists the premium flag and then mirrors it in the session. If
// the session cannot be patched it is destroyed, forcing a fresh login that
// reads the flag from storage.
func (s *premiumService) promote(ctx context.Context, in ports.CaptureInput) error {
	if err := s.users.SetPremium(ctx, in.User.ID); err != nil {
		s.log.Error().Err(err).Int64("user_id", in.User.ID).Str("order_id", in.OrderID).Msg("captured order but failed to persist premium flag")
		return fmt.Errorf("capture order: %w", err)
	}

	err := s.sessions.Update(ctx, in.SessionToken, func(snap *domain.SessionSnapshot) {
		snap.IsPremium = true
	})
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", in.User.ID).Msg("session patch failed, destroying session")
		if derr := s.sessions.Destroy(ctx, in.SessionToken); derr != nil {
			s.log.Error().Err(derr).Int64("user_id", in.User.ID).Msg("failed to destroy stale session")
		}
	}
	return nil
}

func (s *premiumService) recordStatus(ctx context.Context, orderID string, status domain.OrderStatus, providerStatus string) {
	if err := s.orders.UpdateStatus(ctx, orderID, status, providerStatus); err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Str("status", string(status)).Msg("failed to record order status")
	}
}

// Gate decides the next step for a premium link from a fresh session read.
func (s *premiumService) Gate(_ context.Context, user *domain.SessionSnapshot, link string) (*ports.GateDecision, error) {
	link = strings.TrimSpace(link)
	if err := validatePremiumLink(link); err != nil {
		return nil, err
	}

	switch {
	case user == nil:
		return &ports.GateDecision{Action: ports.GateLogin, Link: link}, nil
	case user.IsPremium:
		return &ports.GateDecision{Action: ports.GateRedirect, Link: link}, nil
	default:
		return &ports.GateDecision{Action: ports.GatePay, Link: link}, nil
	}
}

// validatePremiumLink accepts site-relative paths and absolute http(s) URLs.
func validatePremiumLink(link string) error {
	if link == "" {
		return domain.ErrInvalidLink
	}
	u, err := url.Parse(link)
	if err != nil {
		return domain.ErrInvalidLink
	}
	if u.Scheme == "" && u.Host == "" {
		if !strings.HasPrefix(link, "/") || strings.HasPrefix(link, "//") {
			return domain.ErrInvalidLink
		}
		return nil
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.ErrInvalidLink
	}
	return nil
}
