// Package paypal implements ports.PaymentGateway against the PayPal
// Orders v2 REST API.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
	"github.com/ecuador-legendario/premium-api/pkg/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	maxLoggedBody  = 2048
)

// Config holds the REST credentials and the API root.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	// Description is sent as the purchase unit description.
	Description string
	Timeout     time.Duration
}

// Client talks to PayPal. Each operation requests a fresh access token;
// tokens are never cached between calls.
type Client struct {
	baseURL     string
	description string
	http        *http.Client
	oauth       *clientcredentials.Config
	log         zerolog.Logger
}

// NewClient creates a PayPal client.
func NewClient(cfg Config, log zerolog.Logger) ports.PaymentGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		description: cfg.Description,
		http:        &http.Client{Timeout: timeout},
		oauth: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.BaseURL + "/v1/oauth2/token",
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		log: log,
	}
}

type money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	Description string `json:"description,omitempty"`
	Amount      money  `json:"amount"`
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder creates a capture-intent order for one purchase unit.
func (c *Client) CreateOrder(ctx context.Context, amount, currency string) (string, error) {
	body := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			Description: c.description,
			Amount:      money{CurrencyCode: currency, Value: amount},
		}},
	}

	var out orderResponse
	if err := c.do(ctx, "create_order", "/v2/checkout/orders", uuid.NewString(), body, &out); err != nil {
		return "", wrap(domain.ErrOrderCreateFailed, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: response has no order id", domain.ErrOrderCreateFailed)
	}
	return out.ID, nil
}

// CaptureOrder captures a buyer-approved order and returns its status. The
// request id is derived from the order id, so a retried capture is answered
// by PayPal with the original result instead of a second capture.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (string, error) {
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"

	var out orderResponse
	if err := c.do(ctx, "capture_order", path, captureRequestID(orderID), struct{}{}, &out); err != nil {
		if outcomeUnknown(err) {
			return "", fmt.Errorf("%w: %w: %w", domain.ErrOrderCaptureFailed, domain.ErrProviderOutcomeUnknown, err)
		}
		return "", wrap(domain.ErrOrderCaptureFailed, err)
	}
	return out.Status, nil
}

func captureRequestID(orderID string) string {
	return "capture-" + orderID
}

// wrap keeps token failures distinguishable while tagging the operation.
func wrap(op error, err error) error {
	return fmt.Errorf("%w: %w", op, err)
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	start := time.Now()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.Token(ctx)
	if err != nil {
		metrics.ProviderRequestDuration.WithLabelValues("token", "error").Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("%w: %w", domain.ErrUpstreamAuthFailed, err)
	}
	metrics.ProviderRequestDuration.WithLabelValues("token", "ok").Observe(time.Since(start).Seconds())
	return tok.AccessToken, nil
}

func (c *Client) do(ctx context.Context, operation, path, requestID string, in, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.ProviderRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
	}()

	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("PayPal-Request-Id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Str("body", truncate(raw)).
			Msg("paypal request failed")
		return &StatusError{Operation: operation, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// StatusError reports a non-2xx answer from PayPal.
type StatusError struct {
	Operation  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("paypal %s: unexpected status %d", e.Operation, e.StatusCode)
}

// outcomeUnknown reports whether the request may have been applied by PayPal
// despite the error. Token failures and 4xx answers are definitive rejections.
func outcomeUnknown(err error) bool {
	if errors.Is(err, domain.ErrUpstreamAuthFailed) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "..."
	}
	return string(b)
}
