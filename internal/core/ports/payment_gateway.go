package ports

import "context"

// PaymentGateway is the payment provider adapter. Every call obtains its own
// bearer token.
type PaymentGateway interface {
	// CreateOrder returns the provider order id for a capture-intent order.
	CreateOrder(ctx context.Context, amount, currency string) (string, error)
	// CaptureOrder finalises a buyer-approved order and returns the provider
	// status, e.g. "COMPLETED".
	CaptureOrder(ctx context.Context, orderID string) (string, error)
}
