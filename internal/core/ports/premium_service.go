package ports

import (
	"context"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
)

// CaptureInput carries everything the capture step needs from the request.
type CaptureInput struct {
	SessionToken string
	User         *domain.SessionSnapshot
	OrderID      string
}

// CaptureResult is returned when a capture promoted (or had already promoted)
// the user.
type CaptureResult struct {
	// Replayed is true when the order had already been captured and no
	// provider call was made.
	Replayed bool
}

// GateAction is the next step the client must take for a premium link.
type GateAction string

const (
	GateLogin    GateAction = "login"
	GatePay      GateAction = "pay"
	GateRedirect GateAction = "redirect"
)

// GateDecision is the server-side answer for a premium link click.
type GateDecision struct {
	Action GateAction
	Link   string
}

// PremiumService orchestrates the premium upgrade flow.
type PremiumService interface {
	CreateOrder(ctx context.Context, user *domain.SessionSnapshot) (string, error)
	CaptureOrder(ctx context.Context, in CaptureInput) (*CaptureResult, error)
	Gate(ctx context.Context, user *domain.SessionSnapshot, link string) (*GateDecision, error)
}
