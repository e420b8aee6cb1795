package domain

import "errors"

// Validation errors.
var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrMissingFields  = errors.New("missing fields")
	ErrMissingOrderID = errors.New("missing order id")
	ErrInvalidLink    = errors.New("invalid premium link")
)

// Authentication and authorization errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrSessionNotFound    = errors.New("session not found")
	ErrOrderNotOwned      = errors.New("order belongs to another user")
)

// Conflict errors.
var (
	ErrUserExists        = errors.New("user already exists")
	ErrCaptureInProgress = errors.New("capture already in progress")
)

// Order intent errors.
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderExists   = errors.New("order already recorded")
	ErrNotCompleted  = errors.New("capture not completed")
)

// Payment provider errors. Adapters wrap the transport cause with one of these.
var (
	ErrUpstreamAuthFailed = errors.New("payment provider authentication failed")
	ErrOrderCreateFailed  = errors.New("payment provider order creation failed")
	ErrOrderCaptureFailed = errors.New("payment provider order capture failed")
	// ErrProviderOutcomeUnknown marks failures where the request may have
	// reached the provider (timeouts, transport errors, 5xx answers).
	ErrProviderOutcomeUnknown = errors.New("payment provider outcome unknown")
)

// ErrStorage marks persistence failures other than the specific cases above.
var ErrStorage = errors.New("storage error")
