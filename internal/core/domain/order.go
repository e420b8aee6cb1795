package domain

import "time"

// OrderStatus is the local view of a provider order's lifecycle.
type OrderStatus string

const (
	OrderCreated      OrderStatus = "CREATED"
	OrderCompleted    OrderStatus = "COMPLETED"
	OrderNotCompleted OrderStatus = "NOT_COMPLETED"
	OrderFailed       OrderStatus = "FAILED"
)

// CaptureStatusCompleted is the provider capture status that promotes a user.
const CaptureStatusCompleted = "COMPLETED"

// OrderHistoryEntry records a single status change on an order intent.
type OrderHistoryEntry struct {
	Status         OrderStatus `json:"status" bson:"status"`
	ProviderStatus string      `json:"provider_status,omitempty" bson:"provider_status,omitempty"`
	Timestamp      time.Time   `json:"timestamp" bson:"timestamp"`
}

// OrderIntent ties a provider order id to the user who created it. It is
// written when the order is created and checked before any capture.
type OrderIntent struct {
	OrderID   string              `json:"order_id" bson:"order_id"`
	UserID    int64               `json:"user_id" bson:"user_id"`
	Amount    string              `json:"amount" bson:"amount"`
	Currency  string              `json:"currency" bson:"currency"`
	Status    OrderStatus         `json:"status" bson:"status"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" bson:"updated_at"`
	History   []OrderHistoryEntry `json:"history" bson:"history"`
}

// OwnedBy reports whether the intent was created by userID.
func (o *OrderIntent) OwnedBy(userID int64) bool {
	return o != nil && o.UserID == userID
}
