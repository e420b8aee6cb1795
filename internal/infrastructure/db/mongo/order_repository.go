package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecuador-legendario/premium-api/internal/core/domain"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
)

// OrdersCollection holds one document per provider order id.
const OrdersCollection = "premium_orders"

// OrderRepository implements ports.OrderRepository using MongoDB.
type OrderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *mongo.Database) ports.OrderRepository {
	return &OrderRepository{coll: db.Collection(OrdersCollection)}
}

// EnsureOrderIndexes creates the unique order_id index and a TTL index that
// expires intents still in CREATED status after ttl. Completed, failed and
// not-completed intents are kept.
func EnsureOrderIndexes(ctx context.Context, db *mongo.Database, ttl time.Duration) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("order_id_unique"),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetName("user_id")},
	}
	if ttl > 0 {
		models = append(models, mongo.IndexModel{
			Keys: bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().
				SetName("created_pending_ttl").
				SetExpireAfterSeconds(int32(ttl / time.Second)).
				SetPartialFilterExpression(bson.M{"status": string(domain.OrderCreated)}),
		})
	}

	if _, err := db.Collection(OrdersCollection).Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("ensure order indexes: %w", err)
	}
	return nil
}

// Create inserts a new order intent. A repeated order id returns
// domain.ErrOrderExists.
func (r *OrderRepository) Create(ctx context.Context, order *domain.OrderIntent) error {
	_, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrOrderExists
		}
		return fmt.Errorf("%w: insert order: %w", domain.ErrStorage, err)
	}
	return nil
}

// FindByOrderID returns the intent for orderID.
func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.OrderIntent, error) {
	var order domain.OrderIntent
	err := r.coll.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: find order: %w", domain.ErrStorage, err)
	}
	return &order, nil
}

// UpdateStatus atomically sets the intent status and appends a history entry.
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	orderID string,
	status domain.OrderStatus,
	providerStatus string,
) error {
	now := time.Now().UTC()
	entry := domain.OrderHistoryEntry{
		Status:         status,
		ProviderStatus: providerStatus,
		Timestamp:      now,
	}

	filter := bson.M{"order_id": orderID}
	update := bson.M{
		"$set":  bson.M{"status": string(status), "updated_at": now},
		"$push": bson.M{"history": entry},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("%w: update order: %w", domain.ErrStorage, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
