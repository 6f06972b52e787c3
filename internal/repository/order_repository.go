package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sebhvarg/tiendasegura/internal/database"
	"github.com/Sebhvarg/tiendasegura/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	// UpdateStatus unconditionally overwrites the status. Transition
	// validation is the workflow service's concern.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error)
	FindByShop(ctx context.Context, shopID primitive.ObjectID) ([]*domain.Order, error)
	FindByClient(ctx context.Context, clientID primitive.ObjectID) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}

type orderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{col: db.Collection(database.OrdersCollection)}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	order := &domain.Order{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	res := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
		}},
		findAfterOpts(),
	)

	order := &domain.Order{}
	if err := res.Decode(order); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return order, nil
}

// FindByShop retrieves a shop's orders, newest first
func (r *orderRepository) FindByShop(ctx context.Context, shopID primitive.ObjectID) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{"shop": shopID})
}

func (r *orderRepository) FindByClient(ctx context.Context, clientID primitive.ObjectID) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{"client": clientID})
}

func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *orderRepository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	orders := []*domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}
