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
)

var (
	ErrCartNotFound = errors.New("shopping cart not found")
	ErrListNotFound = errors.New("list not found")
)

// CartRepository defines the interface for shopping cart data access
type CartRepository interface {
	Create(ctx context.Context, cart *domain.ShoppingCart) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.ShoppingCart, error)
	List(ctx context.Context) ([]*domain.ShoppingCart, error)
}

type cartRepository struct {
	col *mongo.Collection
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *mongo.Database) CartRepository {
	return &cartRepository{col: db.Collection(database.ShoppingCartsCollection)}
}

func (r *cartRepository) Create(ctx context.Context, cart *domain.ShoppingCart) error {
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	if cart.Products == nil {
		cart.Products = []primitive.ObjectID{}
	}
	cart.IsEmpty = len(cart.Products) == 0
	if _, err := r.col.InsertOne(ctx, cart); err != nil {
		return fmt.Errorf("failed to create shopping cart: %w", err)
	}
	return nil
}

func (r *cartRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.ShoppingCart, error) {
	cart := &domain.ShoppingCart{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find shopping cart: %w", err)
	}
	return cart, nil
}

func (r *cartRepository) List(ctx context.Context) ([]*domain.ShoppingCart, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping carts: %w", err)
	}
	carts := []*domain.ShoppingCart{}
	if err := cursor.All(ctx, &carts); err != nil {
		return nil, fmt.Errorf("failed to decode shopping carts: %w", err)
	}
	return carts, nil
}

// ListRepository defines the interface for product list data access
type ListRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.List, error)
	List(ctx context.Context) ([]*domain.List, error)
	// AppendProduct pushes unconditionally; repeated calls duplicate the
	// reference (mirrors the catalog append).
	AppendProduct(ctx context.Context, listID, productID primitive.ObjectID) (*domain.List, error)
	SetPrice(ctx context.Context, id primitive.ObjectID, price float64) error
}

type listRepository struct {
	col *mongo.Collection
}

// NewListRepository creates a new instance of ListRepository
func NewListRepository(db *mongo.Database) ListRepository {
	return &listRepository{col: db.Collection(database.ListsCollection)}
}

func (r *listRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.List, error) {
	list := &domain.List{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(list)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to find list: %w", err)
	}
	return list, nil
}

func (r *listRepository) List(ctx context.Context) ([]*domain.List, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	lists := []*domain.List{}
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, fmt.Errorf("failed to decode lists: %w", err)
	}
	return lists, nil
}

func (r *listRepository) AppendProduct(ctx context.Context, listID, productID primitive.ObjectID) (*domain.List, error) {
	res := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": listID},
		bson.M{
			"$push": bson.M{"products": productID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
		findAfterOpts(),
	)

	list := &domain.List{}
	if err := res.Decode(list); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to append product to list: %w", err)
	}
	return list, nil
}

func (r *listRepository) SetPrice(ctx context.Context, id primitive.ObjectID, price float64) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"price":     price,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to set list price: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrListNotFound
	}
	return nil
}
