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
	ErrClientNotFound    = errors.New("client not found")
	ErrShopOwnerNotFound = errors.New("shop owner not found")
)

// ClientRepository defines the interface for customer profile data access
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error)
	SetCarts(ctx context.Context, id primitive.ObjectID, cartIDs []primitive.ObjectID) error
}

type clientRepository struct {
	col *mongo.Collection
}

// NewClientRepository creates a new instance of ClientRepository
func NewClientRepository(db *mongo.Database) ClientRepository {
	return &clientRepository{col: db.Collection(database.ClientsCollection)}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	if client.ID.IsZero() {
		client.ID = primitive.NewObjectID()
	}
	if client.ShoppingCarts == nil {
		client.ShoppingCarts = []primitive.ObjectID{}
	}
	if _, err := r.col.InsertOne(ctx, client); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	client := &domain.Client{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(client)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return client, nil
}

func (r *clientRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error) {
	client := &domain.Client{}
	err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(client)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client by user: %w", err)
	}
	return client, nil
}

// SetCarts replaces the client's cart reference set
func (r *clientRepository) SetCarts(ctx context.Context, id primitive.ObjectID, cartIDs []primitive.ObjectID) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"shoppingCart": cartIDs,
		"updatedAt":    time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to set client carts: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrClientNotFound
	}
	return nil
}

// ShopOwnerRepository defines the interface for seller profile data access
type ShopOwnerRepository interface {
	Create(ctx context.Context, owner *domain.ShopOwner) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.ShopOwner, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ShopOwner, error)
}

type shopOwnerRepository struct {
	col *mongo.Collection
}

// NewShopOwnerRepository creates a new instance of ShopOwnerRepository
func NewShopOwnerRepository(db *mongo.Database) ShopOwnerRepository {
	return &shopOwnerRepository{col: db.Collection(database.ShopOwnersCollection)}
}

func (r *shopOwnerRepository) Create(ctx context.Context, owner *domain.ShopOwner) error {
	if owner.ID.IsZero() {
		owner.ID = primitive.NewObjectID()
	}
	if owner.Shops == nil {
		owner.Shops = []primitive.ObjectID{}
	}
	if _, err := r.col.InsertOne(ctx, owner); err != nil {
		return fmt.Errorf("failed to create shop owner: %w", err)
	}
	return nil
}

func (r *shopOwnerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.ShopOwner, error) {
	owner := &domain.ShopOwner{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrShopOwnerNotFound
		}
		return nil, fmt.Errorf("failed to find shop owner: %w", err)
	}
	return owner, nil
}

func (r *shopOwnerRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ShopOwner, error) {
	owner := &domain.ShopOwner{}
	err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrShopOwnerNotFound
		}
		return nil, fmt.Errorf("failed to find shop owner by user: %w", err)
	}
	return owner, nil
}
