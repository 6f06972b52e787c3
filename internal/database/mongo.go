package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names used across the repositories.
const (
	UsersCollection         = "users"
	ClientsCollection       = "clients"
	ShopOwnersCollection    = "shop_owners"
	ShopsCollection         = "shops"
	CatalogsCollection      = "catalogs"
	ProductsCollection      = "products"
	ShoppingCartsCollection = "shopping_carts"
	ListsCollection         = "lists"
	OrdersCollection        = "orders"
	SearchHistoryCollection = "searchhistories"
	RefreshTokensCollection = "refresh_tokens"
)

// Service wraps the Mongo client and the application database.
type Service struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes a Mongo connection and verifies it with a ping.
func Connect(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("MongoDB connected", zap.String("database", dbName))

	return &Service{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// DB returns the application database handle.
func (s *Service) DB() *mongo.Database {
	return s.db
}

// Client returns the underlying Mongo client.
func (s *Service) Client() *mongo.Client {
	return s.client
}

// EnsureIndexes creates the indexes the repositories depend on. Safe to
// call on every startup; Mongo treats existing definitions as no-ops.
func (s *Service) EnsureIndexes(ctx context.Context) error {
	users := s.db.Collection(UsersCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	tokens := s.db.Collection(RefreshTokensCollection)
	_, err = tokens.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "token", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create refresh token indexes: %w", err)
	}

	products := s.db.Collection(ProductsCollection)
	_, err = products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "shop", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

// Health reports connectivity status for the health endpoint.
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	stats := map[string]string{"database": s.db.Name()}
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}
	stats["status"] = "up"
	return stats
}

// WithTransaction runs fn inside a Mongo multi-document transaction.
// All writes issued through the session context commit together or are
// rolled back together; concurrent readers never observe a partial
// group.
func (s *Service) WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) (any, error)) (any, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, fn)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close disconnects the client.
func (s *Service) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
