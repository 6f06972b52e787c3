package repository

import (
	"context"
	"fmt"

	"github.com/Sebhvarg/tiendasegura/internal/database"
	"github.com/Sebhvarg/tiendasegura/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SearchHistoryRepository defines the interface for the append-only
// search history log. Entries are never mutated.
type SearchHistoryRepository interface {
	Create(ctx context.Context, entry *domain.SearchHistory) error
	FindByClient(ctx context.Context, clientID primitive.ObjectID) ([]*domain.SearchHistory, error)
}

type searchHistoryRepository struct {
	col *mongo.Collection
}

// NewSearchHistoryRepository creates a new instance of SearchHistoryRepository
func NewSearchHistoryRepository(db *mongo.Database) SearchHistoryRepository {
	return &searchHistoryRepository{col: db.Collection(database.SearchHistoryCollection)}
}

func (r *searchHistoryRepository) Create(ctx context.Context, entry *domain.SearchHistory) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to record search history: %w", err)
	}
	return nil
}

// FindByClient retrieves a client's search history, newest first
func (r *searchHistoryRepository) FindByClient(ctx context.Context, clientID primitive.ObjectID) ([]*domain.SearchHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"client": clientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find search history: %w", err)
	}
	entries := []*domain.SearchHistory{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode search history: %w", err)
	}
	return entries, nil
}
