package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sebhvarg/tiendasegura/internal/database"
	"github.com/Sebhvarg/tiendasegura/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
)

// RefreshTokenRepository defines the interface for refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

type refreshTokenRepository struct {
	col *mongo.Collection
}

// NewRefreshTokenRepository creates a new instance of RefreshTokenRepository
func NewRefreshTokenRepository(db *mongo.Database) RefreshTokenRepository {
	return &refreshTokenRepository{col: db.Collection(database.RefreshTokensCollection)}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// FindByToken retrieves a non-revoked token by its opaque value
func (r *refreshTokenRepository) FindByToken(ctx context.Context, tokenString string) (*domain.RefreshToken, error) {
	token := &domain.RefreshToken{}
	err := r.col.FindOne(ctx, bson.M{"token": tokenString}).Decode(token)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	if token.Revoked {
		return nil, ErrRefreshTokenRevoked
	}
	return token, nil
}

// Revoke marks a token as no longer usable
func (r *refreshTokenRepository) Revoke(ctx context.Context, tokenString string) error {
	res, err := r.col.UpdateOne(
		ctx,
		bson.M{"token": tokenString},
		bson.M{"$set": bson.M{"revoked": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrRefreshTokenNotFound
	}
	return nil
}
