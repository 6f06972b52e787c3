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

var ErrCatalogNotFound = errors.New("catalog not found")

// CatalogRepository defines the interface for catalog data access
type CatalogRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Catalog, error)
	FindByShop(ctx context.Context, shopID primitive.ObjectID) (*domain.Catalog, error)
	// FindContainingProduct returns the catalog whose product set holds
	// the given product, used by the degraded-read shop backfill.
	FindContainingProduct(ctx context.Context, productID primitive.ObjectID) (*domain.Catalog, error)
	// AppendProduct pushes the product reference unconditionally. Each
	// call appends, so repeated calls duplicate the reference.
	AppendProduct(ctx context.Context, catalogID, productID primitive.ObjectID) (*domain.Catalog, error)
	List(ctx context.Context) ([]*domain.Catalog, error)
}

type catalogRepository struct {
	col *mongo.Collection
}

// NewCatalogRepository creates a new instance of CatalogRepository
func NewCatalogRepository(db *mongo.Database) CatalogRepository {
	return &catalogRepository{col: db.Collection(database.CatalogsCollection)}
}

func (r *catalogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Catalog, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *catalogRepository) FindByShop(ctx context.Context, shopID primitive.ObjectID) (*domain.Catalog, error) {
	return r.findOne(ctx, bson.M{"shop": shopID})
}

func (r *catalogRepository) FindContainingProduct(ctx context.Context, productID primitive.ObjectID) (*domain.Catalog, error) {
	return r.findOne(ctx, bson.M{"products": productID})
}

func (r *catalogRepository) AppendProduct(ctx context.Context, catalogID, productID primitive.ObjectID) (*domain.Catalog, error) {
	res := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": catalogID},
		bson.M{
			"$push": bson.M{"products": productID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
		findAfterOpts(),
	)

	catalog := &domain.Catalog{}
	if err := res.Decode(catalog); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to append product to catalog: %w", err)
	}
	return catalog, nil
}

func (r *catalogRepository) List(ctx context.Context) ([]*domain.Catalog, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}
	catalogs := []*domain.Catalog{}
	if err := cursor.All(ctx, &catalogs); err != nil {
		return nil, fmt.Errorf("failed to decode catalogs: %w", err)
	}
	return catalogs, nil
}

func (r *catalogRepository) findOne(ctx context.Context, filter bson.M) (*domain.Catalog, error) {
	catalog := &domain.Catalog{}
	err := r.col.FindOne(ctx, filter).Decode(catalog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to find catalog: %w", err)
	}
	return catalog, nil
}
