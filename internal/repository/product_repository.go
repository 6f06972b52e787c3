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

var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// CreateInCatalog inserts the product and appends it to the catalog
	// as one atomic unit: the product is never observable outside a
	// catalog.
	CreateInCatalog(ctx context.Context, product *domain.Product, catalogID primitive.ObjectID) error
	// Delete removes the product and pulls its reference from every
	// catalog, atomically. No catalog is left referencing a deleted
	// product.
	Delete(ctx context.Context, id primitive.ObjectID) error
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*domain.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error)
	FindByShop(ctx context.Context, shopID primitive.ObjectID) ([]*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	SearchText(ctx context.Context, pattern string) ([]*domain.Product, error)
}

type productRepository struct {
	svc *database.Service
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(svc *database.Service) ProductRepository {
	return &productRepository{svc: svc}
}

func (r *productRepository) CreateInCatalog(ctx context.Context, product *domain.Product, catalogID primitive.ObjectID) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}

	db := r.svc.DB()
	_, err := r.svc.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := db.Collection(database.ProductsCollection).InsertOne(sc, product); err != nil {
			return nil, fmt.Errorf("failed to insert product: %w", err)
		}
		res, err := db.Collection(database.CatalogsCollection).UpdateByID(
			sc,
			catalogID,
			bson.M{
				"$push": bson.M{"products": product.ID},
				"$set":  bson.M{"updatedAt": time.Now().UTC()},
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to append product to catalog: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrCatalogNotFound
		}
		return nil, nil
	})
	return err
}

func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	db := r.svc.DB()
	_, err := r.svc.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		_, err := db.Collection(database.CatalogsCollection).UpdateMany(
			sc,
			bson.M{"products": id},
			bson.M{"$pull": bson.M{"products": id}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to pull product from catalogs: %w", err)
		}

		res, err := db.Collection(database.ProductsCollection).DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("failed to delete product: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, ErrProductNotFound
		}
		return nil, nil
	})
	return err
}

func (r *productRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*domain.Product, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	res := r.col().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, findAfterOpts())

	product := &domain.Product{}
	if err := res.Decode(product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}
	cursor, err := r.col().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return decodeProducts(ctx, cursor)
}

// FindByShop retrieves a shop's active products, newest first
func (r *productRepository) FindByShop(ctx context.Context, shopID primitive.ObjectID) ([]*domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col().Find(ctx, bson.M{"shop": shopID, "isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find shop products: %w", err)
	}
	return decodeProducts(ctx, cursor)
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	cursor, err := r.col().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return decodeProducts(ctx, cursor)
}

// SearchText performs a case-insensitive substring match over product
// name, brand and description. Full unsorted match set, no pagination.
func (r *productRepository) SearchText(ctx context.Context, pattern string) ([]*domain.Product, error) {
	regex := bson.M{"$regex": pattern, "$options": "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": regex},
		bson.M{"brand": regex},
		bson.M{"description": regex},
	}}
	cursor, err := r.col().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return decodeProducts(ctx, cursor)
}

func (r *productRepository) col() *mongo.Collection {
	return r.svc.DB().Collection(database.ProductsCollection)
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Product, error) {
	products := []*domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
