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
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrShopNotFound = errors.New("shop not found")

// ShopRepository defines the interface for shop data access
type ShopRepository interface {
	// CreateWithCatalog persists the shop, its catalog and the owner's
	// shop-set append as one atomic unit. On any failure none of the
	// three writes take effect.
	CreateWithCatalog(ctx context.Context, shop *domain.Shop, catalog *domain.Catalog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Shop, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Shop, error)
	List(ctx context.Context) ([]*domain.Shop, error)
	SearchByName(ctx context.Context, query string) ([]*domain.Shop, error)
}

type shopRepository struct {
	svc *database.Service
}

// NewShopRepository creates a new instance of ShopRepository
func NewShopRepository(svc *database.Service) ShopRepository {
	return &shopRepository{svc: svc}
}

func (r *shopRepository) CreateWithCatalog(ctx context.Context, shop *domain.Shop, catalog *domain.Catalog) error {
	if shop.CatalogID != catalog.ID || catalog.ShopID != shop.ID {
		return fmt.Errorf("shop/catalog references do not pair: shop=%s catalog=%s", shop.ID.Hex(), catalog.ID.Hex())
	}

	db := r.svc.DB()
	_, err := r.svc.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if _, err := db.Collection(database.ShopsCollection).InsertOne(sc, shop); err != nil {
			return nil, fmt.Errorf("failed to insert shop: %w", err)
		}
		if _, err := db.Collection(database.CatalogsCollection).InsertOne(sc, catalog); err != nil {
			return nil, fmt.Errorf("failed to insert catalog: %w", err)
		}
		res, err := db.Collection(database.ShopOwnersCollection).UpdateByID(
			sc,
			shop.OwnerID,
			bson.M{"$push": bson.M{"shops": shop.ID}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to append shop to owner: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrShopOwnerNotFound
		}
		return nil, nil
	})
	return err
}

func (r *shopRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Shop, error) {
	shop := &domain.Shop{}
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(shop)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to find shop: %w", err)
	}
	return shop, nil
}

// FindByIDs resolves a shop reference set, preserving only shops that
// still exist.
func (r *shopRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Shop, error) {
	if len(ids) == 0 {
		return []*domain.Shop{}, nil
	}
	cursor, err := r.col().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find shops: %w", err)
	}
	return decodeShops(ctx, cursor)
}

// List retrieves all shops, newest first
func (r *shopRepository) List(ctx context.Context) ([]*domain.Shop, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	return decodeShops(ctx, cursor)
}

// SearchByName performs a case-insensitive substring match on shop names
func (r *shopRepository) SearchByName(ctx context.Context, query string) ([]*domain.Shop, error) {
	filter := bson.M{"name": bson.M{"$regex": query, "$options": "i"}}
	cursor, err := r.col().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search shops: %w", err)
	}
	return decodeShops(ctx, cursor)
}

func (r *shopRepository) col() *mongo.Collection {
	return r.svc.DB().Collection(database.ShopsCollection)
}

func decodeShops(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Shop, error) {
	shops := []*domain.Shop{}
	if err := cursor.All(ctx, &shops); err != nil {
		return nil, fmt.Errorf("failed to decode shops: %w", err)
	}
	return shops, nil
}
