package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sebhvarg/tiendasegura/internal/domain"
	"github.com/Sebhvarg/tiendasegura/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrOwnerNotFound = errors.New("shop owner profile not found")
	ErrShopNotFound  = errors.New("shop not found")
)

// ShopService defines the interface for shop registry business logic
type ShopService interface {
	CreateShop(ctx context.Context, ownerUserID primitive.ObjectID, name, address string) (*domain.Shop, *domain.Catalog, error)
	GetMyShops(ctx context.Context, ownerUserID primitive.ObjectID) ([]*domain.Shop, error)
	ListShops(ctx context.Context) ([]*domain.Shop, error)
	GetShopProducts(ctx context.Context, shopID primitive.ObjectID) ([]*domain.Product, error)
}

type shopService struct {
	ownerRepo   repository.ShopOwnerRepository
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
}

// NewShopService creates a new instance of ShopService
func NewShopService(
	ownerRepo repository.ShopOwnerRepository,
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
) ShopService {
	return &shopService{
		ownerRepo:   ownerRepo,
		shopRepo:    shopRepo,
		productRepo: productRepo,
	}
}

// CreateShop creates a shop and its catalog as a linked pair. Both ids
// are generated before either document exists, so the mutual references
// are in place from the first write, and the shop insert, catalog
// insert and owner shop-set append commit or abort together.
func (s *shopService) CreateShop(ctx context.Context, ownerUserID primitive.ObjectID, name, address string) (*domain.Shop, *domain.Catalog, error) {
	if name == "" || address == "" {
		return nil, nil, ErrMissingFields
	}

	owner, err := s.ownerRepo.FindByUserID(ctx, ownerUserID)
	if err != nil {
		if err == repository.ErrShopOwnerNotFound {
			return nil, nil, ErrOwnerNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve shop owner: %w", err)
	}

	shop, catalog := domain.NewShopWithCatalog(owner.ID, name, address)
	if err := s.shopRepo.CreateWithCatalog(ctx, shop, catalog); err != nil {
		return nil, nil, fmt.Errorf("failed to create shop: %w", err)
	}

	return shop, catalog, nil
}

// GetMyShops returns the owner's shop set populated with full shop data
func (s *shopService) GetMyShops(ctx context.Context, ownerUserID primitive.ObjectID) ([]*domain.Shop, error) {
	owner, err := s.ownerRepo.FindByUserID(ctx, ownerUserID)
	if err != nil {
		if err == repository.ErrShopOwnerNotFound {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to resolve shop owner: %w", err)
	}

	shops, err := s.shopRepo.FindByIDs(ctx, owner.Shops)
	if err != nil {
		return nil, fmt.Errorf("failed to load shops: %w", err)
	}
	return shops, nil
}

// ListShops returns all shops, newest first
func (s *shopService) ListShops(ctx context.Context) ([]*domain.Shop, error) {
	return s.shopRepo.List(ctx)
}

// GetShopProducts returns a shop's active products
func (s *shopService) GetShopProducts(ctx context.Context, shopID primitive.ObjectID) ([]*domain.Product, error) {
	if _, err := s.shopRepo.FindByID(ctx, shopID); err != nil {
		if err == repository.ErrShopNotFound {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to resolve shop: %w", err)
	}
	return s.productRepo.FindByShop(ctx, shopID)
}
