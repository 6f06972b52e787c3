package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sebhvarg/tiendasegura/internal/domain"
	"github.com/Sebhvarg/tiendasegura/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrNoShopRegistered = errors.New("a registered shop is required to create products")
	ErrCatalogMissing   = errors.New("shop catalog not found")
	ErrProductNotFound  = errors.New("product not found")
)

// CreateProductInput is the seller-provided product payload.
type CreateProductInput struct {
	Name        string
	Brand       string
	Description string
	Price       float64
	ImageURL    string
}

// CatalogView is a catalog with its product references resolved.
type CatalogView struct {
	Catalog  *domain.Catalog   `json:"catalog"`
	Products []*domain.Product `json:"products"`
}

// ProductService defines the interface for catalog engine business logic
type ProductService interface {
	CreateProduct(ctx context.Context, sellerUserID primitive.ObjectID, in CreateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID primitive.ObjectID) error
	UpdateProduct(ctx context.Context, productID primitive.ObjectID, fields map[string]any) (*domain.Product, error)
	GetProduct(ctx context.Context, productID primitive.ObjectID) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	AddToCatalog(ctx context.Context, catalogID, productID primitive.ObjectID) (*domain.Catalog, error)
	AddToList(ctx context.Context, listID, productID primitive.ObjectID) (*domain.List, error)
	ListCatalogs(ctx context.Context) ([]*CatalogView, error)
}

type productService struct {
	ownerRepo   repository.ShopOwnerRepository
	catalogRepo repository.CatalogRepository
	productRepo repository.ProductRepository
	listRepo    repository.ListRepository
	images      ImageFinder
	logger      *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	ownerRepo repository.ShopOwnerRepository,
	catalogRepo repository.CatalogRepository,
	productRepo repository.ProductRepository,
	listRepo repository.ListRepository,
	images ImageFinder,
	logger *zap.Logger,
) ProductService {
	return &productService{
		ownerRepo:   ownerRepo,
		catalogRepo: catalogRepo,
		productRepo: productRepo,
		listRepo:    listRepo,
		images:      images,
		logger:      logger,
	}
}

// CreateProduct resolves the seller's first shop, finds its catalog and
// persists the product together with the catalog append as one atomic
// unit. A missing image URL triggers a best-effort external lookup that
// never fails the operation.
func (s *productService) CreateProduct(ctx context.Context, sellerUserID primitive.ObjectID, in CreateProductInput) (*domain.Product, error) {
	if in.Name == "" || in.Price <= 0 {
		return nil, ErrMissingFields
	}

	owner, err := s.ownerRepo.FindByUserID(ctx, sellerUserID)
	if err != nil {
		if err == repository.ErrShopOwnerNotFound {
			return nil, ErrNoShopRegistered
		}
		return nil, fmt.Errorf("failed to resolve shop owner: %w", err)
	}
	if len(owner.Shops) == 0 {
		return nil, ErrNoShopRegistered
	}

	// Products go to the seller's first shop.
	shopID := owner.Shops[0]

	catalog, err := s.catalogRepo.FindByShop(ctx, shopID)
	if err != nil {
		if err == repository.ErrCatalogNotFound {
			// Unreachable if shop creation held its invariant.
			return nil, ErrCatalogMissing
		}
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}

	imageURL := in.ImageURL
	if imageURL == "" {
		found, err := s.images.FindProductImage(ctx, in.Name, in.Brand)
		if err != nil {
			s.logger.Warn("Product image lookup failed",
				zap.String("name", in.Name),
				zap.Error(err),
			)
		} else {
			imageURL = found
		}
	}

	product := domain.NewProduct(in.Name, in.Brand, in.Description, in.Price, imageURL, shopID)
	if err := s.productRepo.CreateInCatalog(ctx, product, catalog.ID); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product and scrubs its reference from every
// catalog in the same transaction.
func (s *productService) DeleteProduct(ctx context.Context, productID primitive.ObjectID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if err == repository.ErrProductNotFound {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to resolve product: %w", err)
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		if err == repository.ErrProductNotFound {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// UpdateProduct applies the mutable product fields only
func (s *productService) UpdateProduct(ctx context.Context, productID primitive.ObjectID, fields map[string]any) (*domain.Product, error) {
	allowed := map[string]bool{
		"name": true, "brand": true, "description": true,
		"price": true, "imageUrl": true, "isActive": true,
	}
	set := map[string]any{}
	for k, v := range fields {
		if allowed[k] {
			set[k] = v
		}
	}
	if len(set) == 0 {
		return nil, ErrMissingFields
	}

	product, err := s.productRepo.Update(ctx, productID, set)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, productID primitive.ObjectID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListProducts returns all products. Products missing their shop
// reference get it backfilled in the response from the catalog that
// contains them; the repair is best-effort and never fails the read.
func (s *productService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	s.recoverMissingShopRefs(ctx, products)
	return products, nil
}

func (s *productService) recoverMissingShopRefs(ctx context.Context, products []*domain.Product) {
	for _, p := range products {
		if !p.ShopID.IsZero() {
			continue
		}
		catalog, err := s.catalogRepo.FindContainingProduct(ctx, p.ID)
		if err != nil {
			s.logger.Debug("Shop reference recovery failed",
				zap.String("product_id", p.ID.Hex()),
				zap.Error(err),
			)
			continue
		}
		p.ShopID = catalog.ShopID
	}
}

// AddToCatalog appends the product reference to the catalog. The append
// is unconditional: calling it twice duplicates the reference.
func (s *productService) AddToCatalog(ctx context.Context, catalogID, productID primitive.ObjectID) (*domain.Catalog, error) {
	catalog, err := s.catalogRepo.AppendProduct(ctx, catalogID, productID)
	if err != nil {
		if err == repository.ErrCatalogNotFound {
			return nil, ErrCatalogMissing
		}
		return nil, fmt.Errorf("failed to add product to catalog: %w", err)
	}
	return catalog, nil
}

// AddToList appends the product reference to the list, with the same
// duplicate-append behavior as AddToCatalog.
func (s *productService) AddToList(ctx context.Context, listID, productID primitive.ObjectID) (*domain.List, error) {
	list, err := s.listRepo.AppendProduct(ctx, listID, productID)
	if err != nil {
		if err == repository.ErrListNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add product to list: %w", err)
	}
	return list, nil
}

// ListCatalogs returns every catalog with its products resolved
func (s *productService) ListCatalogs(ctx context.Context) ([]*CatalogView, error) {
	catalogs, err := s.catalogRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}

	views := make([]*CatalogView, 0, len(catalogs))
	for _, c := range catalogs {
		products, err := s.productRepo.FindByIDs(ctx, c.Products)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve catalog products: %w", err)
		}
		views = append(views, &CatalogView{Catalog: c, Products: products})
	}
	return views, nil
}
