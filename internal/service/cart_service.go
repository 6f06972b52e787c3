package service

import (
	"context"
	"fmt"
	"math"

	"github.com/Sebhvarg/tiendasegura/internal/domain"
	"github.com/Sebhvarg/tiendasegura/internal/repository"

	"go.uber.org/zap"
)

// CartService defines the interface for cart and list reads
type CartService interface {
	ListCarts(ctx context.Context) ([]*domain.ShoppingCart, error)
	// GetLists returns all lists with their price totals recomputed from
	// the referenced products and written back.
	GetLists(ctx context.Context) ([]*domain.List, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	listRepo    repository.ListRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new instance of CartService
func NewCartService(
	cartRepo repository.CartRepository,
	listRepo repository.ListRepository,
	productRepo repository.ProductRepository,
	logger *zap.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		listRepo:    listRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *cartService) ListCarts(ctx context.Context) ([]*domain.ShoppingCart, error) {
	return s.cartRepo.List(ctx)
}

func (s *cartService) GetLists(ctx context.Context) ([]*domain.List, error) {
	lists, err := s.listRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}

	for _, list := range lists {
		products, err := s.productRepo.FindByIDs(ctx, list.Products)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve list products: %w", err)
		}

		var total float64
		for _, p := range products {
			total += p.Price
		}
		// Round to cents before persisting.
		list.Price = math.Round(total*100) / 100

		if err := s.listRepo.SetPrice(ctx, list.ID, list.Price); err != nil {
			s.logger.Warn("Failed to persist list total",
				zap.String("list_id", list.ID.Hex()),
				zap.Error(err),
			)
		}
	}
	return lists, nil
}
