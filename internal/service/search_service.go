package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Sebhvarg/tiendasegura/internal/domain"
	"github.com/Sebhvarg/tiendasegura/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrMissingQuery = errors.New("search query is required")

// SearchResult bundles the independent product and shop match sets.
// Full unsorted match sets: no ranking, no pagination.
type SearchResult struct {
	Products []*domain.Product `json:"products"`
	Shops    []*domain.Shop    `json:"shops"`
}

// SearchService defines the interface for the search gateway
type SearchService interface {
	// Search runs a case-insensitive substring match over product
	// name/brand/description and shop name. A present clientID gets a
	// history entry recorded fire-and-forget.
	Search(ctx context.Context, query string, clientID *primitive.ObjectID) (*SearchResult, error)
	GetHistory(ctx context.Context, clientID primitive.ObjectID) ([]*domain.SearchHistory, error)
}

type searchService struct {
	productRepo repository.ProductRepository
	shopRepo    repository.ShopRepository
	historyRepo repository.SearchHistoryRepository
	logger      *zap.Logger
}

// NewSearchService creates a new instance of SearchService
func NewSearchService(
	productRepo repository.ProductRepository,
	shopRepo repository.ShopRepository,
	historyRepo repository.SearchHistoryRepository,
	logger *zap.Logger,
) SearchService {
	return &searchService{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

func (s *searchService) Search(ctx context.Context, query string, clientID *primitive.ObjectID) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingQuery
	}

	if clientID != nil {
		s.recordHistory(ctx, *clientID, query)
	}

	// Literal substring semantics: regex metacharacters in the query
	// must not change what matches.
	pattern := regexp.QuoteMeta(query)

	products, err := s.productRepo.SearchText(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	shops, err := s.shopRepo.SearchByName(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search shops: %w", err)
	}

	return &SearchResult{Products: products, Shops: shops}, nil
}

// recordHistory appends the query to the client's history. Failures are
// logged and swallowed: history logging never fails a search.
func (s *searchService) recordHistory(ctx context.Context, clientID primitive.ObjectID, query string) {
	entry := &domain.SearchHistory{
		ID:        primitive.NewObjectID(),
		ClientID:  clientID,
		Query:     query,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("Failed to record search history",
			zap.String("client_id", clientID.Hex()),
			zap.Error(err),
		)
	}
}

func (s *searchService) GetHistory(ctx context.Context, clientID primitive.ObjectID) ([]*domain.SearchHistory, error) {
	return s.historyRepo.FindByClient(ctx, clientID)
}
