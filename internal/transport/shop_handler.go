package transport

import (
	"errors"
	"net/http"

	"github.com/Sebhvarg/tiendasegura/internal/domain"
	"github.com/Sebhvarg/tiendasegura/internal/middleware"
	"github.com/Sebhvarg/tiendasegura/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateShopRequest represents the shop creation payload
type CreateShopRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// CreateShopResponse pairs the new shop with its catalog
type CreateShopResponse struct {
	Shop    *domain.Shop    `json:"shop"`
	Catalog *domain.Catalog `json:"catalog"`
}

// ShopHandler handles HTTP requests for shop operations
type ShopHandler struct {
	shopService service.ShopService
	logger      *zap.Logger
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(shopService service.ShopService, logger *zap.Logger) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
		logger:      logger,
	}
}

// RegisterRoutes registers all shop routes
func (h *ShopHandler) RegisterRoutes(r chi.Router, authMiddleware, sellerOnly func(http.Handler) http.Handler) {
	r.Route("/api/shops", func(r chi.Router) {
		// Public routes
		r.Get("/", h.ListShops)
		r.Get("/{shopId}/products", h.GetShopProducts)

		// Seller routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(sellerOnly)
			r.Post("/", h.CreateShop)
			r.Get("/my-shops", h.GetMyShops)
		})
	})
}

// CreateShop handles shop registration for the authenticated seller
func (h *ShopHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateShopRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Shop creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shop, catalog, err := h.shopService.CreateShop(r.Context(), userID, req.Name, req.Address)
	if err != nil {
		h.logger.Error("Shop creation failed", zap.Error(err))

		if errors.Is(err, service.ErrOwnerNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "no shop owner profile for this account")
			return
		}
		if errors.Is(err, service.ErrMissingFields) {
			middleware.RespondWithError(w, http.StatusBadRequest, "name and address are required")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create shop")
		return
	}

	h.logger.Info("Shop created",
		zap.String("shop_id", shop.ID.Hex()),
		zap.String("catalog_id", catalog.ID.Hex()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, CreateShopResponse{Shop: shop, Catalog: catalog})
}

// ListShops handles listing every registered shop
func (h *ShopHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.shopService.ListShops(r.Context())
	if err != nil {
		h.logger.Error("Failed to list shops", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list shops")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, shops)
}

// GetMyShops handles listing the authenticated seller's shops
func (h *ShopHandler) GetMyShops(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	shops, err := h.shopService.GetMyShops(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list owned shops", zap.Error(err))

		if errors.Is(err, service.ErrOwnerNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "no shop owner profile for this account")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list shops")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, shops)
}

// GetShopProducts handles listing the active products of a shop
func (h *ShopHandler) GetShopProducts(w http.ResponseWriter, r *http.Request) {
	shopID, err := idParam(r, "shopId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid shop id")
		return
	}

	products, err := h.shopService.GetShopProducts(r.Context(), shopID)
	if err != nil {
		h.logger.Error("Failed to list shop products", zap.Error(err))

		if errors.Is(err, service.ErrShopNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "shop not found")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list shop products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}
