package transport

import (
	"net/http"

	"github.com/Sebhvarg/tiendasegura/internal/middleware"
	"github.com/Sebhvarg/tiendasegura/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for shopping carts and lists
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers the cart and list routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/shopping-carts", h.ListCarts)
	r.Get("/api/lists", h.GetLists)
}

// ListCarts handles listing every shopping cart
func (h *CartHandler) ListCarts(w http.ResponseWriter, r *http.Request) {
	carts, err := h.cartService.ListCarts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list shopping carts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list shopping carts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, carts)
}

// GetLists handles listing every list with recomputed totals
func (h *CartHandler) GetLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.cartService.GetLists(r.Context())
	if err != nil {
		h.logger.Error("Failed to list lists", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list lists")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, lists)
}
