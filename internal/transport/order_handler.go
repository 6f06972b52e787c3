package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sebhvarg/tiendasegura/internal/domain"
	"github.com/Sebhvarg/tiendasegura/internal/middleware"
	"github.com/Sebhvarg/tiendasegura/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderLineRequest is a product line at checkout. The product id
// accepts any of the tolerated identifier shapes.
type OrderLineRequest struct {
	Product  json.RawMessage `json:"product"`
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
}

// CreateOrderRequest represents the checkout payload. Identifier
// fields are raw JSON so malformed and wrapped shapes reach the
// normalizer instead of failing at decode time.
type CreateOrderRequest struct {
	Client        json.RawMessage    `json:"client"`
	Shop          json.RawMessage    `json:"shop"`
	ShoppingCart  json.RawMessage    `json:"shoppingCart"`
	Products      []OrderLineRequest `json:"products"`
	Address       string             `json:"address"`
	PaymentMethod string             `json:"paymentMethod"`
	TotalPrice    float64            `json:"totalPrice"`
}

// UpdateOrderStatusRequest represents the status update payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for order workflow operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, sellerOnly func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		// Public routes
		r.Get("/", h.ListOrders)
		r.Post("/create", h.CreateOrder)
		r.Get("/client/{clientId}", h.GetOrdersByClient)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Put("/{orderId}/status", h.UpdateOrderStatus)
		})

		// Seller routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(sellerOnly)
			r.Get("/shop/{shopId}", h.GetOrdersByShop)
		})
	})
}

// CreateOrder handles checkout
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines := make([]domain.OrderLine, 0, len(req.Products))
	for _, p := range req.Products {
		productID, err := domain.ParseID(p.Product)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product reference in order")
			return
		}
		lines = append(lines, domain.OrderLine{
			ProductID: productID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  p.Quantity,
			Image:     p.Image,
		})
	}

	in := service.CreateOrderInput{
		Lines:         lines,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		TotalPrice:    req.TotalPrice,
	}
	if len(req.Client) > 0 {
		in.ClientID = req.Client
	}
	if len(req.Shop) > 0 {
		in.ShopID = req.Shop
	}
	if len(req.ShoppingCart) > 0 && string(req.ShoppingCart) != "null" {
		in.ShoppingCartID = req.ShoppingCart
	}

	order, err := h.orderService.CreateOrder(r.Context(), in)
	if err != nil {
		h.logger.Debug("Order creation failed", zap.Error(err))

		switch {
		case errors.Is(err, service.ErrMalformedIdentifier),
			errors.Is(err, service.ErrInvalidOrderInput),
			errors.Is(err, service.ErrMissingFields),
			errors.Is(err, service.ErrInvalidPayment),
			errors.Is(err, service.ErrOrderTotalTooLow):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "client not found")
		case errors.Is(err, service.ErrCartNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "shopping cart not found")
		default:
			h.logger.Error("Order creation failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		}
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("client_id", order.ClientID.Hex()),
		zap.Float64("total", order.TotalPrice),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// UpdateOrderStatus handles moving an order to a new workflow state
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(r.Context(), chi.URLParam(r, "orderId"), req.Status)
	if err != nil {
		h.logger.Debug("Order status update failed", zap.Error(err))

		switch {
		case errors.Is(err, service.ErrInvalidOrderStatus),
			errors.Is(err, service.ErrMalformedIdentifier):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Order status update failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", order.ID.Hex()),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// ListOrders handles listing every order
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrdersByShop handles listing a shop's orders with client contact info
func (h *OrderHandler) GetOrdersByShop(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetOrdersByShop(r.Context(), chi.URLParam(r, "shopId"))
	if err != nil {
		if errors.Is(err, service.ErrMalformedIdentifier) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid shop id")
			return
		}

		h.logger.Error("Failed to list shop orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list shop orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrdersByClient handles listing a client's orders
func (h *OrderHandler) GetOrdersByClient(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetOrdersByClient(r.Context(), chi.URLParam(r, "clientId"))
	if err != nil {
		if errors.Is(err, service.ErrMalformedIdentifier) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid client id")
			return
		}

		h.logger.Error("Failed to list client orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list client orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}
