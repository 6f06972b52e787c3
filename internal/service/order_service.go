package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sebhvarg/tiendasegura/internal/domain"
	"github.com/Sebhvarg/tiendasegura/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrCartNotFound        = errors.New("shopping cart not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrOrderTotalTooLow    = errors.New("order total is below the minimum")
	ErrInvalidPayment      = errors.New("invalid payment method")
	ErrInvalidOrderInput   = errors.New("clientId and shopId are required")
	ErrMalformedIdentifier = errors.New("malformed identifier")
)

// CreateOrderInput carries checkout data. Identifier fields accept any
// of the caller shapes handled by domain.NormalizeID and are normalized
// before any lookup.
type CreateOrderInput struct {
	ClientID       any
	ShopID         any
	ShoppingCartID any
	Lines          []domain.OrderLine
	Address        string
	PaymentMethod  string
	TotalPrice     float64
}

// OrderWithClient is an order enriched with the ordering client's user
// display fields.
type OrderWithClient struct {
	*domain.Order
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
}

// OrderService defines the interface for order workflow business logic
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID any, status string) (*domain.Order, error)
	GetOrdersByShop(ctx context.Context, shopID any) ([]*OrderWithClient, error)
	GetOrdersByClient(ctx context.Context, clientID any) ([]*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

type orderService struct {
	orderRepo  repository.OrderRepository
	clientRepo repository.ClientRepository
	cartRepo   repository.CartRepository
	userRepo   repository.UserRepository
	logger     *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	clientRepo repository.ClientRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		clientRepo: clientRepo,
		cartRepo:   cartRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// CreateOrder persists a new order in Pending status. Line items are
// stored as point-in-time snapshots so the order stays historically
// accurate when products change later.
func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.ClientID == nil || in.ShopID == nil {
		return nil, ErrInvalidOrderInput
	}

	clientID, err := domain.ParseID(in.ClientID)
	if err != nil {
		return nil, ErrMalformedIdentifier
	}
	shopID, err := domain.ParseID(in.ShopID)
	if err != nil {
		return nil, ErrMalformedIdentifier
	}

	if in.Address == "" {
		return nil, ErrMissingFields
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return nil, ErrInvalidPayment
	}
	if in.TotalPrice < domain.MinOrderTotal {
		return nil, ErrOrderTotalTooLow
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if err == repository.ErrClientNotFound {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to resolve client: %w", err)
	}

	var cartID primitive.ObjectID
	if in.ShoppingCartID != nil {
		cartID, err = domain.ParseID(in.ShoppingCartID)
		if err != nil {
			return nil, ErrMalformedIdentifier
		}
		if _, err := s.cartRepo.FindByID(ctx, cartID); err != nil {
			if err == repository.ErrCartNotFound {
				return nil, ErrCartNotFound
			}
			return nil, fmt.Errorf("failed to resolve shopping cart: %w", err)
		}
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:             primitive.NewObjectID(),
		ClientID:       client.ID,
		ShopID:         shopID,
		ShoppingCartID: cartID,
		Lines:          in.Lines,
		Address:        in.Address,
		PaymentMethod:  in.PaymentMethod,
		TotalPrice:     in.TotalPrice,
		Status:         domain.OrderPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

// UpdateOrderStatus overwrites the order status. Any enumerated status
// may replace any other; only enum membership is checked.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID any, status string) (*domain.Order, error) {
	id, err := domain.ParseID(orderID)
	if err != nil {
		return nil, ErrMalformedIdentifier
	}

	next := domain.OrderStatus(status)
	if !next.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, next)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return order, nil
}

// GetOrdersByShop returns a shop's orders newest first, each enriched
// with the ordering client's name and email. Enrichment is best-effort:
// a missing client or user leaves the display fields empty.
func (s *orderService) GetOrdersByShop(ctx context.Context, shopID any) ([]*OrderWithClient, error) {
	id, err := domain.ParseID(shopID)
	if err != nil {
		return nil, ErrMalformedIdentifier
	}

	orders, err := s.orderRepo.FindByShop(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop orders: %w", err)
	}

	enriched := make([]*OrderWithClient, 0, len(orders))
	for _, order := range orders {
		view := &OrderWithClient{Order: order}
		if client, err := s.clientRepo.FindByID(ctx, order.ClientID); err == nil {
			if user, err := s.userRepo.FindByID(ctx, client.UserID); err == nil {
				view.ClientName = user.Name + " " + user.LastName
				view.ClientEmail = user.Email
			} else {
				s.logger.Debug("Order client user lookup failed",
					zap.String("order_id", order.ID.Hex()),
					zap.Error(err),
				)
			}
		}
		enriched = append(enriched, view)
	}
	return enriched, nil
}

func (s *orderService) GetOrdersByClient(ctx context.Context, clientID any) ([]*domain.Order, error) {
	id, err := domain.ParseID(clientID)
	if err != nil {
		return nil, ErrMalformedIdentifier
	}
	return s.orderRepo.FindByClient(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx)
}
