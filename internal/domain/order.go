package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the order workflow state.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// Valid reports whether the status is one of the enumerated values.
// No transition graph is enforced: any status may be set from any other.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Payment methods accepted at checkout.
const (
	PaymentCash = "Cash"
	PaymentCard = "Card"
)

// ValidPaymentMethod reports whether the method is accepted.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCard
}

// MinOrderTotal is the minimum chargeable unit for an order.
const MinOrderTotal = 0.05

// OrderLine is a point-in-time snapshot of a product captured into an
// order. Later product mutations never change it.
type OrderLine struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Image     string             `bson:"image" json:"image"`
}

// Order references a client, a shop and optionally the cart it was
// checked out from. After creation it is only mutated via status updates.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ClientID       primitive.ObjectID `bson:"client" json:"client"`
	ShopID         primitive.ObjectID `bson:"shop" json:"shop"`
	ShoppingCartID primitive.ObjectID `bson:"shoppingCart,omitempty" json:"shoppingCart,omitempty"`
	Lines          []OrderLine        `bson:"products" json:"products"`
	Address        string             `bson:"address" json:"address"`
	PaymentMethod  string             `bson:"paymentMethod" json:"paymentMethod"`
	TotalPrice     float64            `bson:"totalPrice" json:"totalPrice"`
	Status         OrderStatus        `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
