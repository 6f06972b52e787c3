package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is the customer-facing profile. Created exactly once per
// customer user at registration, together with an empty shopping cart.
type Client struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserID        primitive.ObjectID   `bson:"user" json:"user"`
	ShoppingCarts []primitive.ObjectID `bson:"shoppingCart" json:"shoppingCart"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ShopOwner is the seller profile. Created exactly once per seller user
// at registration with an empty shop set.
type ShopOwner struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID   `bson:"user" json:"user"`
	Shops     []primitive.ObjectID `bson:"shops" json:"shops"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
