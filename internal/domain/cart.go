package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShoppingCart is a client's mutable product collection. IsEmpty mirrors
// whether Products is empty.
type ShoppingCart struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	ClientID  primitive.ObjectID   `bson:"client" json:"client"`
	Products  []primitive.ObjectID `bson:"listOfProducts" json:"listOfProducts"`
	IsEmpty   bool                 `bson:"isEmpty" json:"isEmpty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// List is a named product collection with a derived price total. The
// total is recomputed from the referenced products on read and written
// back.
type List struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name      string               `bson:"name" json:"name"`
	Products  []primitive.ObjectID `bson:"products" json:"products"`
	Price     float64              `bson:"price" json:"price"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
