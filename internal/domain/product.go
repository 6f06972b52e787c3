package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product belongs to exactly one shop, via that shop's catalog. ShopID
// may be missing on degraded data; reads backfill it from the catalog
// that contains the product (see the catalog service).
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Brand       string             `bson:"brand" json:"brand"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	ShopID      primitive.ObjectID `bson:"shop,omitempty" json:"shop,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewProduct builds an active product stamped with its shop reference.
func NewProduct(name, brand, description string, price float64, imageURL string, shopID primitive.ObjectID) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Brand:       brand,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		ShopID:      shopID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
