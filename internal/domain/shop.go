package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shop and its Catalog hold durable references to each other. Both IDs
// are generated before either document is persisted so neither side is
// ever observable without the other.
type Shop struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Address   string             `bson:"address" json:"address"`
	OwnerID   primitive.ObjectID `bson:"shopOwner" json:"shopOwner"`
	CatalogID primitive.ObjectID `bson:"catalog" json:"catalog"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Catalog is the product set a shop offers for sale.
type Catalog struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	ShopID    primitive.ObjectID   `bson:"shop" json:"shop"`
	Products  []primitive.ObjectID `bson:"products" json:"products"`
	IsActive  bool                 `bson:"isActive" json:"isActive"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// NewShopWithCatalog builds the mutually referencing pair. Callers must
// persist both documents (and the owner update) in one transaction.
func NewShopWithCatalog(ownerID primitive.ObjectID, name, address string) (*Shop, *Catalog) {
	shopID := primitive.NewObjectID()
	catalogID := primitive.NewObjectID()
	now := time.Now().UTC()

	shop := &Shop{
		ID:        shopID,
		Name:      name,
		Address:   address,
		OwnerID:   ownerID,
		CatalogID: catalogID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	catalog := &Catalog{
		ID:        catalogID,
		ShopID:    shopID,
		Products:  []primitive.ObjectID{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return shop, catalog
}
