package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SearchHistory is an append-only record of a client's search query.
type SearchHistory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ClientID  primitive.ObjectID `bson:"client" json:"client"`
	Query     string             `bson:"query" json:"query"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
