package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. A user's role never changes after registration.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	// RoleShopOwner is accepted as an alias of seller at registration time.
	RoleShopOwner = "shop_owner"
)

// IsSellerRole reports whether the role owns shops.
func IsSellerRole(role string) bool {
	return role == RoleSeller || role == RoleShopOwner
}

// ValidRole reports whether the role is one of the enumerated user types.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer || IsSellerRole(role)
}

// User is an account record. Credentials live here; the role-specific
// profile (Client or ShopOwner) is a separate document.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	Address      string             `bson:"address" json:"address"`
	Phone        string             `bson:"phone" json:"phone"`
	PasswordHash string             `bson:"password" json:"-"`
	DateOfBirth  time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	UserType     string             `bson:"userType" json:"userType"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RefreshToken is a stored opaque token used to mint new access tokens.
type RefreshToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Token     string             `bson:"token" json:"token"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	Revoked   bool               `bson:"revoked" json:"revoked"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
