package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sebhvarg/tiendasegura/internal/domain"
	"github.com/Sebhvarg/tiendasegura/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidRole        = errors.New("invalid user type")
)

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RegisterInput carries everything needed to create an account and its
// role-specific profile.
type RegisterInput struct {
	Name        string
	LastName    string
	Username    string
	Email       string
	Address     string
	Phone       string
	Password    string
	DateOfBirth time.Time
	UserType    string
}

// RegisterResult is the registration outcome. Exactly one of the
// profile id pairs is populated depending on the role: customers get a
// Client plus an empty ShoppingCart, sellers get a ShopOwner.
type RegisterResult struct {
	User           *domain.User
	ClientID       *primitive.ObjectID
	ShoppingCartID *primitive.ObjectID
	ShopOwnerID    *primitive.ObjectID
	AccessToken    string
	RefreshToken   string
}

// AuthResult is the login outcome.
type AuthResult struct {
	User         *domain.User
	ClientID     *primitive.ObjectID
	ShopOwnerID  *primitive.ObjectID
	AccessToken  string
	RefreshToken string
}

// AccountProfile is the caller's account plus resolved profile ids.
type AccountProfile struct {
	User        *domain.User
	ClientID    *primitive.ObjectID
	ShopOwnerID *primitive.ObjectID
}

// AuthService defines the interface for account business logic
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, userID primitive.ObjectID) (*AccountProfile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, fields map[string]any) (*domain.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo         repository.UserRepository
	clientRepo       repository.ClientRepository
	ownerRepo        repository.ShopOwnerRepository
	cartRepo         repository.CartRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	accessExpiry     time.Duration
	refreshExpiry    time.Duration
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	ownerRepo repository.ShopOwnerRepository,
	cartRepo repository.CartRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtSecret string,
	accessExpiryMinutes, refreshExpiryDays int,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		clientRepo:       clientRepo,
		ownerRepo:        ownerRepo,
		cartRepo:         cartRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        jwtSecret,
		accessExpiry:     time.Duration(accessExpiryMinutes) * time.Minute,
		refreshExpiry:    time.Duration(refreshExpiryDays) * 24 * time.Hour,
	}
}

// Register creates the account and branches on role to build the
// role-specific profile: customer accounts get a Client linked to a
// fresh empty ShoppingCart, seller accounts get a ShopOwner with an
// empty shop set. The role is fixed for the account's lifetime.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if in.Name == "" || in.LastName == "" || in.Username == "" || in.Email == "" || in.Password == "" || in.UserType == "" {
		return nil, ErrMissingFields
	}
	if !domain.ValidRole(in.UserType) {
		return nil, ErrInvalidRole
	}

	existing, err := s.userRepo.FindByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil && err != repository.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        in.Email,
		Address:      in.Address,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		DateOfBirth:  in.DateOfBirth,
		UserType:     in.UserType,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	result := &RegisterResult{User: user}

	switch {
	case user.UserType == domain.RoleCustomer:
		client := &domain.Client{
			ID:        primitive.NewObjectID(),
			UserID:    user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.clientRepo.Create(ctx, client); err != nil {
			return nil, fmt.Errorf("failed to create client profile: %w", err)
		}
		cart := &domain.ShoppingCart{
			ID:        primitive.NewObjectID(),
			ClientID:  client.ID,
			IsEmpty:   true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.cartRepo.Create(ctx, cart); err != nil {
			return nil, fmt.Errorf("failed to create shopping cart: %w", err)
		}
		if err := s.clientRepo.SetCarts(ctx, client.ID, []primitive.ObjectID{cart.ID}); err != nil {
			return nil, fmt.Errorf("failed to link shopping cart: %w", err)
		}
		result.ClientID = &client.ID
		result.ShoppingCartID = &cart.ID

	case domain.IsSellerRole(user.UserType):
		owner := &domain.ShopOwner{
			ID:        primitive.NewObjectID(),
			UserID:    user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.ownerRepo.Create(ctx, owner); err != nil {
			return nil, fmt.Errorf("failed to create shop owner profile: %w", err)
		}
		result.ShopOwnerID = &owner.ID
	}

	result.AccessToken, err = s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	result.RefreshToken, err = s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return result, nil
}

// Login authenticates a user and returns tokens plus resolved profile ids
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	result := &AuthResult{User: user}
	s.resolveProfileIDs(ctx, user, &result.ClientID, &result.ShopOwnerID)

	result.AccessToken, err = s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	result.RefreshToken, err = s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return result, nil
}

// Me returns the caller's account and its role profile ids
func (s *authService) Me(ctx context.Context, userID primitive.ObjectID) (*AccountProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	profile := &AccountProfile{User: user}
	s.resolveProfileIDs(ctx, user, &profile.ClientID, &profile.ShopOwnerID)
	return profile, nil
}

// UpdateProfile applies the mutable profile fields only
func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, fields map[string]any) (*domain.User, error) {
	allowed := map[string]bool{"name": true, "lastName": true, "address": true, "phone": true}
	set := map[string]any{}
	for k, v := range fields {
		if allowed[k] {
			set[k] = v
		}
	}
	if len(set) == 0 {
		return nil, ErrMissingFields
	}
	return s.userRepo.UpdateProfile(ctx, userID, set)
}

// ChangePassword verifies the current password before storing a new hash
func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrMissingFields
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

// RefreshToken mints a new access token from a valid refresh token
func (s *authService) RefreshToken(ctx context.Context, refreshTokenString string) (string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if err == repository.ErrRefreshTokenNotFound || err == repository.ErrRefreshTokenRevoked {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to find refresh token: %w", err)
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		return "", ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return "", ErrInactiveAccount
	}

	return s.generateAccessToken(user)
}

// Logout invalidates the refresh token
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refreshTokenRepo.Revoke(ctx, refreshToken); err != nil {
		if err == repository.ErrRefreshTokenNotFound {
			// Token doesn't exist, consider it already logged out
			return nil
		}
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// resolveProfileIDs looks up the role profile for response enrichment.
// A missing profile is left nil rather than failing the call.
func (s *authService) resolveProfileIDs(ctx context.Context, user *domain.User, clientID, ownerID **primitive.ObjectID) {
	switch {
	case user.UserType == domain.RoleCustomer:
		if client, err := s.clientRepo.FindByUserID(ctx, user.ID); err == nil {
			*clientID = &client.ID
		}
	case domain.IsSellerRole(user.UserType):
		if owner, err := s.ownerRepo.FindByUserID(ctx, user.ID); err == nil {
			*ownerID = &owner.ID
		}
	}
}

// generateAccessToken signs an HS256 JWT with user id and role claims
func (s *authService) generateAccessToken(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.accessExpiry)
	claims := &Claims{
		UserID: user.ID.Hex(),
		Role:   user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// generateRefreshToken stores and returns an opaque refresh token
func (s *authService) generateRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	tokenString := uuid.New().String()

	refreshToken := &domain.RefreshToken{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(s.refreshExpiry),
		CreatedAt: time.Now().UTC(),
		Revoked:   false,
	}
	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}
	return tokenString, nil
}
