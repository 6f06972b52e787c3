package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Sebhvarg/tiendasegura/internal/domain"
	"github.com/Sebhvarg/tiendasegura/internal/middleware"
	"github.com/Sebhvarg/tiendasegura/internal/repository"
	"github.com/Sebhvarg/tiendasegura/internal/service"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Address     string `json:"address" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
	UserType    string `json:"userType" validate:"required,oneof=customer seller shop_owner admin"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest carries the editable profile fields. Absent
// fields are left untouched.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	LastName *string `json:"lastName"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
}

// ChangePasswordRequest represents the password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AccountProfile represents account data returned to clients
type AccountProfile struct {
	ID             string  `json:"_id"`
	Name           string  `json:"name"`
	LastName       string  `json:"lastName"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	UserType       string  `json:"userType"`
	ClientID       *string `json:"clientId,omitempty"`
	ShopOwnerID    *string `json:"shopOwnerId,omitempty"`
	ShoppingCartID *string `json:"shoppingCartId,omitempty"`
}

// AuthResponse represents the registration and login response
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         AccountProfile `json:"user"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// AuthHandler handles HTTP requests for account operations
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers all account routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		// Public routes
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/me", h.Me)
			r.Put("/updateprofile", h.UpdateProfile)
			r.Put("/changepassword", h.ChangePassword)
			r.Post("/logout", h.Logout)
		})
	})
}

// Register handles account registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Registration validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dateOfBirth, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid date of birth, expected YYYY-MM-DD")
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:        req.Name,
		LastName:    req.LastName,
		Username:    req.Username,
		Email:       req.Email,
		Address:     req.Address,
		Phone:       req.Phone,
		Password:    req.Password,
		DateOfBirth: dateOfBirth,
		UserType:    req.UserType,
	})
	if err != nil {
		h.logger.Error("Registration failed", zap.Error(err))

		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "an account with this email or username already exists")
			return
		}
		if errors.Is(err, service.ErrMissingFields) || errors.Is(err, service.ErrInvalidRole) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register account")
		return
	}

	profile := accountProfileFrom(result.User, result.ClientID, result.ShopOwnerID)
	if result.ShoppingCartID != nil {
		cartID := result.ShoppingCartID.Hex()
		profile.ShoppingCartID = &cartID
	}

	h.logger.Info("Account registered",
		zap.String("user_id", result.User.ID.Hex()),
		zap.String("user_type", result.User.UserType),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         profile,
	})
}

// Login handles account authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))

		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		if errors.Is(err, service.ErrInactiveAccount) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "account is inactive")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("Account logged in", zap.String("user_id", result.User.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, AuthResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         accountProfileFrom(result.User, result.ClientID, result.ShopOwnerID),
	})
}

// Me handles returning the caller's account profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load account profile", zap.Error(err))

		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "account not found")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load account profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, accountProfileFrom(profile.User, profile.ClientID, profile.ShopOwnerID))
}

// UpdateProfile handles partial profile updates
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := make(map[string]any)
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.LastName != nil {
		fields["lastName"] = *req.LastName
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if len(fields) == 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "no updatable fields provided")
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), userID, fields)
	if err != nil {
		h.logger.Error("Profile update failed", zap.Error(err))

		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "account not found")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	h.logger.Info("Profile updated", zap.String("user_id", user.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, accountProfileFrom(user, nil, nil))
}

// ChangePassword handles password changes for the authenticated account
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.logger.Debug("Password change failed", zap.Error(err))

		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "account not found")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to change password")
		return
	}

	h.logger.Info("Password changed", zap.String("user_id", userID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}

// RefreshToken handles access token renewal
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Refresh token validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accessToken, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Debug("Token refresh failed", zap.Error(err))

		if errors.Is(err, service.ErrInvalidToken) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		if errors.Is(err, service.ErrTokenExpired) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to refresh token")
		return
	}

	h.logger.Info("Token refreshed")
	middleware.RespondWithJSON(w, http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

// Logout handles refresh token revocation
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Logout decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	h.logger.Info("Account logged out")
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

func accountProfileFrom(user *domain.User, clientID, ownerID *primitive.ObjectID) AccountProfile {
	profile := AccountProfile{
		ID:       user.ID.Hex(),
		Name:     user.Name,
		LastName: user.LastName,
		Username: user.Username,
		Email:    user.Email,
		Address:  user.Address,
		Phone:    user.Phone,
		UserType: user.UserType,
	}
	if clientID != nil {
		id := clientID.Hex()
		profile.ClientID = &id
	}
	if ownerID != nil {
		id := ownerID.Hex()
		profile.ShopOwnerID = &id
	}
	return profile
}
