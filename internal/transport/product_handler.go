package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sebhvarg/tiendasegura/internal/middleware"
	"github.com/Sebhvarg/tiendasegura/internal/repository"
	"github.com/Sebhvarg/tiendasegura/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Brand       string  `json:"brand" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl"`
}

// UpdateProductRequest carries the editable product fields. Absent
// fields are left untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Brand       *string  `json:"brand"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"imageUrl"`
	IsActive    *bool    `json:"isActive"`
}

// ProductHandler handles HTTP requests for product and catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product and catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, sellerOnly func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)

		// Authenticated routes. The leading segment is the catalog or
		// list id; chi requires sibling wildcards to share a name.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/{id}/add-to-catalog/{productId}", h.AddToCatalog)
			r.Post("/{id}/add-to-list/{productId}", h.AddToList)
		})

		// Seller routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(sellerOnly)
			r.Post("/create", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})

	r.Get("/api/catalogs", h.ListCatalogs)
}

// CreateProduct handles product creation in the seller's catalog
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), userID, service.CreateProductInput{
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.logger.Error("Product creation failed", zap.Error(err))

		if errors.Is(err, service.ErrNoShopRegistered) {
			middleware.RespondWithError(w, http.StatusBadRequest, "register a shop before adding products")
			return
		}
		if errors.Is(err, service.ErrCatalogMissing) {
			middleware.RespondWithError(w, http.StatusNotFound, "shop catalog not found")
			return
		}

		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// ListProducts handles listing every product
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct handles fetching a single product
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// UpdateProduct handles partial product updates
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := make(map[string]any)
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Brand != nil {
		fields["brand"] = *req.Brand
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "price must be greater than zero")
			return
		}
		fields["price"] = *req.Price
	}
	if req.ImageURL != nil {
		fields["imageUrl"] = *req.ImageURL
	}
	if req.IsActive != nil {
		fields["isActive"] = *req.IsActive
	}
	if len(fields) == 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "no updatable fields provided")
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), productID, fields)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Product update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct handles product removal, scrubbing catalog references
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), productID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Product deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", productID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// AddToCatalog handles appending a product reference to a catalog
func (h *ProductHandler) AddToCatalog(w http.ResponseWriter, r *http.Request) {
	catalogID, err := idParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid catalog id")
		return
	}
	productID, err := idParam(r, "productId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	catalog, err := h.productService.AddToCatalog(r.Context(), catalogID, productID)
	if err != nil {
		if errors.Is(err, service.ErrCatalogMissing) {
			middleware.RespondWithError(w, http.StatusNotFound, "catalog not found")
			return
		}

		h.logger.Error("Add to catalog failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add product to catalog")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, catalog)
}

// AddToList handles appending a product reference to a list
func (h *ProductHandler) AddToList(w http.ResponseWriter, r *http.Request) {
	listID, err := idParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid list id")
		return
	}
	productID, err := idParam(r, "productId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	list, err := h.productService.AddToList(r.Context(), listID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrListNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "list not found")
			return
		}

		h.logger.Error("Add to list failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add product to list")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, list)
}

// ListCatalogs handles listing every catalog with resolved products
func (h *ProductHandler) ListCatalogs(w http.ResponseWriter, r *http.Request) {
	catalogs, err := h.productService.ListCatalogs(r.Context())
	if err != nil {
		h.logger.Error("Failed to list catalogs", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list catalogs")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, catalogs)
}
