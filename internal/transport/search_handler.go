package transport

import (
	"errors"
	"net/http"

	"github.com/Sebhvarg/tiendasegura/internal/middleware"
	"github.com/Sebhvarg/tiendasegura/internal/service"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SearchHandler handles HTTP requests for catalog search and history
type SearchHandler struct {
	searchService service.SearchService
	logger        *zap.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService service.SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// RegisterRoutes registers the search routes
func (h *SearchHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/api/catalog/search", h.Search)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/api/search-history/{clientId}", h.GetHistory)
	})
}

// Search handles text search over products and shops. An optional
// clientId query parameter attributes the query to a search history.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var clientID *primitive.ObjectID
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid client id")
			return
		}
		clientID = &id
	}

	result, err := h.searchService.Search(r.Context(), query, clientID)
	if err != nil {
		if errors.Is(err, service.ErrMissingQuery) {
			middleware.RespondWithError(w, http.StatusBadRequest, "query parameter q is required")
			return
		}

		h.logger.Error("Search failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// GetHistory handles listing a client's past queries, newest first
func (h *SearchHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	clientID, err := idParam(r, "clientId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	history, err := h.searchService.GetHistory(r.Context(), clientID)
	if err != nil {
		h.logger.Error("Failed to load search history", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load search history")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, history)
}
