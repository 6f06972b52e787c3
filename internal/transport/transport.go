// Package transport contains the HTTP handlers and their request and
// response payloads.
package transport

import (
	"net/http"

	"github.com/Sebhvarg/tiendasegura/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID extracts the authenticated account id placed in the
// request context by the auth middleware.
func currentUserID(r *http.Request) (primitive.ObjectID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}

	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return userID, true
}

// idParam parses a hex object id route parameter.
func idParam(r *http.Request, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, name))
}
