package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireRole ensures the authenticated user holds one of the allowed
// roles.
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("User role not authorized",
				zap.String("role", role),
				zap.Strings("allowed_roles", allowedRoles),
			)
			respondWithError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

// RequireSeller gates routes to seller accounts. Both seller spellings
// are accepted since registration treats them as the same role.
func RequireSeller(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole([]string{"seller", "shop_owner"}, logger)
}

// RequireAdmin gates routes to admin accounts
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole([]string{"admin"}, logger)
}
