package middleware

import (
	"net/http"
	"slices"

	"go.uber.org/zap"
)

// AdminOnly guards catalog mutations. With an empty secret the admin routes
// are left open, which is how local development runs.
func AdminOnly(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	if jwtSecret == "" {
		logger.Warn("JWT secret not configured, admin routes are unauthenticated")
		return func(next http.Handler) http.Handler { return next }
	}

	authenticate := AuthMiddleware(jwtSecret, logger)
	authorize := RequireRole([]string{AdminRole}, logger)
	return func(next http.Handler) http.Handler {
		return authenticate(authorize(next))
	}
}

// RequireRole middleware ensures the caller has one of the specified roles
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRole(r.Context())
			if !ok || !slices.Contains(allowedRoles, role) {
				logger.Warn("Caller role not authorized",
					zap.String("role", role),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
