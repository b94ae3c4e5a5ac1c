package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"quote-negotiation-backend/internal/api/grpc/interceptor"
	"quote-negotiation-backend/internal/config"
	"quote-negotiation-backend/internal/domain"
	"quote-negotiation-backend/internal/logger"
	"quote-negotiation-backend/internal/security"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	userRoleKey
)

// UserIDFromContext returns the authenticated caller set by the auth middleware.
func UserIDFromContext(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(userIDKey).(int32)
	return id, ok
}

func UserRoleFromContext(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(userRoleKey).(domain.Role)
	return role, ok
}

// authMiddleware validates the bearer token and applies the role gate of the
// matched route's name.
func authMiddleware(tm security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var operation string
			if route := mux.CurrentRoute(r); route != nil {
				operation = route.GetName()
			}
			if config.PublicEndpoints[operation] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeFailure(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authorization token is not provided", "")
				return
			}
			claims, err := tm.ValidateToken(interceptor.StripBearer(header))
			if err != nil {
				writeFailure(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid token", "")
				return
			}

			if !config.RoleAllowed(operation, claims.Role) {
				logger.Warn("Role not allowed", "operation", operation, "role", claims.Role, "userID", claims.UserID)
				writeFailure(w, http.StatusForbidden, "FORBIDDEN", "role "+string(claims.Role)+" may not call "+operation, "")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, userRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
