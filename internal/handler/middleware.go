package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/prasetyo/school-engine/internal/auth"
	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/pkg/response"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware verifies the bearer token and attaches the caller
// identity to the request context.
func AuthMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.Unauthorized(w, "Authorization header is required")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Authorization header must be a bearer token")
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				response.Unauthorized(w, "Token is not valid")
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				response.Unauthorized(w, "Token is not valid")
				return
			}

			identity := domain.Identity{ID: userID, Role: claims.Role}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identityFrom reads the caller identity attached by AuthMiddleware.
func identityFrom(r *http.Request) (domain.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(domain.Identity)
	return identity, ok
}

// RequireRoles rejects callers whose role is not in the allowed set.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFrom(r)
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			if !allowed[identity.Role] {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is the admin-only gate.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRoles(domain.RoleAdmin)
}

// RequireStaff gates routes to roles that manage school data.
func RequireStaff() func(http.Handler) http.Handler {
	return RequireRoles(domain.RoleAdmin, domain.RoleTeacher, domain.RoleStaff)
}
