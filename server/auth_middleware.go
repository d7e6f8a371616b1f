package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/popudev/server-ecommerce/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores the verified access-token claims
const ContextKeyClaims ContextKey = "claims"

// ClaimsFromContext returns the claims injected by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims, ok
}

// RequireAuth validates the Bearer access token and injects its claims.
// Verification is stateless: signature and expiry only, no store lookup.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSON(w, http.StatusUnauthorized, "You're not authenticated")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeJSON(w, http.StatusUnauthorized, "You're not authenticated")
				return
			}

			claims, err := s.issuer.Verify(parts[1])
			if err != nil {
				writeJSON(w, http.StatusForbidden, "Token is not valid")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireAdmin gates admin-only routes. Must be chained after RequireAuth.
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || !claims.Admin {
				writeJSON(w, http.StatusForbidden, "You're not allowed")
				return
			}
			next(w, r)
		}
	}
}
