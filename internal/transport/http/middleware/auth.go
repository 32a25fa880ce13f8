package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-otp-core/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// AccessVerifier is the slice of the token service the middleware needs.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, tokenStr string) (*domain.Identity, error)
}

// Auth returns middleware that validates the Bearer access token and
// injects the verified identity into the request context.
func Auth(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			identity, err := verifier.VerifyAccess(r.Context(), tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid, expired or revoked token")
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the verified identity from the request context.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	i, ok := ctx.Value(identityKey).(*domain.Identity)
	return i, ok
}
