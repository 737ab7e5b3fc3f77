package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/quorumpoll/quorum/internal/core/domain"
	"github.com/quorumpoll/quorum/internal/core/ports"
)

type contextKey string

const userContextKey contextKey = "authenticated-user"

// Authenticator resolves the request's bearer token (Authorization header
// or access_token cookie) through the identity provider and stores the
// resulting user in the request context. Requests without a valid token
// never reach the wrapped handler.
func Authenticator(identity ports.IdentityProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated))
				return
			}

			user, err := identity.Verify(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return token
		}
		return ""
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// UserFromContext returns the authenticated user placed by Authenticator.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}
