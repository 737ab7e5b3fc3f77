package ports

import (
	"context"

	"github.com/quorumpoll/quorum/internal/core/domain"
)

// IdentityProvider turns a bearer token into an authenticated user.
// Implementations return domain.ErrUnauthenticated for missing, expired or
// otherwise invalid tokens.
type IdentityProvider interface {
	Verify(ctx context.Context, token string) (*domain.User, error)
}
