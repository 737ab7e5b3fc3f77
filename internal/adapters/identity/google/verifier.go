// Package google verifies Google ID tokens as the identity provider.
package google

import (
	"context"
	"fmt"

	"github.com/quorumpoll/quorum/internal/core/domain"
	"github.com/quorumpoll/quorum/internal/core/ports"
	"google.golang.org/api/idtoken"
)

type Verifier struct {
	clientID    string
	adminEmails map[string]struct{}
}

// NewVerifier builds a verifier for tokens issued to clientID. Accounts in
// adminEmails get the admin role; everyone else is a plain user.
func NewVerifier(clientID string, adminEmails []string) ports.IdentityProvider {
	index := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		index[email] = struct{}{}
	}
	return &Verifier{clientID: clientID, adminEmails: index}
}

func (v *Verifier) Verify(ctx context.Context, token string) (*domain.User, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	user := &domain.User{
		ID:   payload.Subject,
		Role: domain.RoleUser,
	}
	if email, ok := payload.Claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		user.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		user.Picture = picture
	}
	if _, ok := v.adminEmails[user.Email]; ok {
		user.Role = domain.RoleAdmin
	}
	return user, nil
}
