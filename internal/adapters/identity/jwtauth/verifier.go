// Package jwtauth verifies HS256 access tokens minted by the login service.
package jwtauth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quorumpoll/quorum/internal/core/domain"
	"github.com/quorumpoll/quorum/internal/core/ports"
)

type Verifier struct {
	secret      []byte
	adminEmails map[string]struct{}
}

func NewVerifier(secret []byte, adminEmails []string) ports.IdentityProvider {
	index := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		index[email] = struct{}{}
	}
	return &Verifier{secret: secret, adminEmails: index}
}

func (v *Verifier) Verify(ctx context.Context, tokenString string) (*domain.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", domain.ErrUnauthenticated)
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrUnauthenticated)
	}

	user := &domain.User{
		ID:   sub,
		Role: domain.RoleUser,
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	if picture, ok := claims["picture"].(string); ok {
		user.Picture = picture
	}
	if role, ok := claims["role"].(string); ok && domain.Role(role) == domain.RoleAdmin {
		user.Role = domain.RoleAdmin
	}
	if _, ok := v.adminEmails[user.Email]; ok {
		user.Role = domain.RoleAdmin
	}
	return user, nil
}
