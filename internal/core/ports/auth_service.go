package ports

import (
	"context"
	"time"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// AuthService implements login, logout, and the self-service profile.
type AuthService interface {
	// Login verifies the credentials and returns a signed bearer token plus
	// the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Logout revokes the token with the given id until it would have expired
	// anyway.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	Me(ctx context.Context, p domain.Principal) (*domain.User, error)
	PatchMe(ctx context.Context, p domain.Principal, input PatchUserInput) error
}

// TokenDenylist records revoked token ids. Backed by Redis; entries expire
// with the token itself.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
