package ports

import (
	"context"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByUUID(ctx context.Context, uuid string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns users, optionally restricted to one role (empty = all).
	List(ctx context.Context, role domain.Role) ([]*domain.User, error)
	Update(ctx context.Context, uuid string, set map[string]any) (int64, error)
	Delete(ctx context.Context, uuid string) error
	Count(ctx context.Context) (int64, error)

	// NamesByUUIDs resolves user uuids to display names in one query.
	NamesByUUIDs(ctx context.Context, uuids []string) (map[string]string, error)
}
