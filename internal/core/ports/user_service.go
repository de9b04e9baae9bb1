package ports

import (
	"context"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// CreateUserInput carries all data needed to register an account.
type CreateUserInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	Phone           string
	Picture         *domain.Attachment
}

// PatchUserInput is the recognized field set for account updates. Nil means
// the field was absent. Role may only be set by an admin acting on another
// user; a principal can never change its own role.
type PatchUserInput struct {
	Name            *string
	Email           *string
	Password        *string
	ConfirmPassword *string
	Role            *string
	Phone           *string
	Picture         *domain.Attachment
}

// UserService implements the admin-facing account surface.
type UserService interface {
	List(ctx context.Context, p domain.Principal) ([]*domain.User, error)
	ListByRole(ctx context.Context, p domain.Principal, role domain.Role) ([]*domain.User, error)
	Get(ctx context.Context, p domain.Principal, uuid string) (*domain.User, error)
	Create(ctx context.Context, p domain.Principal, input CreateUserInput) (*domain.User, error)
	Patch(ctx context.Context, p domain.Principal, uuid string, input PatchUserInput) error
	Delete(ctx context.Context, p domain.Principal, uuid string) error
	Count(ctx context.Context, p domain.Principal) (int64, error)
}
