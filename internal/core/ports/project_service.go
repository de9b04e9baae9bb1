package ports

import (
	"context"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// CreateProjectInput carries all data needed to register a product/project.
type CreateProjectInput struct {
	Name        string
	Description string
	IssueType   string
	PIC         string
	Picture     *domain.Attachment
}

// PatchProjectInput is the recognized field set for project updates. Nil
// means the field was absent.
type PatchProjectInput struct {
	Name        *string
	Description *string
	IssueType   *string
	PIC         *string
	Picture     *domain.Attachment
}

// ProjectService implements product/project CRUD with the pic-must-be-manager
// rule and the manager read scope.
type ProjectService interface {
	List(ctx context.Context, p domain.Principal) ([]*domain.ProductProject, error)
	Get(ctx context.Context, p domain.Principal, uuid string) (*domain.ProductProject, error)
	Create(ctx context.Context, p domain.Principal, input CreateProjectInput) (*domain.ProductProject, error)
	Patch(ctx context.Context, p domain.Principal, uuid string, input PatchProjectInput) error
	Delete(ctx context.Context, p domain.Principal, uuid string) error
	Count(ctx context.Context, p domain.Principal) (int64, error)
}
