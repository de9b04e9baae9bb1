package ports

import (
	"context"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// ProjectFilter scopes project queries. PIC non-empty restricts to projects
// owned by that manager.
type ProjectFilter struct {
	PIC string
}

// ProjectRepository defines persistence operations for product/projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.ProductProject) error
	FindByUUID(ctx context.Context, uuid string) (*domain.ProductProject, error)
	List(ctx context.Context, filter ProjectFilter) ([]*domain.ProductProject, error)
	Update(ctx context.Context, uuid string, set map[string]any) (int64, error)
	Delete(ctx context.Context, uuid string) error
	Count(ctx context.Context, filter ProjectFilter) (int64, error)

	// NamesByUUIDs resolves project uuids to display names in one query,
	// used by report rows.
	NamesByUUIDs(ctx context.Context, uuids []string) (map[string]string, error)
}
