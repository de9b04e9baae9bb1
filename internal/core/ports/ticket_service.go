package ports

import (
	"context"
	"time"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// CreateTicketInput carries all data needed to file a new ticket.
type CreateTicketInput struct {
	NameIssue        string
	Description      string
	Status           string // optional; defaults to "to do"
	Priority         string
	IssueType        string
	DueDate          time.Time
	ProductProjectID string
	// AssignedTech may only be supplied by admin/manager callers and must
	// reference a teknis user.
	AssignedTech   *string
	AttachmentLink string
	Attachment     *domain.Attachment
}

// PatchTicketInput is the recognized field set for ticket updates. Nil means
// the field was absent from the payload. Anything else a client sends is not
// recognized by the lifecycle engine and is dropped before it gets here.
type PatchTicketInput struct {
	Status       *string
	AssignedTech *string
}

// PriorityStats is the role-scoped ticket count breakdown by priority.
type PriorityStats struct {
	ByPriority map[domain.TicketPriority]int64
	Total      int64
}

// AssigneeCount is one row of the tickets-per-technician breakdown.
type AssigneeCount struct {
	TechUUID string
	TechName string
	Count    int64
}

// TicketService is the ticket lifecycle engine: role-scoped reads plus
// status/assignment transitions with their timestamp side effects.
type TicketService interface {
	List(ctx context.Context, p domain.Principal) ([]*domain.Ticket, error)
	Get(ctx context.Context, p domain.Principal, uuid string) (*domain.Ticket, error)
	Create(ctx context.Context, p domain.Principal, input CreateTicketInput) (*domain.Ticket, error)
	Patch(ctx context.Context, p domain.Principal, uuid string, input PatchTicketInput) error
	Delete(ctx context.Context, p domain.Principal, uuid string) error

	Attachment(ctx context.Context, p domain.Principal, uuid string) (*domain.Attachment, error)
	Events(ctx context.Context, p domain.Principal, uuid string) ([]*domain.TicketEvent, error)
	StatsByPriority(ctx context.Context, p domain.Principal) (*PriorityStats, error)
	StatsByAssignee(ctx context.Context, p domain.Principal) ([]AssigneeCount, error)
}
