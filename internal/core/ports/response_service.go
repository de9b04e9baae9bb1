package ports

import (
	"context"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// CreateResponseInput carries the payload for posting the closing response on
// a ticket.
type CreateResponseInput struct {
	TicketID    string
	InsertLink  string
	Description string
	Attachment  *domain.Attachment
}

// PatchResponseInput is the recognized field set for response updates. Nil
// means the field was absent.
type PatchResponseInput struct {
	InsertLink  *string
	Description *string
	Attachment  *domain.Attachment
}

// ResponseService is the ticket response gate: it enforces the single
// response per ticket invariant and the response-closes-ticket coupling.
type ResponseService interface {
	Create(ctx context.Context, p domain.Principal, input CreateResponseInput) (*domain.TicketResponse, error)
	List(ctx context.Context, p domain.Principal) ([]*domain.TicketResponse, error)
	Get(ctx context.Context, p domain.Principal, uuid string) (*domain.TicketResponse, error)
	GetByTicket(ctx context.Context, p domain.Principal, ticketUUID string) (*domain.TicketResponse, error)
	Patch(ctx context.Context, p domain.Principal, uuid string, input PatchResponseInput) error
	Delete(ctx context.Context, p domain.Principal, uuid string) error
	Attachment(ctx context.Context, p domain.Principal, uuid string) (*domain.Attachment, error)
}
