package ports

import (
	"context"
	"time"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// ResponseFilter carries the role-scope predicates for response listings.
// Author filters on the response's own author; TicketAuthor and TicketManager
// filter transitively through the parent ticket.
type ResponseFilter struct {
	Author        string
	TicketAuthor  string
	TicketManager string
}

// ResponseRepository defines persistence operations for ticket responses.
type ResponseRepository interface {
	FindByUUID(ctx context.Context, uuid string) (*domain.TicketResponse, error)
	FindByTicketID(ctx context.Context, ticketUUID string) (*domain.TicketResponse, error)
	List(ctx context.Context, filter ResponseFilter) ([]*domain.TicketResponse, error)

	// CreateAndCloseTicket persists the response and transitions its parent
	// ticket to done with issue_fixed_date = closedAt, as a single
	// transaction. Either both writes commit or neither does.
	CreateAndCloseTicket(ctx context.Context, r *domain.TicketResponse, closedAt time.Time) error

	Update(ctx context.Context, uuid string, set map[string]any) (int64, error)
	Delete(ctx context.Context, uuid string) error
}
