package ports

import (
	"context"
	"time"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// TicketFilter carries the role-scope predicates for ticket queries. Empty
// fields are unrestricted; the policy layer fills exactly the field that
// matches the caller's role.
type TicketFilter struct {
	Author          string
	AssignedTech    string
	AssignedManager string
	// DueDate, when non-zero, restricts results to tickets due on that
	// calendar day (UTC).
	DueDate time.Time
}

// TicketRepository defines persistence operations for tickets.
//
// Single-record lookups are unscoped on purpose: the service layer fetches
// the record first and lets the policy decide between Forbidden and NotFound,
// so out-of-scope ids are never reported as absent. No optimistic locking is
// provided; concurrent writers are last-writer-wins.
type TicketRepository interface {
	Create(ctx context.Context, t *domain.Ticket) error
	FindByUUID(ctx context.Context, uuid string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*domain.Ticket, error)
	// Update applies the given field set to the ticket and reports the number
	// of documents modified, so the caller can tell "0 rows affected" from a
	// successful update.
	Update(ctx context.Context, uuid string, set map[string]any) (int64, error)
	Delete(ctx context.Context, uuid string) error

	Count(ctx context.Context, filter TicketFilter) (int64, error)
	CountByPriority(ctx context.Context, filter TicketFilter) (map[domain.TicketPriority]int64, error)
	// CountByAssignee groups scoped tickets by assigned technician uuid.
	// Unassigned tickets are excluded.
	CountByAssignee(ctx context.Context, filter TicketFilter) (map[string]int64, error)
}
