package ports

import (
	"context"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

// AuditSink accepts lifecycle events for asynchronous persistence. The
// dispatcher behind it preserves per-ticket ordering.
type AuditSink interface {
	Emit(event domain.TicketEvent)
}

// AuditRepository persists and reads the ticket audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.TicketEvent) error
	// ListByTicket returns a ticket's events oldest first.
	ListByTicket(ctx context.Context, ticketUUID string) ([]*domain.TicketEvent, error)
}
