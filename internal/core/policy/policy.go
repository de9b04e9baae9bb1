// Package policy contains the role-scoped visibility rules as pure lookup
// tables: given a principal and a record, each function answers whether an
// action is in scope. No I/O, no ambient state — callers fetch the record and
// the policy decides, which keeps the Forbidden-vs-NotFound distinction in
// one place.
package policy

import (
	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

type ticketPredicate func(p domain.Principal, t *domain.Ticket) bool

func anyTicket(domain.Principal, *domain.Ticket) bool { return true }

func ownAuthored(p domain.Principal, t *domain.Ticket) bool {
	return t.Author == p.ID
}

func ownManaged(p domain.Principal, t *domain.Ticket) bool {
	return t.AssignedManager == p.ID
}

func ownAssigned(p domain.Principal, t *domain.Ticket) bool {
	return t.AssignedTech != nil && *t.AssignedTech == p.ID
}

// Read and write scopes per role. Adding a rule is a table edit, not a new
// branch.
var (
	ticketRead = map[domain.Role]ticketPredicate{
		domain.RoleAdmin:   anyTicket,
		domain.RoleUser:    ownAuthored,
		domain.RoleManager: ownManaged,
		domain.RoleTeknis:  ownAssigned,
	}

	// Users create tickets but never update them afterwards.
	ticketUpdate = map[domain.Role]ticketPredicate{
		domain.RoleAdmin:   anyTicket,
		domain.RoleManager: ownManaged,
		domain.RoleTeknis:  ownAssigned,
	}

	ticketDelete = map[domain.Role]ticketPredicate{
		domain.RoleAdmin: anyTicket,
		domain.RoleUser:  ownAuthored,
	}
)

// CanReadTicket reports whether the principal may see the ticket.
func CanReadTicket(p domain.Principal, t *domain.Ticket) bool {
	pred, ok := ticketRead[p.Role]
	return ok && pred(p, t)
}

// CanUpdateTicket reports whether the principal may mutate the ticket at all.
// Which fields it may touch is decided by CanAssignTech/CanSetStatus.
func CanUpdateTicket(p domain.Principal, t *domain.Ticket) bool {
	pred, ok := ticketUpdate[p.Role]
	return ok && pred(p, t)
}

// CanDeleteTicket reports whether the principal may delete the ticket.
func CanDeleteTicket(p domain.Principal, t *domain.Ticket) bool {
	pred, ok := ticketDelete[p.Role]
	return ok && pred(p, t)
}

// CanAssignTech reports whether the role may set assigned_tech.
func CanAssignTech(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleManager
}

// CanSetStatus reports whether the role may set status.
func CanSetStatus(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleManager || role == domain.RoleTeknis
}

// TicketScope returns the list filter matching the principal's read scope.
// Admin scope is unrestricted.
func TicketScope(p domain.Principal) ports.TicketFilter {
	switch p.Role {
	case domain.RoleUser:
		return ports.TicketFilter{Author: p.ID}
	case domain.RoleManager:
		return ports.TicketFilter{AssignedManager: p.ID}
	case domain.RoleTeknis:
		return ports.TicketFilter{AssignedTech: p.ID}
	default:
		return ports.TicketFilter{}
	}
}

// Response visibility is derived transitively through the parent ticket,
// except for teknis, who sees only responses they authored themselves.
var responseRead = map[domain.Role]func(p domain.Principal, r *domain.TicketResponse, parent *domain.Ticket) bool{
	domain.RoleAdmin: func(domain.Principal, *domain.TicketResponse, *domain.Ticket) bool { return true },
	domain.RoleTeknis: func(p domain.Principal, r *domain.TicketResponse, _ *domain.Ticket) bool {
		return r.Author == p.ID
	},
	domain.RoleUser: func(p domain.Principal, _ *domain.TicketResponse, parent *domain.Ticket) bool {
		return parent != nil && parent.Author == p.ID
	},
	domain.RoleManager: func(p domain.Principal, _ *domain.TicketResponse, parent *domain.Ticket) bool {
		return parent != nil && parent.AssignedManager == p.ID
	},
}

// CanReadResponse reports whether the principal may see the response. The
// parent ticket is required for user/manager scope and may be nil otherwise.
func CanReadResponse(p domain.Principal, r *domain.TicketResponse, parent *domain.Ticket) bool {
	pred, ok := responseRead[p.Role]
	return ok && pred(p, r, parent)
}

// CanModifyResponse reports whether the principal may update or delete the
// response. Strictly author-only, regardless of role — even an admin cannot
// edit another's response.
func CanModifyResponse(p domain.Principal, r *domain.TicketResponse) bool {
	return r.Author == p.ID
}

// ResponseScope returns the list filter matching the principal's response
// read scope.
func ResponseScope(p domain.Principal) ports.ResponseFilter {
	switch p.Role {
	case domain.RoleTeknis:
		return ports.ResponseFilter{Author: p.ID}
	case domain.RoleUser:
		return ports.ResponseFilter{TicketAuthor: p.ID}
	case domain.RoleManager:
		return ports.ResponseFilter{TicketManager: p.ID}
	default:
		return ports.ResponseFilter{}
	}
}

// CanReadProject reports whether the principal may see the product/project.
// Managers see only projects they are pic for; every other role sees all.
func CanReadProject(p domain.Principal, proj *domain.ProductProject) bool {
	if p.Role == domain.RoleManager {
		return proj.PIC == p.ID
	}
	return true
}

// ProjectScope returns the list filter matching the principal's project read
// scope.
func ProjectScope(p domain.Principal) ports.ProjectFilter {
	if p.Role == domain.RoleManager {
		return ports.ProjectFilter{PIC: p.ID}
	}
	return ports.ProjectFilter{}
}
