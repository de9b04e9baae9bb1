package policy

import (
	"testing"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
)

func strptr(s string) *string { return &s }

func sampleTicket() *domain.Ticket {
	return &domain.Ticket{
		UUID:            "t-1",
		Author:          "user-1",
		AssignedManager: "manager-1",
		AssignedTech:    strptr("teknis-1"),
	}
}

func TestCanReadTicket(t *testing.T) {
	ticket := sampleTicket()

	cases := []struct {
		name string
		p    domain.Principal
		want bool
	}{
		{"admin reads any", domain.Principal{ID: "someone", Role: domain.RoleAdmin}, true},
		{"author reads own", domain.Principal{ID: "user-1", Role: domain.RoleUser}, true},
		{"other user denied", domain.Principal{ID: "user-2", Role: domain.RoleUser}, false},
		{"assigned manager reads", domain.Principal{ID: "manager-1", Role: domain.RoleManager}, true},
		{"other manager denied", domain.Principal{ID: "manager-2", Role: domain.RoleManager}, false},
		{"assigned teknis reads", domain.Principal{ID: "teknis-1", Role: domain.RoleTeknis}, true},
		{"other teknis denied", domain.Principal{ID: "teknis-2", Role: domain.RoleTeknis}, false},
		{"unknown role denied", domain.Principal{ID: "x", Role: "ghost"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanReadTicket(tc.p, ticket); got != tc.want {
				t.Errorf("CanReadTicket = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanReadTicket_UnassignedTech(t *testing.T) {
	ticket := sampleTicket()
	ticket.AssignedTech = nil

	p := domain.Principal{ID: "teknis-1", Role: domain.RoleTeknis}
	if CanReadTicket(p, ticket) {
		t.Error("teknis must not see tickets with no assigned tech")
	}
}

func TestCanUpdateTicket_UserAlwaysDenied(t *testing.T) {
	ticket := sampleTicket()

	// Even the ticket's own author may not patch it; users create only.
	p := domain.Principal{ID: "user-1", Role: domain.RoleUser}
	if CanUpdateTicket(p, ticket) {
		t.Error("user role must not update tickets, even own")
	}
}

func TestCanUpdateTicket_Scopes(t *testing.T) {
	ticket := sampleTicket()

	cases := []struct {
		name string
		p    domain.Principal
		want bool
	}{
		{"admin any", domain.Principal{ID: "a", Role: domain.RoleAdmin}, true},
		{"own manager", domain.Principal{ID: "manager-1", Role: domain.RoleManager}, true},
		{"foreign manager", domain.Principal{ID: "manager-2", Role: domain.RoleManager}, false},
		{"own teknis", domain.Principal{ID: "teknis-1", Role: domain.RoleTeknis}, true},
		{"foreign teknis", domain.Principal{ID: "teknis-2", Role: domain.RoleTeknis}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanUpdateTicket(tc.p, ticket); got != tc.want {
				t.Errorf("CanUpdateTicket = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanDeleteTicket(t *testing.T) {
	ticket := sampleTicket()

	cases := []struct {
		name string
		p    domain.Principal
		want bool
	}{
		{"admin deletes any", domain.Principal{ID: "a", Role: domain.RoleAdmin}, true},
		{"author deletes own", domain.Principal{ID: "user-1", Role: domain.RoleUser}, true},
		{"other user denied", domain.Principal{ID: "user-2", Role: domain.RoleUser}, false},
		{"manager denied", domain.Principal{ID: "manager-1", Role: domain.RoleManager}, false},
		{"teknis denied", domain.Principal{ID: "teknis-1", Role: domain.RoleTeknis}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanDeleteTicket(tc.p, ticket); got != tc.want {
				t.Errorf("CanDeleteTicket = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTicketScope(t *testing.T) {
	admin := TicketScope(domain.Principal{ID: "a", Role: domain.RoleAdmin})
	if admin.Author != "" || admin.AssignedManager != "" || admin.AssignedTech != "" {
		t.Errorf("admin scope must be unrestricted, got %+v", admin)
	}

	user := TicketScope(domain.Principal{ID: "u-1", Role: domain.RoleUser})
	if user.Author != "u-1" {
		t.Errorf("user scope must filter by author, got %+v", user)
	}

	mgr := TicketScope(domain.Principal{ID: "m-1", Role: domain.RoleManager})
	if mgr.AssignedManager != "m-1" {
		t.Errorf("manager scope must filter by assigned_manager, got %+v", mgr)
	}

	tech := TicketScope(domain.Principal{ID: "t-1", Role: domain.RoleTeknis})
	if tech.AssignedTech != "t-1" {
		t.Errorf("teknis scope must filter by assigned_tech, got %+v", tech)
	}
}

func TestCanReadResponse_Transitive(t *testing.T) {
	parent := sampleTicket()
	resp := &domain.TicketResponse{UUID: "r-1", TicketID: parent.UUID, Author: "teknis-1"}

	cases := []struct {
		name string
		p    domain.Principal
		want bool
	}{
		{"admin any", domain.Principal{ID: "a", Role: domain.RoleAdmin}, true},
		{"ticket author via parent", domain.Principal{ID: "user-1", Role: domain.RoleUser}, true},
		{"foreign user denied", domain.Principal{ID: "user-2", Role: domain.RoleUser}, false},
		{"assigned manager via parent", domain.Principal{ID: "manager-1", Role: domain.RoleManager}, true},
		{"foreign manager denied", domain.Principal{ID: "manager-2", Role: domain.RoleManager}, false},
		{"response author teknis", domain.Principal{ID: "teknis-1", Role: domain.RoleTeknis}, true},
		// A teknis assigned to the ticket but not the response author is out
		// of scope: teknis visibility follows authorship, not assignment.
		{"non-author teknis denied", domain.Principal{ID: "teknis-2", Role: domain.RoleTeknis}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanReadResponse(tc.p, resp, parent); got != tc.want {
				t.Errorf("CanReadResponse = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanModifyResponse_AuthorOnly(t *testing.T) {
	resp := &domain.TicketResponse{UUID: "r-1", Author: "teknis-1"}

	if !CanModifyResponse(domain.Principal{ID: "teknis-1", Role: domain.RoleTeknis}, resp) {
		t.Error("author must be allowed to modify own response")
	}
	// No admin override: preserved source behavior.
	if CanModifyResponse(domain.Principal{ID: "root", Role: domain.RoleAdmin}, resp) {
		t.Error("admin must not modify another author's response")
	}
}

func TestCanReadProject(t *testing.T) {
	proj := &domain.ProductProject{UUID: "p-1", PIC: "manager-1"}

	if !CanReadProject(domain.Principal{ID: "manager-1", Role: domain.RoleManager}, proj) {
		t.Error("pic manager must see own project")
	}
	if CanReadProject(domain.Principal{ID: "manager-2", Role: domain.RoleManager}, proj) {
		t.Error("foreign manager must not see the project")
	}
	// No restriction for the remaining roles.
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleUser, domain.RoleTeknis} {
		if !CanReadProject(domain.Principal{ID: "x", Role: role}, proj) {
			t.Errorf("role %s must see all projects", role)
		}
	}
}
