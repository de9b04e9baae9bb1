package service

import (
	"context"
	"time"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// In-memory stand-ins for the mongo repositories, shared across the service
// tests. Update applies the field set so sequential calls observe each
// other's writes, and records every set for assertions.

type memTickets struct {
	byID map[string]*domain.Ticket
	sets []map[string]any
}

func newMemTickets(tickets ...*domain.Ticket) *memTickets {
	m := &memTickets{byID: map[string]*domain.Ticket{}}
	for _, t := range tickets {
		m.byID[t.UUID] = t
	}
	return m
}

func (m *memTickets) Create(_ context.Context, t *domain.Ticket) error {
	m.byID[t.UUID] = t
	return nil
}

func (m *memTickets) FindByUUID(_ context.Context, uuid string) (*domain.Ticket, error) {
	t, ok := m.byID[uuid]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return t, nil
}

func (m *memTickets) List(_ context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	var out []*domain.Ticket
	for _, t := range m.byID {
		if matchTicket(filter, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTickets) Update(_ context.Context, uuid string, set map[string]any) (int64, error) {
	t, ok := m.byID[uuid]
	if !ok {
		return 0, nil
	}
	m.sets = append(m.sets, set)
	if v, ok := set["status"].(string); ok {
		t.Status = domain.TicketStatus(v)
	}
	if v, ok := set["assigned_tech"].(string); ok {
		t.AssignedTech = &v
	}
	if v, ok := set["start_date"].(time.Time); ok {
		t.StartDate = &v
	}
	if v, ok := set["issue_fixed_date"]; ok {
		if ts, ok := v.(time.Time); ok {
			t.IssueFixedDate = &ts
		} else {
			t.IssueFixedDate = nil
		}
	}
	if v, ok := set["updated_at"].(time.Time); ok {
		t.UpdatedAt = v
	}
	return 1, nil
}

func (m *memTickets) Delete(_ context.Context, uuid string) error {
	if _, ok := m.byID[uuid]; !ok {
		return domain.ErrTicketNotFound
	}
	delete(m.byID, uuid)
	return nil
}

func (m *memTickets) Count(ctx context.Context, filter ports.TicketFilter) (int64, error) {
	tickets, _ := m.List(ctx, filter)
	return int64(len(tickets)), nil
}

func (m *memTickets) CountByPriority(ctx context.Context, filter ports.TicketFilter) (map[domain.TicketPriority]int64, error) {
	tickets, _ := m.List(ctx, filter)
	out := map[domain.TicketPriority]int64{}
	for _, t := range tickets {
		out[t.Priority]++
	}
	return out, nil
}

func (m *memTickets) CountByAssignee(ctx context.Context, filter ports.TicketFilter) (map[string]int64, error) {
	tickets, _ := m.List(ctx, filter)
	out := map[string]int64{}
	for _, t := range tickets {
		if t.AssignedTech != nil {
			out[*t.AssignedTech]++
		}
	}
	return out, nil
}

// lastSet returns the most recent update's field set.
func (m *memTickets) lastSet() map[string]any {
	if len(m.sets) == 0 {
		return nil
	}
	return m.sets[len(m.sets)-1]
}

func matchTicket(f ports.TicketFilter, t *domain.Ticket) bool {
	if f.Author != "" && t.Author != f.Author {
		return false
	}
	if f.AssignedManager != "" && t.AssignedManager != f.AssignedManager {
		return false
	}
	if f.AssignedTech != "" && (t.AssignedTech == nil || *t.AssignedTech != f.AssignedTech) {
		return false
	}
	if !f.DueDate.IsZero() {
		y1, m1, d1 := f.DueDate.UTC().Date()
		y2, m2, d2 := t.DueDate.UTC().Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			return false
		}
	}
	return true
}

type memUsers struct {
	byID map[string]*domain.User
	sets []map[string]any
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{byID: map[string]*domain.User{}}
	for _, u := range users {
		m.byID[u.UUID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	m.byID[u.UUID] = u
	return nil
}

func (m *memUsers) FindByUUID(_ context.Context, uuid string) (*domain.User, error) {
	u, ok := m.byID[uuid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) List(_ context.Context, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range m.byID {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, uuid string, set map[string]any) (int64, error) {
	u, ok := m.byID[uuid]
	if !ok {
		return 0, nil
	}
	m.sets = append(m.sets, set)
	if v, ok := set["name"].(string); ok {
		u.Name = v
	}
	if v, ok := set["email"].(string); ok {
		u.Email = v
	}
	if v, ok := set["role"].(string); ok {
		u.Role = domain.Role(v)
	}
	if v, ok := set["password_hash"].(string); ok {
		u.PasswordHash = v
	}
	return 1, nil
}

func (m *memUsers) Delete(_ context.Context, uuid string) error {
	if _, ok := m.byID[uuid]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.byID, uuid)
	return nil
}

func (m *memUsers) Count(_ context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

func (m *memUsers) NamesByUUIDs(_ context.Context, uuids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range uuids {
		if u, ok := m.byID[id]; ok {
			out[id] = u.Name
		}
	}
	return out, nil
}

func (m *memUsers) lastSet() map[string]any {
	if len(m.sets) == 0 {
		return nil
	}
	return m.sets[len(m.sets)-1]
}

type memProjects struct {
	byID map[string]*domain.ProductProject
	sets []map[string]any
}

func newMemProjects(projects ...*domain.ProductProject) *memProjects {
	m := &memProjects{byID: map[string]*domain.ProductProject{}}
	for _, p := range projects {
		m.byID[p.UUID] = p
	}
	return m
}

func (m *memProjects) Create(_ context.Context, p *domain.ProductProject) error {
	m.byID[p.UUID] = p
	return nil
}

func (m *memProjects) FindByUUID(_ context.Context, uuid string) (*domain.ProductProject, error) {
	p, ok := m.byID[uuid]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return p, nil
}

func (m *memProjects) List(_ context.Context, filter ports.ProjectFilter) ([]*domain.ProductProject, error) {
	var out []*domain.ProductProject
	for _, p := range m.byID {
		if filter.PIC == "" || p.PIC == filter.PIC {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProjects) Update(_ context.Context, uuid string, set map[string]any) (int64, error) {
	p, ok := m.byID[uuid]
	if !ok {
		return 0, nil
	}
	m.sets = append(m.sets, set)
	if v, ok := set["name"].(string); ok {
		p.Name = v
	}
	if v, ok := set["pic"].(string); ok {
		p.PIC = v
	}
	return 1, nil
}

func (m *memProjects) Delete(_ context.Context, uuid string) error {
	if _, ok := m.byID[uuid]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(m.byID, uuid)
	return nil
}

func (m *memProjects) Count(ctx context.Context, filter ports.ProjectFilter) (int64, error) {
	projects, _ := m.List(ctx, filter)
	return int64(len(projects)), nil
}

func (m *memProjects) NamesByUUIDs(_ context.Context, uuids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range uuids {
		if p, ok := m.byID[id]; ok {
			out[id] = p.Name
		}
	}
	return out, nil
}

// memResponses shares the ticket store so CreateAndCloseTicket can flip the
// parent ticket the way the real transaction does.
type memResponses struct {
	byID    map[string]*domain.TicketResponse
	tickets *memTickets
	sets    []map[string]any
}

func newMemResponses(tickets *memTickets, responses ...*domain.TicketResponse) *memResponses {
	m := &memResponses{byID: map[string]*domain.TicketResponse{}, tickets: tickets}
	for _, r := range responses {
		m.byID[r.UUID] = r
	}
	return m
}

func (m *memResponses) FindByUUID(_ context.Context, uuid string) (*domain.TicketResponse, error) {
	r, ok := m.byID[uuid]
	if !ok {
		return nil, domain.ErrResponseNotFound
	}
	return r, nil
}

func (m *memResponses) FindByTicketID(_ context.Context, ticketUUID string) (*domain.TicketResponse, error) {
	for _, r := range m.byID {
		if r.TicketID == ticketUUID {
			return r, nil
		}
	}
	return nil, domain.ErrResponseNotFound
}

func (m *memResponses) List(ctx context.Context, filter ports.ResponseFilter) ([]*domain.TicketResponse, error) {
	var out []*domain.TicketResponse
	for _, r := range m.byID {
		if filter.Author != "" && r.Author != filter.Author {
			continue
		}
		if filter.TicketAuthor != "" || filter.TicketManager != "" {
			parent, err := m.tickets.FindByUUID(ctx, r.TicketID)
			if err != nil {
				continue
			}
			if filter.TicketAuthor != "" && parent.Author != filter.TicketAuthor {
				continue
			}
			if filter.TicketManager != "" && parent.AssignedManager != filter.TicketManager {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memResponses) CreateAndCloseTicket(ctx context.Context, r *domain.TicketResponse, closedAt time.Time) error {
	if _, err := m.tickets.FindByUUID(ctx, r.TicketID); err != nil {
		return err
	}
	m.byID[r.UUID] = r
	_, err := m.tickets.Update(ctx, r.TicketID, map[string]any{
		"status":           string(domain.StatusDone),
		"issue_fixed_date": closedAt,
		"updated_at":       closedAt,
	})
	return err
}

func (m *memResponses) Update(_ context.Context, uuid string, set map[string]any) (int64, error) {
	r, ok := m.byID[uuid]
	if !ok {
		return 0, nil
	}
	m.sets = append(m.sets, set)
	if v, ok := set["insert_link"].(string); ok {
		r.InsertLink = v
	}
	if v, ok := set["description"].(string); ok {
		r.Description = v
	}
	return 1, nil
}

func (m *memResponses) Delete(_ context.Context, uuid string) error {
	if _, ok := m.byID[uuid]; !ok {
		return domain.ErrResponseNotFound
	}
	delete(m.byID, uuid)
	return nil
}

type memAudits struct {
	events []*domain.TicketEvent
}

func (m *memAudits) Insert(_ context.Context, event *domain.TicketEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *memAudits) ListByTicket(_ context.Context, ticketUUID string) ([]*domain.TicketEvent, error) {
	var out []*domain.TicketEvent
	for _, e := range m.events {
		if e.TicketUUID == ticketUUID {
			out = append(out, e)
		}
	}
	return out, nil
}

// recordSink captures emitted audit events synchronously.
type recordSink struct {
	events []domain.TicketEvent
}

func (s *recordSink) Emit(event domain.TicketEvent) {
	s.events = append(s.events, event)
}

type memDenylist struct {
	revoked map[string]time.Duration
}

func newMemDenylist() *memDenylist {
	return &memDenylist{revoked: map[string]time.Duration{}}
}

func (m *memDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.revoked[tokenID] = ttl
	return nil
}

func (m *memDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func strPtr(s string) *string { return &s }
