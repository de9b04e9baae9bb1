package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/policy"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// TicketService is the ticket lifecycle engine. All authorization and
// transition validation happens here, before the repository is asked to
// commit anything.
type TicketService struct {
	tickets  ports.TicketRepository
	users    ports.UserRepository
	projects ports.ProjectRepository
	audits   ports.AuditRepository
	sink     ports.AuditSink
	logger   zerolog.Logger
}

func NewTicketService(
	tickets ports.TicketRepository,
	users ports.UserRepository,
	projects ports.ProjectRepository,
	audits ports.AuditRepository,
	sink ports.AuditSink,
	logger zerolog.Logger,
) *TicketService {
	return &TicketService{
		tickets:  tickets,
		users:    users,
		projects: projects,
		audits:   audits,
		sink:     sink,
		logger:   logger,
	}
}

// List returns the tickets in the principal's read scope.
func (s *TicketService) List(ctx context.Context, p domain.Principal) ([]*domain.Ticket, error) {
	return s.tickets.List(ctx, policy.TicketScope(p))
}

// Get returns a single ticket. Out-of-scope existing tickets are Forbidden,
// never NotFound.
func (s *TicketService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadTicket(p, ticket) {
		return nil, domain.ErrForbidden
	}
	return ticket, nil
}

// Create files a new ticket. The assigned manager is always derived from the
// project's pic; the client never chooses it.
func (s *TicketService) Create(ctx context.Context, p domain.Principal, input ports.CreateTicketInput) (*domain.Ticket, error) {
	name := strings.TrimSpace(input.NameIssue)
	if len(name) < 3 || len(name) > 100 {
		return nil, fmt.Errorf("%w: name_issue must be 3-100 characters", domain.ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if input.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due_date is required", domain.ErrValidation)
	}

	priority, ok := domain.ParseTicketPriority(input.Priority)
	if !ok {
		return nil, fmt.Errorf("%w: priority must be one of low, medium, high", domain.ErrValidation)
	}
	issueType, ok := domain.ParseIssueType(strings.ToLower(input.IssueType))
	if !ok {
		return nil, fmt.Errorf("%w: issue type must be either 'product' or 'project'", domain.ErrValidation)
	}

	status := domain.StatusToDo
	if input.Status != "" {
		status, ok = domain.ParseTicketStatus(input.Status)
		if !ok {
			return nil, fmt.Errorf("%w: invalid status value", domain.ErrValidation)
		}
	}

	if err := validateAttachment(input.Attachment, documentMimeTypes); err != nil {
		return nil, err
	}

	project, err := s.projects.FindByUUID(ctx, input.ProductProjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		UUID:             uuid.New().String(),
		NameIssue:        name,
		Description:      input.Description,
		Status:           status,
		Priority:         priority,
		IssueType:        issueType,
		ProductProjectID: project.UUID,
		Author:           p.ID,
		AssignedManager:  project.PIC,
		DueDate:          input.DueDate,
		AttachmentLink:   input.AttachmentLink,
		Attachment:       input.Attachment,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if status == domain.StatusDone {
		ticket.IssueFixedDate = &now
	}

	if input.AssignedTech != nil {
		if !policy.CanAssignTech(p.Role) {
			return nil, domain.ErrForbidden
		}
		if err := s.requireTeknis(ctx, *input.AssignedTech); err != nil {
			return nil, err
		}
		ticket.AssignedTech = input.AssignedTech
		ticket.StartDate = &now
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error().Err(err).Msg("failed to create ticket")
		return nil, err
	}

	s.sink.Emit(domain.TicketEvent{
		TicketUUID: ticket.UUID,
		Actor:      p.ID,
		ActorRole:  p.Role,
		Action:     domain.ActionCreated,
		Status:     ticket.Status,
		Timestamp:  now,
	})

	s.logger.Info().
		Str("ticket", ticket.UUID).
		Str("author", p.ID).
		Str("priority", string(priority)).
		Msg("ticket created")

	return ticket, nil
}

// Patch applies a status/assignment update per the role rules: admin and
// manager may set both fields, teknis status only, user neither. Side
// effects: the first nil→non-nil tech assignment stamps start_date; any
// transition to done stamps issue_fixed_date; leaving done clears it.
func (s *TicketService) Patch(ctx context.Context, p domain.Principal, id string, input ports.PatchTicketInput) error {
	ticket, err := s.tickets.FindByUUID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanUpdateTicket(p, ticket) {
		return domain.ErrForbidden
	}

	now := time.Now().UTC()
	set := map[string]any{}
	assigned := false

	if input.AssignedTech != nil && policy.CanAssignTech(p.Role) {
		if err := s.requireTeknis(ctx, *input.AssignedTech); err != nil {
			return err
		}
		set["assigned_tech"] = *input.AssignedTech
		assigned = ticket.AssignedTech == nil || *ticket.AssignedTech != *input.AssignedTech
		// start_date is stamped exactly once and never overwritten by a
		// later reassignment.
		if ticket.AssignedTech == nil {
			set["start_date"] = now
		}
	}

	if p.Role == domain.RoleTeknis && input.Status == nil {
		return fmt.Errorf("%w: technicians must provide a status to update", domain.ErrValidation)
	}

	if input.Status != nil && policy.CanSetStatus(p.Role) {
		status, ok := domain.ParseTicketStatus(*input.Status)
		if !ok {
			return fmt.Errorf("%w: invalid status value", domain.ErrValidation)
		}
		if status != ticket.Status {
			set["status"] = string(status)
			if status == domain.StatusDone {
				set["issue_fixed_date"] = now
			} else if ticket.IssueFixedDate != nil {
				// Re-opening a done ticket is permitted; the fixed date goes
				// with it.
				set["issue_fixed_date"] = nil
			}
		}
	}

	if len(set) == 0 {
		return domain.ErrNoChange
	}
	set["updated_at"] = now

	modified, err := s.tickets.Update(ctx, id, set)
	if err != nil {
		s.logger.Error().Err(err).Str("ticket", id).Msg("failed to patch ticket")
		return err
	}
	if modified == 0 {
		return domain.ErrNoChange
	}

	action := domain.ActionUpdated
	if assigned {
		action = domain.ActionAssigned
	}
	event := domain.TicketEvent{
		TicketUUID: id,
		Actor:      p.ID,
		ActorRole:  p.Role,
		Action:     action,
		Timestamp:  now,
	}
	if st, ok := set["status"].(string); ok {
		event.Status = domain.TicketStatus(st)
	}
	s.sink.Emit(event)

	s.logger.Info().Str("ticket", id).Str("actor", p.ID).Msg("ticket patched")
	return nil
}

// Delete removes a ticket: admins any, users their own authored tickets.
func (s *TicketService) Delete(ctx context.Context, p domain.Principal, id string) error {
	ticket, err := s.tickets.FindByUUID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteTicket(p, ticket) {
		return domain.ErrForbidden
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return err
	}

	s.sink.Emit(domain.TicketEvent{
		TicketUUID: id,
		Actor:      p.ID,
		ActorRole:  p.Role,
		Action:     domain.ActionDeleted,
		Timestamp:  time.Now().UTC(),
	})
	return nil
}

// Attachment returns the ticket's inline attachment for download.
func (s *TicketService) Attachment(ctx context.Context, p domain.Principal, id string) (*domain.Attachment, error) {
	ticket, err := s.tickets.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadTicket(p, ticket) {
		return nil, domain.ErrForbidden
	}
	if ticket.Attachment == nil {
		return nil, domain.ErrAttachmentNotFound
	}
	return ticket.Attachment, nil
}

// Events returns the ticket's audit trail. Admin only.
func (s *TicketService) Events(ctx context.Context, p domain.Principal, id string) ([]*domain.TicketEvent, error) {
	if p.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if _, err := s.tickets.FindByUUID(ctx, id); err != nil {
		return nil, err
	}
	return s.audits.ListByTicket(ctx, id)
}

// StatsByPriority returns the scoped ticket count breakdown by priority.
func (s *TicketService) StatsByPriority(ctx context.Context, p domain.Principal) (*ports.PriorityStats, error) {
	scope := policy.TicketScope(p)
	byPriority, err := s.tickets.CountByPriority(ctx, scope)
	if err != nil {
		return nil, err
	}
	total, err := s.tickets.Count(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &ports.PriorityStats{ByPriority: byPriority, Total: total}, nil
}

// StatsByAssignee returns the scoped ticket counts per assigned technician,
// with technician names resolved.
func (s *TicketService) StatsByAssignee(ctx context.Context, p domain.Principal) ([]ports.AssigneeCount, error) {
	counts, err := s.tickets.CountByAssignee(ctx, policy.TicketScope(p))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	names, err := s.users.NamesByUUIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ports.AssigneeCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, ports.AssigneeCount{TechUUID: id, TechName: names[id], Count: n})
	}
	return out, nil
}

// requireTeknis fails with a validation error unless the referenced user
// currently has role teknis. Checked on every assignment, never cached.
func (s *TicketService) requireTeknis(ctx context.Context, userID string) error {
	tech, err := s.users.FindByUUID(ctx, userID)
	if err != nil || tech.Role != domain.RoleTeknis {
		return fmt.Errorf("%w: assigned technician does not exist or is not a 'teknis' user", domain.ErrValidation)
	}
	return nil
}
