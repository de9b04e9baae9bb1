package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/policy"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// ResponseService is the ticket response gate: one response per ticket, and
// creating it closes the parent ticket atomically.
type ResponseService struct {
	responses ports.ResponseRepository
	tickets   ports.TicketRepository
	sink      ports.AuditSink
	logger    zerolog.Logger
}

func NewResponseService(
	responses ports.ResponseRepository,
	tickets ports.TicketRepository,
	sink ports.AuditSink,
	logger zerolog.Logger,
) *ResponseService {
	return &ResponseService{
		responses: responses,
		tickets:   tickets,
		sink:      sink,
		logger:    logger,
	}
}

// Create posts the closing response on a ticket. Preconditions, in order:
// the ticket exists; a teknis caller must be the assigned technician; no
// response exists yet. On success the response and the parent's transition to
// done commit together or not at all.
func (s *ResponseService) Create(ctx context.Context, p domain.Principal, input ports.CreateResponseInput) (*domain.TicketResponse, error) {
	if err := validateLink(input.InsertLink); err != nil {
		return nil, err
	}
	if err := validateAttachment(input.Attachment, documentMimeTypes); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.FindByUUID(ctx, input.TicketID)
	if err != nil {
		return nil, err
	}

	if p.Role == domain.RoleTeknis {
		if ticket.AssignedTech == nil || *ticket.AssignedTech != p.ID {
			return nil, domain.ErrForbidden
		}
	}

	if existing, err := s.responses.FindByTicketID(ctx, input.TicketID); err == nil && existing != nil {
		return nil, domain.ErrResponseExists
	} else if err != nil && !errors.Is(err, domain.ErrResponseNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &domain.TicketResponse{
		UUID:        uuid.New().String(),
		TicketID:    input.TicketID,
		Author:      p.ID,
		InsertLink:  input.InsertLink,
		Description: input.Description,
		Attachment:  input.Attachment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The response and the ticket closure are a single transaction; a
	// response must never exist alongside a stale ticket status.
	if err := s.responses.CreateAndCloseTicket(ctx, resp, now); err != nil {
		s.logger.Error().Err(err).Str("ticket", input.TicketID).Msg("failed to create response")
		return nil, err
	}

	s.sink.Emit(domain.TicketEvent{
		TicketUUID: input.TicketID,
		Actor:      p.ID,
		ActorRole:  p.Role,
		Action:     domain.ActionResponded,
		Status:     domain.StatusDone,
		Timestamp:  now,
	})

	s.logger.Info().
		Str("response", resp.UUID).
		Str("ticket", input.TicketID).
		Str("author", p.ID).
		Msg("response created, ticket closed")

	return resp, nil
}

// List returns the responses in the principal's scope: admin all, teknis
// own-authored, user and manager transitively through their tickets.
func (s *ResponseService) List(ctx context.Context, p domain.Principal) ([]*domain.TicketResponse, error) {
	return s.responses.List(ctx, policy.ResponseScope(p))
}

// Get returns a single response, resolving scope through the parent ticket
// where the role requires it.
func (s *ResponseService) Get(ctx context.Context, p domain.Principal, id string) (*domain.TicketResponse, error) {
	resp, err := s.responses.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	parent, err := s.parentFor(ctx, p, resp)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadResponse(p, resp, parent) {
		return nil, domain.ErrForbidden
	}
	return resp, nil
}

// GetByTicket returns the response attached to a ticket, if any.
func (s *ResponseService) GetByTicket(ctx context.Context, p domain.Principal, ticketID string) (*domain.TicketResponse, error) {
	ticket, err := s.tickets.FindByUUID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	resp, err := s.responses.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadResponse(p, resp, ticket) {
		return nil, domain.ErrForbidden
	}
	return resp, nil
}

// Patch updates a response. Author-only, with no admin override.
func (s *ResponseService) Patch(ctx context.Context, p domain.Principal, id string, input ports.PatchResponseInput) error {
	resp, err := s.responses.FindByUUID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanModifyResponse(p, resp) {
		return domain.ErrForbidden
	}

	set := map[string]any{}
	if input.InsertLink != nil {
		if err := validateLink(*input.InsertLink); err != nil {
			return err
		}
		set["insert_link"] = *input.InsertLink
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Attachment != nil {
		if err := validateAttachment(input.Attachment, documentMimeTypes); err != nil {
			return err
		}
		set["attachment"] = input.Attachment
	}
	if len(set) == 0 {
		return domain.ErrNoChange
	}
	set["updated_at"] = time.Now().UTC()

	modified, err := s.responses.Update(ctx, id, set)
	if err != nil {
		return err
	}
	if modified == 0 {
		return domain.ErrNoChange
	}
	return nil
}

// Delete removes a response. Author-only.
func (s *ResponseService) Delete(ctx context.Context, p domain.Principal, id string) error {
	resp, err := s.responses.FindByUUID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanModifyResponse(p, resp) {
		return domain.ErrForbidden
	}
	return s.responses.Delete(ctx, id)
}

// Attachment returns the response's inline attachment for download.
func (s *ResponseService) Attachment(ctx context.Context, p domain.Principal, id string) (*domain.Attachment, error) {
	resp, err := s.responses.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	parent, err := s.parentFor(ctx, p, resp)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadResponse(p, resp, parent) {
		return nil, domain.ErrForbidden
	}
	if resp.Attachment == nil {
		return nil, domain.ErrAttachmentNotFound
	}
	return resp.Attachment, nil
}

// parentFor loads the parent ticket when the caller's role scopes through it.
// Admin and teknis scope does not depend on the parent, so the lookup is
// skipped.
func (s *ResponseService) parentFor(ctx context.Context, p domain.Principal, resp *domain.TicketResponse) (*domain.Ticket, error) {
	if p.Role != domain.RoleUser && p.Role != domain.RoleManager {
		return nil, nil
	}
	parent, err := s.tickets.FindByUUID(ctx, resp.TicketID)
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			// Orphaned response: out of everyone's transitive scope.
			return nil, nil
		}
		return nil, err
	}
	return parent, nil
}

// validateLink requires an absolute http(s) URL.
func validateLink(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: insert_link must be a valid URL", domain.ErrValidation)
	}
	return nil
}
