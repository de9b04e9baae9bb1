package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/helpdesk-api/internal/api/metrics"
	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// TicketHandler handles HTTP requests for ticket operations.
type TicketHandler struct {
	service ports.TicketService
}

func NewTicketHandler(service ports.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

// countDenied feeds the access-denied counter and passes the error through.
func countDenied(entity string, p domain.Principal, err error) error {
	if errors.Is(err, domain.ErrForbidden) {
		metrics.AccessDeniedTotal.WithLabelValues(entity, string(p.Role)).Inc()
	}
	return err
}

// List handles GET /v1/tickets.
//
// @Summary      List tickets in the caller's scope
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Router       /v1/tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse[*domain.Ticket]{Data: tickets, Count: len(tickets)})
}

// Get handles GET /v1/tickets/:uuid.
//
// @Summary      Get a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string  true  "Ticket UUID"
// @Success      200   {object}  domain.Ticket
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/tickets/{uuid} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Get(c.Request().Context(), p, c.Param("uuid"))
	if err != nil {
		return countDenied("ticket", p, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

// Create handles POST /v1/tickets. Accepts JSON or multipart/form-data; the
// multipart form may carry an inline "attachment" file.
//
// @Summary      File a new ticket
// @Tags         tickets
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTicketRequest  true  "Ticket details"
// @Success      201   {object}  domain.Ticket
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/tickets [post]
func (h *TicketHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date must be formatted as YYYY-MM-DD")
	}
	attachment, err := formAttachment(c, "attachment")
	if err != nil {
		return err
	}

	ticket, err := h.service.Create(c.Request().Context(), p, ports.CreateTicketInput{
		NameIssue:        req.NameIssue,
		Description:      req.Description,
		Status:           req.Status,
		Priority:         req.Priority,
		IssueType:        req.IssueType,
		DueDate:          dueDate,
		ProductProjectID: req.ProductProjectID,
		AssignedTech:     req.AssignedTech,
		AttachmentLink:   req.AttachmentLink,
		Attachment:       attachment,
	})
	if err != nil {
		return countDenied("ticket", p, err)
	}

	metrics.TicketsCreatedTotal.WithLabelValues(string(ticket.Priority)).Inc()
	return c.JSON(http.StatusCreated, ticket)
}

// Patch handles PATCH /v1/tickets/:uuid.
//
// @Summary      Update a ticket's status or assignment
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string              true  "Ticket UUID"
// @Param        body  body      patchTicketRequest  true  "Fields to update"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/tickets/{uuid} [patch]
func (h *TicketHandler) Patch(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req patchTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.service.Patch(c.Request().Context(), p, c.Param("uuid"), ports.PatchTicketInput{
		Status:       req.Status,
		AssignedTech: req.AssignedTech,
	}); err != nil {
		return countDenied("ticket", p, err)
	}

	if req.Status != nil {
		metrics.TicketTransitionsTotal.WithLabelValues(*req.Status).Inc()
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "ticket updated"})
}

// Delete handles DELETE /v1/tickets/:uuid.
//
// @Summary      Delete a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path  string  true  "Ticket UUID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/tickets/{uuid} [delete]
func (h *TicketHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("uuid")); err != nil {
		return countDenied("ticket", p, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Attachment handles GET /v1/tickets/:uuid/attachment.
//
// @Summary      Download a ticket's inline attachment
// @Tags         tickets
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        uuid  path  string  true  "Ticket UUID"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/tickets/{uuid}/attachment [get]
func (h *TicketHandler) Attachment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	attachment, err := h.service.Attachment(c.Request().Context(), p, c.Param("uuid"))
	if err != nil {
		return countDenied("ticket", p, err)
	}
	return serveAttachment(c, attachment)
}

// Events handles GET /v1/tickets/:uuid/events — the audit trail.
//
// @Summary      List a ticket's audit events
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string  true  "Ticket UUID"
// @Success      200   {object}  map[string]any
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/tickets/{uuid}/events [get]
func (h *TicketHandler) Events(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	events, err := h.service.Events(c.Request().Context(), p, c.Param("uuid"))
	if err != nil {
		return countDenied("ticket", p, err)
	}
	return c.JSON(http.StatusOK, listResponse[*domain.TicketEvent]{Data: events, Count: len(events)})
}

// StatsPriority handles GET /v1/tickets/stats/priority.
//
// @Summary      Scoped ticket counts by priority
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  priorityStatsResponse
// @Router       /v1/tickets/stats/priority [get]
func (h *TicketHandler) StatsPriority(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	stats, err := h.service.StatsByPriority(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, priorityStatsResponse{
		Low:    stats.ByPriority[domain.PriorityLow],
		Medium: stats.ByPriority[domain.PriorityMedium],
		High:   stats.ByPriority[domain.PriorityHigh],
		Total:  stats.Total,
	})
}

// StatsAssignee handles GET /v1/tickets/stats/assignee.
//
// @Summary      Scoped ticket counts per assigned technician
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /v1/tickets/stats/assignee [get]
func (h *TicketHandler) StatsAssignee(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	counts, err := h.service.StatsByAssignee(c.Request().Context(), p)
	if err != nil {
		return err
	}
	items := make([]assigneeStatsItem, 0, len(counts))
	for _, row := range counts {
		items = append(items, assigneeStatsItem{TechUUID: row.TechUUID, TechName: row.TechName, Count: row.Count})
	}
	return c.JSON(http.StatusOK, listResponse[assigneeStatsItem]{Data: items, Count: len(items)})
}
