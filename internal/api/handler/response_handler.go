package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/helpdesk-api/internal/api/metrics"
	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// ResponseHandler handles HTTP requests for ticket responses.
type ResponseHandler struct {
	service ports.ResponseService
}

func NewResponseHandler(service ports.ResponseService) *ResponseHandler {
	return &ResponseHandler{service: service}
}

type createResponseRequest struct {
	TicketID    string `json:"ticket_id" form:"ticket_id" validate:"required"`
	InsertLink  string `json:"insert_link" form:"insert_link" validate:"required,url"`
	Description string `json:"description" form:"description"`
}

type patchResponseRequest struct {
	InsertLink  *string `json:"insert_link" form:"insert_link"`
	Description *string `json:"description" form:"description"`
}

// Create handles POST /v1/ticket-responses. Posting a response closes the
// parent ticket in the same transaction.
//
// @Summary      Post the closing response on a ticket
// @Tags         responses
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createResponseRequest  true  "Response details"
// @Success      201   {object}  domain.TicketResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/ticket-responses [post]
func (h *ResponseHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	attachment, err := formAttachment(c, "attachment")
	if err != nil {
		return err
	}

	resp, err := h.service.Create(c.Request().Context(), p, ports.CreateResponseInput{
		TicketID:    req.TicketID,
		InsertLink:  req.InsertLink,
		Description: req.Description,
		Attachment:  attachment,
	})
	if err != nil {
		return countDenied("response", p, err)
	}

	metrics.ResponsesCreatedTotal.Inc()
	metrics.TicketTransitionsTotal.WithLabelValues(string(domain.StatusDone)).Inc()
	return c.JSON(http.StatusCreated, resp)
}

// List handles GET /v1/ticket-responses.
//
// @Summary      List responses in the caller's scope
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /v1/ticket-responses [get]
func (h *ResponseHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	responses, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse[*domain.TicketResponse]{Data: responses, Count: len(responses)})
}

// Get handles GET /v1/ticket-responses/:uuid.
//
// @Summary      Get a response
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string  true  "Response UUID"
// @Success      200   {object}  domain.TicketResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/ticket-responses/{uuid} [get]
func (h *ResponseHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	resp, err := h.service.Get(c.Request().Context(), p, c.Param("uuid"))
	if err != nil {
		return countDenied("response", p, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByTicket handles GET /v1/tickets/:uuid/response.
//
// @Summary      Get the response attached to a ticket
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string  true  "Ticket UUID"
// @Success      200   {object}  domain.TicketResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/tickets/{uuid}/response [get]
func (h *ResponseHandler) GetByTicket(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	resp, err := h.service.GetByTicket(c.Request().Context(), p, c.Param("uuid"))
	if err != nil {
		return countDenied("response", p, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Patch handles PATCH /v1/ticket-responses/:uuid. Author-only.
//
// @Summary      Update a response
// @Tags         responses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string                true  "Response UUID"
// @Param        body  body      patchResponseRequest  true  "Fields to update"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/ticket-responses/{uuid} [patch]
func (h *ResponseHandler) Patch(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req patchResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	attachment, err := formAttachment(c, "attachment")
	if err != nil {
		return err
	}

	if err := h.service.Patch(c.Request().Context(), p, c.Param("uuid"), ports.PatchResponseInput{
		InsertLink:  req.InsertLink,
		Description: req.Description,
		Attachment:  attachment,
	}); err != nil {
		return countDenied("response", p, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "response updated"})
}

// Delete handles DELETE /v1/ticket-responses/:uuid. Author-only.
//
// @Summary      Delete a response
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path  string  true  "Response UUID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/ticket-responses/{uuid} [delete]
func (h *ResponseHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("uuid")); err != nil {
		return countDenied("response", p, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Attachment handles GET /v1/ticket-responses/:uuid/attachment.
//
// @Summary      Download a response's inline attachment
// @Tags         responses
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        uuid  path  string  true  "Response UUID"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/ticket-responses/{uuid}/attachment [get]
func (h *ResponseHandler) Attachment(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	attachment, err := h.service.Attachment(c.Request().Context(), p, c.Param("uuid"))
	if err != nil {
		return countDenied("response", p, err)
	}
	return serveAttachment(c, attachment)
}
