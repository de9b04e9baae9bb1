package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// ProjectHandler handles HTTP requests for product/project operations.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type createProjectRequest struct {
	Name        string `json:"name" form:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" form:"description" validate:"required"`
	IssueType   string `json:"issue_type" form:"issue_type" validate:"required"`
	PIC         string `json:"pic" form:"pic" validate:"required"`
}

type patchProjectRequest struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
	IssueType   *string `json:"issue_type" form:"issue_type"`
	PIC         *string `json:"pic" form:"pic"`
}

// List handles GET /v1/projects.
//
// @Summary      List products/projects in the caller's scope
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	projects, err := h.service.List(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse[*domain.ProductProject]{Data: projects, Count: len(projects)})
}

// Get handles GET /v1/projects/:uuid.
//
// @Summary      Get a product/project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string  true  "Project UUID"
// @Success      200   {object}  domain.ProductProject
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/projects/{uuid} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	project, err := h.service.Get(c.Request().Context(), p, c.Param("uuid"))
	if err != nil {
		return countDenied("project", p, err)
	}
	return c.JSON(http.StatusOK, project)
}

// Create handles POST /v1/projects.
//
// @Summary      Register a new product/project
// @Tags         projects
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  domain.ProductProject
// @Failure      400   {object}  map[string]string
// @Router       /v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	picture, err := formAttachment(c, "profile_picture")
	if err != nil {
		return err
	}

	project, err := h.service.Create(c.Request().Context(), p, ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		IssueType:   req.IssueType,
		PIC:         req.PIC,
		Picture:     picture,
	})
	if err != nil {
		return countDenied("project", p, err)
	}
	return c.JSON(http.StatusCreated, project)
}

// Patch handles PATCH /v1/projects/:uuid.
//
// @Summary      Update a product/project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string               true  "Project UUID"
// @Param        body  body      patchProjectRequest  true  "Fields to update"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/projects/{uuid} [patch]
func (h *ProjectHandler) Patch(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req patchProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	picture, err := formAttachment(c, "profile_picture")
	if err != nil {
		return err
	}

	if err := h.service.Patch(c.Request().Context(), p, c.Param("uuid"), ports.PatchProjectInput{
		Name:        req.Name,
		Description: req.Description,
		IssueType:   req.IssueType,
		PIC:         req.PIC,
		Picture:     picture,
	}); err != nil {
		return countDenied("project", p, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "project updated"})
}

// Delete handles DELETE /v1/projects/:uuid.
//
// @Summary      Delete a product/project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path  string  true  "Project UUID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/projects/{uuid} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("uuid")); err != nil {
		return countDenied("project", p, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Count handles GET /v1/projects/count.
//
// @Summary      Count products/projects in the caller's scope
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /v1/projects/count [get]
func (h *ProjectHandler) Count(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	n, err := h.service.Count(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": n})
}
