package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// UserHandler handles HTTP requests for account administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Name            string `json:"name" form:"name" validate:"required,min=3,max=100"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `json:"role" form:"role" validate:"required,oneof=admin user manager teknis"`
	Phone           string `json:"phone" form:"phone"`
}

type patchUserRequest struct {
	Name            *string `json:"name" form:"name"`
	Email           *string `json:"email" form:"email"`
	Password        *string `json:"password" form:"password"`
	ConfirmPassword *string `json:"confirm_password" form:"confirm_password"`
	Role            *string `json:"role" form:"role"`
	Phone           *string `json:"phone" form:"phone"`
}

// List handles GET /v1/users. The optional role query parameter narrows the
// listing; ?role=teknis is also open to managers.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  false  "Filter by role"
// @Success      200   {object}  map[string]any
// @Failure      403   {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var users []*domain.User
	if roleStr := c.QueryParam("role"); roleStr != "" {
		role, ok := domain.ParseRole(roleStr)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
		}
		users, err = h.service.ListByRole(c.Request().Context(), p, role)
	} else {
		users, err = h.service.List(c.Request().Context(), p)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse[*domain.User]{Data: users, Count: len(users)})
}

func (h *UserHandler) listByRole(c echo.Context, role domain.Role) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	users, err := h.service.ListByRole(c.Request().Context(), p, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse[*domain.User]{Data: users, Count: len(users)})
}

// ListTeknis handles GET /v1/users/teknis, the assignment candidate listing
// managers use when routing a ticket.
//
// @Summary      List technicians
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Router       /v1/users/teknis [get]
func (h *UserHandler) ListTeknis(c echo.Context) error {
	return h.listByRole(c, domain.RoleTeknis)
}

// ListManagers handles GET /v1/users/manager.
//
// @Summary      List managers
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]string
// @Router       /v1/users/manager [get]
func (h *UserHandler) ListManagers(c echo.Context) error {
	return h.listByRole(c, domain.RoleManager)
}

// Get handles GET /v1/users/:uuid.
//
// @Summary      Get an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string  true  "User UUID"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{uuid} [get]
func (h *UserHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), p, c.Param("uuid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create handles POST /v1/users.
//
// @Summary      Register a new account
// @Tags         users
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createUserRequest
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

	user, err := h.service.Create(c.Request().Context(), p, ports.CreateUserInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
		Phone:           req.Phone,
		Picture:         picture,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Patch handles PATCH /v1/users/:uuid.
//
// @Summary      Update an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path      string            true  "User UUID"
// @Param        body  body      patchUserRequest  true  "Fields to update"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{uuid} [patch]
func (h *UserHandler) Patch(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req patchUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	picture, err := formAttachment(c, "profile_picture")
	if err != nil {
		return err
	}

	if err := h.service.Patch(c.Request().Context(), p, c.Param("uuid"), ports.PatchUserInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
		Phone:           req.Phone,
		Picture:         picture,
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user updated"})
}

// Delete handles DELETE /v1/users/:uuid.
//
// @Summary      Delete an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        uuid  path  string  true  "User UUID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{uuid} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("uuid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Count handles GET /v1/users/count.
//
// @Summary      Count accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Failure      403  {object}  map[string]string
// @Router       /v1/users/count [get]
func (h *UserHandler) Count(c echo.Context) error {
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
