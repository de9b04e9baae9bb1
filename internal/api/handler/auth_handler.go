package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/helpdeskhq/helpdesk-api/internal/api/middleware"
	"github.com/helpdeskhq/helpdesk-api/internal/core/domain"
	"github.com/helpdeskhq/helpdesk-api/internal/core/ports"
)

// AuthHandler handles login, logout, and the self-service profile.
type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout revokes the caller's token until its natural expiry.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	tokenID, _ := c.Get(middleware.CtxTokenID).(string)
	expiresAt, _ := c.Get(middleware.CtxTokenExp).(time.Time)
	if tokenID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "token missing revocation id")
	}

	if err := h.service.Logout(c.Request().Context(), tokenID, expiresAt); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the caller's own profile.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.service.Me(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// PatchMe updates the caller's own profile. Role changes are rejected.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      patchUserRequest  true  "Fields to update"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/me [patch]
func (h *AuthHandler) PatchMe(c echo.Context) error {
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

	if err := h.service.PatchMe(c.Request().Context(), p, ports.PatchUserInput{
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
	return c.JSON(http.StatusOK, map[string]string{"message": "profile updated"})
}
