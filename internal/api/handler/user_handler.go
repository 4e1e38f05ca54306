package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogplatform/blog-api/internal/core/ports"
)

// UserHandler serves the caller's profile and role administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me returns the profile of the authenticated caller.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	u, err := h.service.Profile(c.Request().Context(), p.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// SetRoles replaces the role set of a user.
//
// @Summary      Replace a user's roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string        true  "Username"
// @Param        body      body      rolesRequest  true  "New role set"
// @Success      200       {object}  userResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      403       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /api/users/{username}/roles [put]
func (h *UserHandler) SetRoles(c echo.Context) error {
	var req rolesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.service.SetRoles(c.Request().Context(), c.Param("username"), req.Roles)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}
