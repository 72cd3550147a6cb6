package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawmarket/marketplace-api/internal/core/ports"
)

// UserHandler exposes admin user management.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns every user without credentials.
//
// @Summary   List users
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}   userProjection
// @Failure   403  {object}  errorResponse
// @Router    /users [get]
func (h *UserHandler) List(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}
	users, err := h.service.List(c.Request().Context(), claim)
	if err != nil {
		return err
	}

	out := make([]userProjection, 0, len(users))
	for _, u := range users {
		out = append(out, projectUser(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete removes a user that no longer owns listings or appointments.
//
// @Summary   Delete a user
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "User ID"
// @Success   200  {object}  messageResponse
// @Failure   400  {object}  errorResponse
// @Failure   403  {object}  errorResponse
// @Failure   404  {object}  errorResponse
// @Failure   409  {object}  errorResponse
// @Router    /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), claim, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted"})
}
