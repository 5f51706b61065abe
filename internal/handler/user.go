package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lease-reservation/internal/service"
)

// UserHandler exposes account management for authenticated users.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	if users == nil {
		panic("nil user service passed to NewUserHandler")
	}
	return &UserHandler{Users: users}
}

// Delete removes the caller's own account. Accounts with existing
// reservations cannot be deleted.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, actorFrom(c), id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
