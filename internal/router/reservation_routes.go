package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lease-reservation/internal/handler"
	"github.com/iliyamo/lease-reservation/internal/middleware"
)

// RegisterReservations registers the reservation lifecycle endpoints.
// All routes require a valid JWT and the CUSTOMER role; ownership of
// the individual reservation is enforced in the service layer.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.POST("/reservations", h.Create)
	g.GET("/reservations/:id", h.Get)
	g.POST("/reservations/:id/confirm", h.Confirm)
	g.POST("/reservations/:id/cancel", h.Cancel)
	g.GET("/my-reservations", h.ListMine)
}

// RegisterUsers registers account management routes. Deletion is
// self-only and rejected while reservations exist.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.DELETE("/users/:id", h.Delete)
}
