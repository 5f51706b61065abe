package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lease-reservation/internal/handler"
	"github.com/iliyamo/lease-reservation/internal/middleware"
)

// RegisterLeases registers the lease catalog. Browsing is public so
// guests can inspect listings and check availability before signing
// up; catalog management requires the OWNER role.
func RegisterLeases(e *echo.Echo, h *handler.LeaseHandler, jwtSecret string) {
	e.GET("/v1/leases", h.List)
	e.GET("/v1/leases/available", h.Available)
	e.GET("/v1/leases/:id", h.Get)

	g := e.Group(
		"/v1/leases",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
