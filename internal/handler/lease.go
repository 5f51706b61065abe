package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lease-reservation/internal/model"
	"github.com/iliyamo/lease-reservation/internal/service"
)

// LeaseHandler exposes the lease catalog: public browsing plus the
// owner-only management endpoints.
type LeaseHandler struct {
	Leases *service.LeaseService
}

func NewLeaseHandler(leases *service.LeaseService) *LeaseHandler {
	if leases == nil {
		panic("nil lease service passed to NewLeaseHandler")
	}
	return &LeaseHandler{Leases: leases}
}

type leaseReq struct {
	Name            string `json:"name"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
	MinHours        int64  `json:"min_hours"`
	MaxHours        int64  `json:"max_hours"`
}

type leaseView struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	MinHours        int64     `json:"min_hours"`
	MaxHours        int64     `json:"max_hours"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toLeaseView(l model.Lease) leaseView {
	return leaseView{
		ID:              l.ID,
		Name:            l.Name,
		HourlyRateCents: l.HourlyRateCents,
		MinHours:        l.MinHours,
		MaxHours:        l.MaxHours,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func toLeaseViews(ls []model.Lease) []leaseView {
	out := make([]leaseView, 0, len(ls))
	for _, l := range ls {
		out = append(out, toLeaseView(l))
	}
	return out
}

// Create registers a new lease in the catalog (OWNER only).
func (h *LeaseHandler) Create(c echo.Context) error {
	var req leaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Leases.Create(ctx, service.LeaseInput{
		Name:            req.Name,
		HourlyRateCents: req.HourlyRateCents,
		MinHours:        req.MinHours,
		MaxHours:        req.MaxHours,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toLeaseView(l))
}

// Update replaces the mutable fields of an existing lease (OWNER only).
func (h *LeaseHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req leaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Leases.Update(ctx, id, service.LeaseInput{
		Name:            req.Name,
		HourlyRateCents: req.HourlyRateCents,
		MinHours:        req.MinHours,
		MaxHours:        req.MaxHours,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toLeaseView(l))
}

// Delete removes a lease that has no reservations (OWNER only).
func (h *LeaseHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Leases.Delete(ctx, id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns one lease by id.
func (h *LeaseHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Leases.Get(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toLeaseView(l))
}

// List returns the whole catalog ordered by name.
func (h *LeaseHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ls, err := h.Leases.List(ctx)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toLeaseViews(ls))
}

// Available returns the leases free for the requested period. The
// start and end query parameters are RFC 3339 timestamps.
func (h *LeaseHandler) Available(c echo.Context) error {
	start := parseRFC3339(c.QueryParam("start"))
	end := parseRFC3339(c.QueryParam("end"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ls, err := h.Leases.ListAvailable(ctx, start, end)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toLeaseViews(ls))
}
