package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lease-reservation/internal/model"
	"github.com/iliyamo/lease-reservation/internal/service"
)

// ReservationHandler exposes the reservation lifecycle for the
// authenticated renter.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	if reservations == nil {
		panic("nil reservation service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations}
}

type createReservationReq struct {
	LeaseID  uint64 `json:"lease_id"`
	StartsAt string `json:"starts_at"` // RFC 3339
	EndsAt   string `json:"ends_at"`   // RFC 3339
}

type reservationView struct {
	ID         uint64    `json:"id"`
	LeaseID    uint64    `json:"lease_id"`
	RenterID   uint64    `json:"renter_id"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toReservationView(r model.Reservation) reservationView {
	return reservationView{
		ID:         r.ID,
		LeaseID:    r.LeaseID,
		RenterID:   r.RenterID,
		StartsAt:   r.StartsAt,
		EndsAt:     r.EndsAt,
		Status:     string(r.Status),
		TotalCents: r.TotalCents,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Create books a lease for a period. The reservation starts out
// PENDING; conflicts with existing bookings come back as 400.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.LeaseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lease_id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.Create(ctx, actorFrom(c), req.LeaseID,
		parseRFC3339(req.StartsAt), parseRFC3339(req.EndsAt))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationView(res))
}

// Cancel moves a reservation owned by the caller to CANCELED.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.Cancel(ctx, actorFrom(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationView(res))
}

// Confirm moves a PENDING reservation owned by the caller to
// CONFIRMED and publishes the confirmation event.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.Confirm(ctx, actorFrom(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationView(res))
}

// Get returns one reservation owned by the caller.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.Get(ctx, actorFrom(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationView(res))
}

// ListMine returns the caller's reservations, most recent start first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rs, err := h.Reservations.ListMine(ctx, actorFrom(c))
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]reservationView, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservationView(r))
	}
	return c.JSON(http.StatusOK, out)
}
