package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lease-reservation/internal/service"
)

// getUserID extracts the user_id stored in the echo context by the JWT
// middleware and normalizes it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// actorFrom builds the service-layer actor from the authenticated
// request context. A zero actor is returned when the context carries
// no usable identity.
func actorFrom(c echo.Context) service.Actor {
	id, err := getUserID(c)
	if err != nil {
		return service.Actor{}
	}
	role, _ := c.Get("role").(string)
	return service.Actor{ID: id, Role: role}
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// parseRFC3339 accepts a timestamp in RFC 3339 form; the zero time is
// returned for empty or malformed input so services can validate.
func parseRFC3339(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// serviceError translates the service error taxonomy to an HTTP reply.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrBusinessRule):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
