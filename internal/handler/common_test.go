package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lease-reservation/internal/service"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"business rule", service.ErrBusinessRule, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized},
		{"unknown", echo.ErrTooManyRequests, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			if err := serviceError(c, tc.err); err != nil {
				t.Fatalf("serviceError returned error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestGetUserIDConversions(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"uint64", uint64(7), 7, true},
		{"float64 from jwt claims", float64(7), 7, true},
		{"numeric string", "7", 7, true},
		{"garbage string", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t)
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, err := getUserID(c)
			if tc.ok && (err != nil || got != tc.want) {
				t.Fatalf("expected %d, got %d (err %v)", tc.want, got, err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error for %v", tc.value)
			}
		})
	}
}

func TestActorFrom(t *testing.T) {
	c, _ := newTestContext(t)
	c.Set("user_id", float64(9))
	c.Set("role", "CUSTOMER")
	if a := actorFrom(c); a.ID != 9 || a.Role != "CUSTOMER" {
		t.Fatalf("unexpected actor %+v", a)
	}

	c, _ = newTestContext(t)
	if a := actorFrom(c); a.ID != 0 {
		t.Fatalf("expected zero actor without identity, got %+v", a)
	}
}

func TestParseRFC3339(t *testing.T) {
	want := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if got := parseRFC3339("2026-03-10T08:00:00Z"); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := parseRFC3339("not-a-date"); !got.IsZero() {
		t.Fatalf("expected zero time for malformed input, got %v", got)
	}
	if got := parseRFC3339(""); !got.IsZero() {
		t.Fatalf("expected zero time for empty input, got %v", got)
	}
}
