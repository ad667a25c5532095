package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"deactivated", domain.ErrAccountDeactivated, http.StatusUnauthorized, "account_deactivated"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"workman not found", domain.ErrWorkmanNotFound, http.StatusNotFound, "not_found"},
		{"no token", domain.ErrNoActiveToken, http.StatusNotFound, "not_found"},
		{"validation", domain.Required("name"), http.StatusBadRequest, "validation_error"},
		{"self delete", domain.ErrCannotDeleteSelf, http.StatusBadRequest, "validation_error"},
		{"duplicate", fmt.Errorf("create: %w", domain.ErrWorkmanExists), http.StatusBadRequest, "duplicate_key"},
		{"transition", domain.ErrAlreadyClockedIn, http.StatusBadRequest, "invalid_transition"},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too_many_attempts"},
		{"echo error", echo.NewHTTPError(http.StatusUnsupportedMediaType, "bad type"), http.StatusUnsupportedMediaType, "unsupported_media_type"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body.Error)
			}
			if body.Message == "" {
				t.Fatalf("expected a message")
			}
		})
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("pq: password authentication failed"), c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Message != "internal server error" {
		t.Fatalf("leaked message %q", body.Message)
	}
}
