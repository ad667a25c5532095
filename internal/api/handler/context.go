package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/api/middleware"
	"github.com/sitecrew/timeclock/internal/core/domain"
)

// actor returns the user attached by the Auth middleware. It may be nil; the
// services reject a nil actor as unauthenticated.
func actor(c echo.Context) *domain.User {
	return middleware.CurrentUser(c)
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	return c.Validate(req)
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}
