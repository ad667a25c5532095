package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

const userKey = "user"

// Auth resolves the bearer token to an active user and injects it into the context.
func Auth(identity ports.IdentityService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := identity.FindByToken(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			SetUser(c, user)
			return next(c)
		}
	}
}

// SetUser attaches the authenticated user to the request context.
func SetUser(c echo.Context, user *domain.User) {
	c.Set(userKey, user)
}

// CurrentUser returns the user attached by Auth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(userKey).(*domain.User)
	return u
}
