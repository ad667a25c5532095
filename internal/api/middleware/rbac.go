package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/core/authz"
)

// RequireCapability rejects requests whose user lacks c. A request without a
// user fails as unauthenticated, so Auth must run first.
func RequireCapability(capability authz.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authz.Require(CurrentUser(c), capability); err != nil {
				return err
			}
			return next(c)
		}
	}
}
