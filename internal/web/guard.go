package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/domain"
)

const userKey = "web_user"

var deniedMessages = map[authz.Capability]string{
	authz.ManageWorkmen: "You do not have permission to manage workmen.",
	authz.ClockWorkmen:  "You do not have permission to clock workmen.",
	authz.Admin:         "Access denied. Admin privileges required.",
}

func currentUser(c echo.Context) *domain.User {
	u, _ := c.Get(userKey).(*domain.User)
	return u
}

// loadUser resolves the session, or failing that the remember-me cookie, to
// an active user. A stale session is cleared rather than rejected.
func (p *Pages) loadUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if id := sessionUserID(c); id != 0 {
			user, err := p.identity.FindActive(ctx, id)
			if err == nil {
				c.Set(userKey, user)
				return next(c)
			}
			if !errors.Is(err, domain.ErrUnauthenticated) {
				return err
			}
			_ = endSession(c, p.secure)
			return next(c)
		}

		cookie, err := c.Cookie(rememberCookie)
		if err != nil || cookie.Value == "" {
			return next(c)
		}
		id, err := p.remember.parse(cookie.Value)
		if err != nil {
			p.logger.Debug().Err(err).Msg("ignoring remember-me cookie")
			_ = endSession(c, p.secure)
			return next(c)
		}
		user, err := p.identity.FindActive(ctx, id)
		if err != nil {
			_ = endSession(c, p.secure)
			return next(c)
		}
		if err := startSession(c, user.ID); err != nil {
			return err
		}
		c.Set(userKey, user)
		return next(c)
	}
}

// requireLogin sends anonymous visitors to the login page, remembering where
// they were going.
func (p *Pages) requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentUser(c) != nil {
			return next(c)
		}
		flash(c, flashInfo, "Please log in to access this page.")
		return redirect(c, "/auth/login?next="+url.QueryEscape(c.Request().URL.RequestURI()))
	}
}

// requireCapability redirects to the dashboard with a flash when the user's
// role lacks capability.
func (p *Pages) requireCapability(capability authz.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authz.Require(currentUser(c), capability); err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					flash(c, flashError, deniedMessages[capability])
				}
				return p.fail(c, err, "/dashboard")
			}
			return next(c)
		}
	}
}

// fail turns a domain error into a flash and a redirect. back is where
// recoverable input errors return to. Unexpected errors go to echo's error
// handler.
func (p *Pages) fail(c echo.Context, err error, back string) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return redirect(c, "/auth/login?next="+url.QueryEscape(c.Request().URL.RequestURI()))
	case errors.Is(err, domain.ErrForbidden):
		return redirect(c, "/dashboard")
	case errors.Is(err, domain.ErrNotFound):
		flash(c, flashError, sentence(err.Error()))
		return redirect(c, "/")
	case errors.Is(err, domain.ErrNotClockedIn):
		flash(c, flashError, "Cannot clock out without clocking in first")
		return redirect(c, back)
	case errors.Is(err, domain.ErrWorkmanExists):
		flash(c, flashError, "TRN already exists. Please use a unique TRN.")
		return redirect(c, back)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrDuplicateKey):
		flash(c, flashError, sentence(err.Error()))
		return redirect(c, back)
	}

	p.logger.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("web request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

// safeNext accepts only local absolute paths as post-login targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/dashboard"
	}
	return next
}

// sentence upper-cases the first letter of s.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
