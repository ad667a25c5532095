package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/api/metrics"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// Index shows the landing page to visitors and the dashboard to users.
func (p *Pages) Index(c echo.Context) error {
	if currentUser(c) != nil {
		return redirect(c, "/dashboard")
	}
	return render(c, http.StatusOK, "landing.html", "Time Clock", nil)
}

type loginPage struct {
	Next string
}

func (p *Pages) LoginForm(c echo.Context) error {
	if currentUser(c) != nil {
		return redirect(c, "/dashboard")
	}
	return render(c, http.StatusOK, "login.html", "Log in", loginPage{Next: c.QueryParam("next")})
}

// Login authenticates the form credentials and starts a session. With
// "remember" set it also issues the remember-me cookie.
func (p *Pages) Login(c echo.Context) error {
	if currentUser(c) != nil {
		return redirect(c, "/dashboard")
	}
	next := c.FormValue("next")
	back := "/auth/login"
	if next != "" {
		back += "?next=" + url.QueryEscape(next)
	}

	user, err := p.identity.Authenticate(c.Request().Context(), c.FormValue("username"), c.FormValue("password"))
	metrics.ObserveAuth(err)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAccountDeactivated):
		flash(c, flashError, "Your account has been deactivated. Please contact an administrator.")
		return redirect(c, back)
	case errors.Is(err, domain.ErrTooManyAttempts):
		flash(c, flashError, "Too many failed login attempts. Please try again later.")
		return redirect(c, back)
	case errors.Is(err, domain.ErrInvalidCredentials):
		flash(c, flashError, "Invalid username or password")
		return redirect(c, back)
	default:
		return p.fail(c, err, back)
	}

	if err := startSession(c, user.ID); err != nil {
		return err
	}
	if c.FormValue("remember") != "" {
		token, err := p.remember.issue(user.ID)
		if err != nil {
			return err
		}
		c.SetCookie(&http.Cookie{
			Name:     rememberCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   p.remember.maxAge(),
			HttpOnly: true,
			Secure:   p.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return redirect(c, safeNext(next))
}

func (p *Pages) SignupForm(c echo.Context) error {
	if currentUser(c) != nil {
		return redirect(c, "/dashboard")
	}
	return render(c, http.StatusOK, "signup.html", "Register", nil)
}

// Signup creates an employee account from the registration form.
func (p *Pages) Signup(c echo.Context) error {
	if currentUser(c) != nil {
		return redirect(c, "/dashboard")
	}
	password := c.FormValue("password")
	if password != c.FormValue("confirm_password") {
		flash(c, flashError, "Passwords must match")
		return redirect(c, "/auth/register")
	}

	_, err := p.identity.Register(c.Request().Context(), ports.RegisterInput{
		Username: strings.TrimSpace(c.FormValue("username")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: password,
	})
	if errors.Is(err, domain.ErrUserExists) {
		flash(c, flashError, "Username or email already registered.")
		return redirect(c, "/auth/register")
	}
	if err != nil {
		return p.fail(c, err, "/auth/register")
	}

	flash(c, flashSuccess, "Registration successful! You can now log in.")
	return redirect(c, "/auth/login")
}

func (p *Pages) Logout(c echo.Context) error {
	if err := endSession(c, p.secure); err != nil {
		return err
	}
	flash(c, flashInfo, "You have been logged out.")
	return redirect(c, "/")
}
