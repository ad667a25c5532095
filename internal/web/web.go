// Package web is the cookie-session HTML surface. It renders the same use
// cases as the JSON API and turns domain errors into flash messages and
// redirects.
package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// Deps configures the web surface.
type Deps struct {
	Identity ports.IdentityService
	Workmen  ports.WorkmanService
	Clock    ports.ClockService
	Users    ports.UserService
	Reports  ports.ReportService

	SessionSecret string
	JWTSecret     string
	RememberMeTTL time.Duration
	// Secure marks cookies Secure; set in production behind TLS.
	Secure bool
	Now    clockwork.Clock
	Logger zerolog.Logger
}

// Pages holds the page handlers and their collaborators.
type Pages struct {
	identity ports.IdentityService
	workmen  ports.WorkmanService
	clock    ports.ClockService
	users    ports.UserService
	reports  ports.ReportService
	remember *rememberMe
	secure   bool
	logger   zerolog.Logger
}

// routes registers handlers with the shared web middleware stack. Route-level
// middleware keeps sessions and CSRF away from the JSON API.
type routes struct {
	e     *echo.Echo
	stack []echo.MiddlewareFunc
}

func (r routes) get(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	r.e.GET(path, h, append(append([]echo.MiddlewareFunc{}, r.stack...), m...)...)
}

func (r routes) post(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	r.e.POST(path, h, append(append([]echo.MiddlewareFunc{}, r.stack...), m...)...)
}

// Register mounts the HTML pages onto e and installs the template renderer.
func Register(e *echo.Echo, d Deps) error {
	if d.SessionSecret == "" || d.JWTSecret == "" {
		return fmt.Errorf("web: session and jwt secrets are required")
	}
	if d.Now == nil {
		d.Now = clockwork.NewRealClock()
	}

	renderer, err := NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = renderer

	store := sessions.NewCookieStore([]byte(d.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   d.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	p := &Pages{
		identity: d.Identity,
		workmen:  d.Workmen,
		clock:    d.Clock,
		users:    d.Users,
		reports:  d.Reports,
		remember: newRememberMe(d.JWTSecret, d.RememberMeTTL, d.Now),
		secure:   d.Secure,
		logger:   d.Logger,
	}

	r := routes{e: e, stack: []echo.MiddlewareFunc{
		session.Middleware(store),
		echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
			TokenLookup:    "form:_csrf",
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   d.Secure,
			CookieSameSite: http.SameSiteStrictMode,
		}),
		p.loadUser,
	}}
	p.mount(r)
	return nil
}

func (p *Pages) mount(r routes) {
	login := p.requireLogin
	manage := p.requireCapability(authz.ManageWorkmen)
	clock := p.requireCapability(authz.ClockWorkmen)
	admin := p.requireCapability(authz.Admin)

	r.get("/", p.Index)
	r.get("/auth/login", p.LoginForm)
	r.post("/auth/login", p.Login)
	r.get("/auth/register", p.SignupForm)
	r.post("/auth/register", p.Signup)
	r.post("/auth/logout", p.Logout)

	r.get("/dashboard", p.Dashboard, login)
	r.get("/register", p.NewWorkmanForm, login, manage)
	r.post("/register", p.CreateWorkman, login, manage)
	r.get("/workman/:trn", p.WorkmanDetail, login)
	r.get("/workman/:trn/edit", p.EditWorkmanForm, login, manage)
	r.post("/workman/:trn/edit", p.UpdateWorkman, login, manage)
	r.post("/workman/:trn/delete", p.DeleteWorkman, login, manage)
	r.post("/workman/:trn/clock_in", p.ClockIn, login, clock)
	r.post("/workman/:trn/clock_out", p.ClockOut, login, clock)
	r.get("/workman/:trn/time_history", p.TimeHistory, login)
	r.get("/locations", p.Locations, login)
	r.get("/reports", p.Reports, login)

	r.get("/admin/users", p.AdminUsers, login, admin)
	r.get("/admin/users/:id/edit", p.AdminEditUserForm, login, admin)
	r.post("/admin/users/:id/edit", p.AdminUpdateUser, login, admin)
	r.post("/admin/users/:id/delete", p.AdminDeleteUser, login, admin)
	r.post("/admin/users/:id/generate-token", p.AdminGenerateToken, login, admin)
	r.post("/admin/users/:id/revoke-token", p.AdminRevokeToken, login, admin)
}
