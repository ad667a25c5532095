package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sitecrew/timeclock/docs"
	"github.com/sitecrew/timeclock/internal/api/handler"
	"github.com/sitecrew/timeclock/internal/api/middleware"
	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// Deps are the use cases and probes the router mounts.
type Deps struct {
	Identity ports.IdentityService
	Workmen  ports.WorkmanService
	Clock    ports.ClockService
	Users    ports.UserService
	Reports  ports.ReportService
	Checks   []handler.Dependency
	Logger   zerolog.Logger

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds the Echo instance with the operational endpoints and the
// JSON API registered. Other surfaces mount onto the returned instance.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "timeclock",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	registerAPI(e.Group("/api/v1"), d)
	return e
}

func registerAPI(g *echo.Group, d Deps) {
	authHandler := handler.NewAuthHandler(d.Identity)
	workmanHandler := handler.NewWorkmanHandler(d.Workmen)
	clockHandler := handler.NewClockHandler(d.Clock)
	adminHandler := handler.NewAdminHandler(d.Users)
	reportHandler := handler.NewReportHandler(d.Reports)

	auth := middleware.Auth(d.Identity)
	manage := middleware.RequireCapability(authz.ManageWorkmen)
	clock := middleware.RequireCapability(authz.ClockWorkmen)

	// --- Auth routes ---
	g.POST("/auth/token", authHandler.Token)
	g.POST("/auth/register", authHandler.Register)
	g.POST("/auth/revoke", authHandler.Revoke, auth)
	g.GET("/me", authHandler.Me, auth)

	// --- Workmen ---
	g.GET("/workmen", workmanHandler.List, auth)
	g.POST("/workmen", workmanHandler.Create, auth, manage)
	g.GET("/workmen/:trn", workmanHandler.Get, auth)
	g.PUT("/workmen/:trn", workmanHandler.Update, auth, manage)
	g.DELETE("/workmen/:trn", workmanHandler.Delete, auth, manage)
	g.GET("/locations", workmanHandler.Locations, auth)

	// --- Time entries ---
	g.POST("/workmen/:trn/clock-in", clockHandler.ClockIn, auth, clock)
	g.POST("/workmen/:trn/clock-out", clockHandler.ClockOut, auth, clock)
	g.GET("/workmen/:trn/time-entries", clockHandler.History, auth)

	g.GET("/reports", reportHandler.Report, auth)

	// --- Admin ---
	admin := g.Group("/admin", auth, middleware.RequireCapability(authz.Admin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.PATCH("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/users/:id/token", adminHandler.IssueToken)
	admin.DELETE("/users/:id/token", adminHandler.RevokeToken)
	admin.GET("/audit", adminHandler.Audit)
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
