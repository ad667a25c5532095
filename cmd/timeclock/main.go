// Command timeclock serves the time-clock JSON API and web pages.
//
//	@title						Time Clock API
//	@version					1.0
//	@description				Workforce time tracking: workmen registry, clock-in/out, reports and account administration.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer API token, e.g. "Bearer <token>".
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sitecrew/timeclock/internal/api"
	"github.com/sitecrew/timeclock/internal/api/handler"
	"github.com/sitecrew/timeclock/internal/core/ports"
	"github.com/sitecrew/timeclock/internal/core/service"
	"github.com/sitecrew/timeclock/internal/infrastructure/config"
	"github.com/sitecrew/timeclock/internal/infrastructure/db/mongo"
	"github.com/sitecrew/timeclock/internal/infrastructure/db/postgres"
	"github.com/sitecrew/timeclock/internal/infrastructure/db/redis"
	"github.com/sitecrew/timeclock/internal/web"
	"github.com/sitecrew/timeclock/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
		File:   cfg.LogFile,
	})
	defer logger.Close()

	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns}, log)
	if err != nil {
		return err
	}
	defer postgres.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(ctx, sqlDB); err != nil {
			return err
		}
		log.Info().Msg("database migrations applied")
	}

	checks := []handler.Dependency{
		{Name: "postgres", Ping: func(ctx context.Context) error { return postgres.Ping(ctx, db) }},
	}

	var throttle ports.LoginThrottle = service.NopThrottle{}
	if cfg.Redis.Addr != "" {
		conn := redis.Config{
			Addr:      cfg.Redis.Addr,
			DB:        cfg.Redis.DB,
			PoolSize:  cfg.Redis.PoolSize,
			Timeout:   cfg.Redis.Timeout,
			KeyPrefix: cfg.Redis.KeyPrefix,
		}
		rdb, err := redis.Connect(ctx, conn)
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redis.NewLoginThrottle(rdb, conn, redis.ThrottleConfig{
			MaxAttempts: cfg.Login.MaxAttempts,
			Window:      cfg.Login.Window,
		})
		checks = append(checks, handler.Dependency{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	var audit ports.AuditLog = service.NopAuditLog{}
	if cfg.Mongo.URI != "" {
		store, err := mongo.Connect(ctx, mongo.Config{
			URI:                    cfg.Mongo.URI,
			Database:               cfg.Mongo.Database,
			AppName:                cfg.Mongo.AppName,
			ConnectTimeout:         cfg.Mongo.ConnectTimeout,
			ServerSelectionTimeout: cfg.Mongo.ServerSelectionTimeout,
		})
		if err != nil {
			return err
		}
		defer store.Close(context.Background())
		audit = store.Audit
		checks = append(checks, handler.Dependency{Name: "mongodb", Ping: store.Ping})
	} else {
		log.Warn().Msg("MONGO_URI not set, audit trail disabled")
	}

	clock := clockwork.NewRealClock()
	users := postgres.NewUserRepository(db)
	workmen := postgres.NewWorkmanRepository(db)
	entries := postgres.NewTimeEntryRepository(db)
	tx := postgres.NewTxManager(db)

	identity := service.NewIdentityService(users, tx, throttle, audit, clock, log)
	workmanService := service.NewWorkmanService(workmen, entries, tx, audit, clock, log)
	clockService := service.NewClockService(workmen, entries, tx, audit, clock, log)
	userService := service.NewUserService(users, tx, audit, clock, log)
	reportService := service.NewReportService(postgres.NewReportReader(sqlDB), log)

	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		created, err := identity.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if created {
			log.Info().Str("username", cfg.Admin.Username).Msg("admin account created")
		}
	}

	e := api.NewRouter(api.Deps{
		Identity: identity,
		Workmen:  workmanService,
		Clock:    clockService,
		Users:    userService,
		Reports:  reportService,
		Checks:   checks,
		Logger:   log,
	})
	err = web.Register(e, web.Deps{
		Identity:      identity,
		Workmen:       workmanService,
		Clock:         clockService,
		Users:         userService,
		Reports:       reportService,
		SessionSecret: cfg.SessionSecret,
		JWTSecret:     cfg.JWTSecret,
		RememberMeTTL: cfg.RememberMeTTL,
		Secure:        cfg.IsProduction(),
		Now:           clock,
		Logger:        log,
	})
	if err != nil {
		return err
	}

	return serve(ctx, e, ":"+cfg.Port, log)
}

type server interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv server, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
