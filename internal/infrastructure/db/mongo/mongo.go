package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultAppName                = "timeclock"
	defaultConnectTimeout         = 10 * time.Second
	defaultServerSelectionTimeout = 5 * time.Second
)

// Config holds the audit store connection settings.
type Config struct {
	URI                    string
	Database               string
	AppName                string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

// Store is the MongoDB-backed audit trail: the client, its database and the
// audit_events repository with its indexes in place.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	Audit  *AuditRepository
}

func clientOptions(cfg Config) *options.ClientOptions {
	appName := cfg.AppName
	if appName == "" {
		appName = defaultAppName
	}
	connect := cfg.ConnectTimeout
	if connect <= 0 {
		connect = defaultConnectTimeout
	}
	selection := cfg.ServerSelectionTimeout
	if selection <= 0 {
		selection = defaultServerSelectionTimeout
	}
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(connect).
		SetServerSelectionTimeout(selection)
}

// Connect opens the client, pings the primary and creates the audit indexes.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo: database name is required")
	}
	opts := clientOptions(cfg)

	setupCtx, cancel := context.WithTimeout(ctx, *opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(setupCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(setupCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	audit := NewAuditRepository(db)
	if err := audit.ensureIndexes(setupCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo audit indexes: %w", err)
	}
	return &Store{client: client, db: db, Audit: audit}, nil
}

// Ping checks the primary for the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
