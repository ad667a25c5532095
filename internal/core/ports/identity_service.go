package ports

import (
	"context"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// RegisterInput is the self-service sign-up payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// IdentityService authenticates users and manages their API tokens.
type IdentityService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	// IssueToken replaces any existing token and returns the raw value. The
	// raw value is not retrievable afterwards.
	IssueToken(ctx context.Context, user *domain.User) (string, error)
	RevokeToken(ctx context.Context, user *domain.User) error
	// FindByToken resolves a bearer token to an active user or fails with
	// domain.ErrUnauthenticated.
	FindByToken(ctx context.Context, token string) (*domain.User, error)
	// FindActive loads an active user by ID for session restoration.
	FindActive(ctx context.Context, id int64) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// EnsureAdmin creates an active admin account unless username exists.
	// created reports whether an account was inserted.
	EnsureAdmin(ctx context.Context, username, email, password string) (created bool, err error)
}
