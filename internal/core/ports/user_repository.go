package ports

import (
	"context"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts user and sets its ID. Fails with domain.ErrUserExists on
	// a username or email collision.
	Create(ctx context.Context, user *domain.User) error
	// Update saves every mutable column of user.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByTokenDigest returns the active user holding digest.
	FindByTokenDigest(ctx context.Context, digest string) (*domain.User, error)
	// SetTokenDigest stores digest for the user; an empty digest clears it.
	// Fails with domain.ErrTokenConflict when another user holds the digest.
	SetTokenDigest(ctx context.Context, id int64, digest string) error
	// List returns all users ordered by username.
	List(ctx context.Context) ([]domain.User, error)
}
