package ports

import "context"

// LoginThrottle counts failed logins per username within a window.
type LoginThrottle interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RegisterFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
