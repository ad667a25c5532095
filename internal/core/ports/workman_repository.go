package ports

import (
	"context"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// WorkmanRepository defines persistence operations for workmen.
type WorkmanRepository interface {
	// Create fails with domain.ErrWorkmanExists when the TRN is taken.
	Create(ctx context.Context, w *domain.Workman) error
	Update(ctx context.Context, w *domain.Workman) error
	Delete(ctx context.Context, trn string) error
	FindByTRN(ctx context.Context, trn string) (*domain.Workman, error)
	// LockByTRN loads the workman and holds a row lock until the surrounding
	// transaction ends. Calls for the same TRN serialize on that lock.
	LockByTRN(ctx context.Context, trn string) (*domain.Workman, error)
	// Search matches name case-insensitively as a substring, ordered by name.
	// An empty query returns every workman.
	Search(ctx context.Context, query string) ([]domain.Workman, error)
	// Statuses derives the clock status of each TRN in a single query. TRNs
	// without entries are reported as clocked out.
	Statuses(ctx context.Context, trns []string) (map[string]domain.WorkmanStatus, error)
}
