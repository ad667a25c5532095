package ports

import (
	"context"
	"time"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// TimeEntryRepository defines persistence operations for clock sessions.
// Lookups that may legitimately find nothing return (nil, nil).
type TimeEntryRepository interface {
	// Create inserts an open entry and sets its ID. Fails with
	// domain.ErrOpenEntryExists when the workman already has an open entry.
	Create(ctx context.Context, e *domain.TimeEntry) error
	// Close sets clock_out and notes on the entry only while it is still
	// open. Fails with domain.ErrNotClockedIn when no open row was updated.
	Close(ctx context.Context, id int64, clockOut time.Time, notes string) error
	FindOpen(ctx context.Context, trn string) (*domain.TimeEntry, error)
	Latest(ctx context.Context, trn string) (*domain.TimeEntry, error)
	LatestClosed(ctx context.Context, trn string) (*domain.TimeEntry, error)
	// ListByWorkman returns the history, most recent clock-in first.
	ListByWorkman(ctx context.Context, trn string) ([]domain.TimeEntry, error)
	DeleteByWorkman(ctx context.Context, trn string) error
}
