package ports

import (
	"context"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// TimeHistory is the ordered session list of a workman with its totals.
type TimeHistory struct {
	Workman domain.Workman     `json:"workman"`
	Entries []domain.TimeEntry `json:"entries"`
	Summary domain.Summary     `json:"summary"`
}

// ClockService drives the clocked-out / clocked-in state machine.
type ClockService interface {
	// ClockIn opens a session. Fails with domain.ErrAlreadyClockedIn when one
	// is already open, including when a concurrent call won the race.
	ClockIn(ctx context.Context, actor *domain.User, trn, notes string) (*domain.TimeEntry, error)
	// ClockOut closes the open session, appending notes to the existing ones.
	ClockOut(ctx context.Context, actor *domain.User, trn, notes string) (*domain.TimeEntry, error)
	Status(ctx context.Context, actor *domain.User, trn string) (domain.WorkmanStatus, error)
	LatestOpenEntry(ctx context.Context, actor *domain.User, trn string) (*domain.TimeEntry, error)
	LatestClosedEntry(ctx context.Context, actor *domain.User, trn string) (*domain.TimeEntry, error)
	History(ctx context.Context, actor *domain.User, trn string) (*TimeHistory, error)
}
