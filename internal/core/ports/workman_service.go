package ports

import (
	"context"
	"time"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// CreateWorkmanInput carries the fields of a new workman.
type CreateWorkmanInput struct {
	TRN      string
	Name     string
	Company  string
	Location string
}

// WorkmanView is a workman with its derived clock status.
type WorkmanView struct {
	domain.Workman
	Status domain.WorkmanStatus `json:"status"`
}

// WorkmanDetail is the single-workman view.
type WorkmanDetail struct {
	WorkmanView
	LatestClockIn  *time.Time `json:"latest_clock_in,omitempty"`
	LatestClockOut *time.Time `json:"latest_clock_out,omitempty"`
}

// LocationGroup lists the workmen assigned to one location.
type LocationGroup struct {
	Location string        `json:"location"`
	Workmen  []WorkmanView `json:"workmen"`
}

// WorkmanService is the workman registry use case. Every operation takes the
// acting user and checks its capability before touching storage.
type WorkmanService interface {
	Create(ctx context.Context, actor *domain.User, in CreateWorkmanInput) (*domain.Workman, error)
	Update(ctx context.Context, actor *domain.User, trn string, patch domain.WorkmanPatch) (*domain.Workman, error)
	// Delete removes the workman together with its time entries.
	Delete(ctx context.Context, actor *domain.User, trn string) error
	Get(ctx context.Context, actor *domain.User, trn string) (*WorkmanDetail, error)
	Search(ctx context.Context, actor *domain.User, query string) ([]WorkmanView, error)
	// Locations groups workmen by location, both sorted alphabetically.
	Locations(ctx context.Context, actor *domain.User) ([]LocationGroup, error)
}
