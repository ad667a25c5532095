package ports

import (
	"context"
	"time"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// ReportQuery selects entries with From <= clock_in < Until. Nil bounds and
// an empty TRN are not applied.
type ReportQuery struct {
	From  *time.Time
	Until *time.Time
	TRN   string
}

// ReportRow is a time entry joined with its workman's name.
type ReportRow struct {
	domain.TimeEntry
	WorkmanName string `json:"workman_name"`
}

// ReportReader is the read model behind the reports page.
type ReportReader interface {
	// Entries returns matching rows ordered by clock_in descending.
	Entries(ctx context.Context, q ReportQuery) ([]ReportRow, error)
}
