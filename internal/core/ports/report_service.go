package ports

import (
	"context"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// ReportFilter is the user-facing report selection. Dates use YYYY-MM-DD and
// the end date is inclusive.
type ReportFilter struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	TRN       string `json:"trn,omitempty"`
}

// WorkmanStats is the per-workman breakdown of a report.
type WorkmanStats struct {
	TRN               string  `json:"trn"`
	Name              string  `json:"name"`
	Sessions          int     `json:"sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	TotalHours        float64 `json:"total_hours"`
}

// Report is the result of a report run.
type Report struct {
	Filter    ReportFilter   `json:"filter"`
	Entries   []ReportRow    `json:"entries"`
	Summary   domain.Summary `json:"summary"`
	ByWorkman []WorkmanStats `json:"by_workman"`
}

// ReportService builds time reports over a date range.
type ReportService interface {
	Report(ctx context.Context, actor *domain.User, filter ReportFilter) (*Report, error)
}
