package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

const reportDateLayout = "2006-01-02"

// ReportService builds time reports from the read model.
type ReportService struct {
	reader ports.ReportReader
	logger zerolog.Logger
}

func NewReportService(reader ports.ReportReader, logger zerolog.Logger) *ReportService {
	return &ReportService{reader: reader, logger: logger}
}

func parseReportDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(reportDateLayout, value, time.UTC)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Reason: "must be a date in YYYY-MM-DD format"}
	}
	return &t, nil
}

// Report selects entries whose clock-in falls between the start date and the
// end of the end date.
func (s *ReportService) Report(ctx context.Context, actor *domain.User, f ports.ReportFilter) (*ports.Report, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
	f.TRN = strings.TrimSpace(f.TRN)

	start, err := parseReportDate("start_date", f.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseReportDate("end_date", f.EndDate)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, &domain.ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}

	q := ports.ReportQuery{From: start, TRN: f.TRN}
	if end != nil {
		until := end.AddDate(0, 0, 1)
		q.Until = &until
	}

	rows, err := s.reader.Entries(ctx, q)
	if err != nil {
		return nil, wrap("report", err)
	}
	if rows == nil {
		rows = []ports.ReportRow{}
	}

	entries := make([]domain.TimeEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].TimeEntry
	}

	s.logger.Debug().Str("start", f.StartDate).Str("end", f.EndDate).Str("trn", f.TRN).Int("rows", len(rows)).Msg("report generated")
	return &ports.Report{
		Filter:    f,
		Entries:   rows,
		Summary:   domain.Aggregate(entries),
		ByWorkman: statsByWorkman(rows),
	}, nil
}

func statsByWorkman(rows []ports.ReportRow) []ports.WorkmanStats {
	index := map[string]int{}
	stats := []ports.WorkmanStats{}
	for i := range rows {
		r := &rows[i]
		pos, ok := index[r.WorkmanTRN]
		if !ok {
			pos = len(stats)
			index[r.WorkmanTRN] = pos
			stats = append(stats, ports.WorkmanStats{TRN: r.WorkmanTRN, Name: r.WorkmanName})
		}
		st := &stats[pos]
		st.Sessions++
		if h, closed := r.DurationHours(); closed {
			st.CompletedSessions++
			st.TotalHours += h
		}
	}
	for i := range stats {
		stats[i].TotalHours = domain.RoundHours(stats[i].TotalHours)
	}
	slices.SortFunc(stats, func(a, b ports.WorkmanStats) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.TRN, b.TRN)
	})
	return stats
}
