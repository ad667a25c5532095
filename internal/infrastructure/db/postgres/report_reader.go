package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// ReportReader implements ports.ReportReader with sqlx over the same pool
// the gorm repositories use.
type ReportReader struct {
	db *sqlx.DB
}

func NewReportReader(db *sql.DB) *ReportReader {
	return &ReportReader{db: sqlx.NewDb(db, "pgx")}
}

const reportEntriesQuery = `
SELECT te.id, te.workman_trn, w.name AS workman_name, te.clock_in, te.clock_out, te.notes
FROM time_entries te
JOIN workmen w ON w.trn = te.workman_trn
WHERE ($1::timestamptz IS NULL OR te.clock_in >= $1)
  AND ($2::timestamptz IS NULL OR te.clock_in < $2)
  AND ($3::text = '' OR te.workman_trn = $3)
ORDER BY te.clock_in DESC, te.id DESC`

type reportRow struct {
	ID          int64          `db:"id"`
	WorkmanTRN  string         `db:"workman_trn"`
	WorkmanName string         `db:"workman_name"`
	ClockIn     time.Time      `db:"clock_in"`
	ClockOut    sql.NullTime   `db:"clock_out"`
	Notes       sql.NullString `db:"notes"`
}

func (r *ReportReader) Entries(ctx context.Context, q ports.ReportQuery) ([]ports.ReportRow, error) {
	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, reportEntriesQuery, q.From, q.Until, q.TRN); err != nil {
		return nil, fmt.Errorf("report entries: %w", err)
	}

	out := make([]ports.ReportRow, len(rows))
	for i, row := range rows {
		e := domain.TimeEntry{
			ID:         row.ID,
			WorkmanTRN: row.WorkmanTRN,
			ClockIn:    row.ClockIn.UTC(),
			Notes:      row.Notes.String,
		}
		if row.ClockOut.Valid {
			t := row.ClockOut.Time.UTC()
			e.ClockOut = &t
		}
		out[i] = ports.ReportRow{TimeEntry: e, WorkmanName: row.WorkmanName}
	}
	return out, nil
}
