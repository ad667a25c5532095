package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sitecrew/timeclock/internal/core/ports"
)

const reportQueryPattern = `(?s)^\s*SELECT\s+te\.id,\s*te\.workman_trn,\s*w\.name\s+AS\s+workman_name.*FROM\s+time_entries\s+te\s+JOIN\s+workmen\s+w.*ORDER\s+BY\s+te\.clock_in\s+DESC,\s*te\.id\s+DESC\s*$`

var reportColumns = []string{"id", "workman_trn", "workman_name", "clock_in", "clock_out", "notes"}

func newReaderWithMock(t *testing.T) (*ReportReader, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewReportReader(db), mock
}

func TestReportReader_Entries(t *testing.T) {
	reader, mock := newReaderWithMock(t)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	in := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	out := in.Add(90 * time.Minute)

	rows := sqlmock.NewRows(reportColumns).
		AddRow(int64(2), "T1", "Jane Doe", in.Add(24*time.Hour), nil, nil).
		AddRow(int64(1), "T1", "Jane Doe", in, out, "late start")
	mock.ExpectQuery(reportQueryPattern).
		WithArgs(from, until, "T1").
		WillReturnRows(rows)

	got, err := reader.Entries(context.Background(), ports.ReportQuery{From: &from, Until: &until, TRN: "T1"})
	if err != nil {
		t.Fatalf("Entries error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].ID != 2 || !got[0].Open() || got[0].WorkmanName != "Jane Doe" {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if h, ok := got[1].DurationHours(); !ok || h != 1.5 || got[1].Notes != "late start" {
		t.Fatalf("unexpected second row %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportReader_NoBounds(t *testing.T) {
	reader, mock := newReaderWithMock(t)

	mock.ExpectQuery(reportQueryPattern).
		WithArgs(nilArg{}, nilArg{}, "").
		WillReturnRows(sqlmock.NewRows(reportColumns))

	got, err := reader.Entries(context.Background(), ports.ReportQuery{})
	if err != nil {
		t.Fatalf("Entries error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty, non-nil result, got %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportReader_DBError(t *testing.T) {
	reader, mock := newReaderWithMock(t)
	mock.ExpectQuery(reportQueryPattern).WillReturnError(errors.New("db down"))

	if _, err := reader.Entries(context.Background(), ports.ReportQuery{}); err == nil {
		t.Fatalf("expected error")
	}
}

// nilArg matches a NULL bind parameter.
type nilArg struct{}

func (nilArg) Match(v driver.Value) bool { return v == nil }
