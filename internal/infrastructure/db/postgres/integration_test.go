package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
	"github.com/sitecrew/timeclock/internal/core/service"
)

// openTestDB connects to TEST_DATABASE_URL, migrates and empties the schema.
// Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Connect(ctx, Config{URL: url, MaxConns: 20}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, sqlDB))
	require.NoError(t, db.Exec("TRUNCATE time_entries, workmen, users RESTART IDENTITY CASCADE").Error)
	return db
}

func seedWorkman(t *testing.T, repo *WorkmanRepository, trn, name string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, repo.Create(context.Background(), &domain.Workman{
		TRN: trn, Name: name, Company: "Acme", Location: "Site A", CreatedAt: now, UpdatedAt: now,
	}))
}

func TestIntegration_OpenEntryIndex(t *testing.T) {
	db := openTestDB(t)
	workmen := NewWorkmanRepository(db)
	entries := NewTimeEntryRepository(db)
	ctx := context.Background()
	seedWorkman(t, workmen, "T100", "Jane Doe")

	first := &domain.TimeEntry{WorkmanTRN: "T100", ClockIn: time.Now().UTC()}
	require.NoError(t, entries.Create(ctx, first))
	require.NotZero(t, first.ID)

	err := entries.Create(ctx, &domain.TimeEntry{WorkmanTRN: "T100", ClockIn: time.Now().UTC()})
	require.ErrorIs(t, err, domain.ErrOpenEntryExists)

	require.NoError(t, entries.Close(ctx, first.ID, time.Now().UTC(), "done"))
	require.ErrorIs(t, entries.Close(ctx, first.ID, time.Now().UTC(), ""), domain.ErrNotClockedIn)
	require.NoError(t, entries.Create(ctx, &domain.TimeEntry{WorkmanTRN: "T100", ClockIn: time.Now().UTC()}))
}

func TestIntegration_ForeignKeyAndCascade(t *testing.T) {
	db := openTestDB(t)
	workmen := NewWorkmanRepository(db)
	entries := NewTimeEntryRepository(db)
	ctx := context.Background()

	err := entries.Create(ctx, &domain.TimeEntry{WorkmanTRN: "NOPE", ClockIn: time.Now().UTC()})
	require.ErrorIs(t, err, domain.ErrWorkmanNotFound)

	seedWorkman(t, workmen, "T1", "Ann")
	require.NoError(t, entries.Create(ctx, &domain.TimeEntry{WorkmanTRN: "T1", ClockIn: time.Now().UTC()}))
	require.NoError(t, workmen.Delete(ctx, "T1"))

	var count int64
	require.NoError(t, db.Model(&timeEntryModel{}).Where("workman_trn = ?", "T1").Count(&count).Error)
	require.Zero(t, count)
	require.ErrorIs(t, workmen.Delete(ctx, "T1"), domain.ErrWorkmanNotFound)
}

func TestIntegration_SearchEscapesWildcards(t *testing.T) {
	db := openTestDB(t)
	workmen := NewWorkmanRepository(db)
	ctx := context.Background()
	seedWorkman(t, workmen, "T1", "Zoe 100% Walker")
	seedWorkman(t, workmen, "T3", "John Doe")
	seedWorkman(t, workmen, "T2", "Jane Doe")

	got, err := workmen.Search(ctx, "dOE")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Jane Doe", got[0].Name)
	require.Equal(t, "John Doe", got[1].Name)

	got, err = workmen.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "T1", got[0].TRN)

	all, err := workmen.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestIntegration_UserConstraints(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	a := &domain.User{Username: "alice", Email: "a@example.com", PasswordHash: "x", Role: domain.RoleAdmin, IsActive: true, CreatedAt: now, UpdatedAt: now}
	b := &domain.User{Username: "bob", Email: "b@example.com", PasswordHash: "x", Role: domain.RoleEmployee, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, a))
	require.NoError(t, users.Create(ctx, b))

	dup := *b
	dup.ID = 0
	dup.Username = "bobby"
	require.ErrorIs(t, users.Create(ctx, &dup), domain.ErrUserExists)

	require.NoError(t, users.SetTokenDigest(ctx, a.ID, "digest-1"))
	require.ErrorIs(t, users.SetTokenDigest(ctx, b.ID, "digest-1"), domain.ErrTokenConflict)

	found, err := users.FindByTokenDigest(ctx, "digest-1")
	require.NoError(t, err)
	require.Equal(t, a.ID, found.ID)
	require.True(t, found.HasToken())

	a.IsActive = false
	require.NoError(t, users.Update(ctx, a))
	_, err = users.FindByTokenDigest(ctx, "digest-1")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	bad := *b
	bad.Role = domain.Role("owner")
	require.Error(t, users.Update(ctx, &bad))
}

func TestIntegration_ConcurrentClockIn(t *testing.T) {
	db := openTestDB(t)
	workmen := NewWorkmanRepository(db)
	entries := NewTimeEntryRepository(db)
	seedWorkman(t, workmen, "T100", "Jane Doe")

	svc := service.NewClockService(workmen, entries, NewTxManager(db), nil, clockwork.NewRealClock(), zerolog.Nop())
	actor := &domain.User{ID: 1, Username: "emp", Role: domain.RoleEmployee, IsActive: true}

	const callers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ClockIn(context.Background(), actor, "T100", "")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			if !errors.Is(err, domain.ErrAlreadyClockedIn) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, succeeded)

	var open int64
	require.NoError(t, db.Model(&timeEntryModel{}).Where("workman_trn = ? AND clock_out IS NULL", "T100").Count(&open).Error)
	require.EqualValues(t, 1, open)

	statuses, err := workmen.Statuses(context.Background(), []string{"T100", "MISSING"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusClockedIn, statuses["T100"])
	require.Equal(t, domain.StatusClockedOut, statuses["MISSING"])
}

func TestIntegration_ReportReader(t *testing.T) {
	db := openTestDB(t)
	workmen := NewWorkmanRepository(db)
	entries := NewTimeEntryRepository(db)
	ctx := context.Background()
	seedWorkman(t, workmen, "T1", "Ann")

	day := time.Date(2025, 3, 31, 23, 30, 0, 0, time.UTC)
	out := day.Add(20 * time.Minute)
	require.NoError(t, entries.Create(ctx, &domain.TimeEntry{WorkmanTRN: "T1", ClockIn: day, ClockOut: &out}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	reader := NewReportReader(sqlDB)

	rep, err := service.NewReportService(reader, zerolog.Nop()).Report(ctx,
		&domain.User{ID: 1, Username: "emp", Role: domain.RoleEmployee},
		ports.ReportFilter{StartDate: "2025-03-31", EndDate: "2025-03-31"})
	require.NoError(t, err)
	require.Len(t, rep.Entries, 1)
	require.Equal(t, "Ann", rep.Entries[0].WorkmanName)
}
