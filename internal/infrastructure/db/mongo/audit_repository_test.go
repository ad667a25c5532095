package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/require"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

func TestAuditRepository_Integration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	store, err := Connect(ctx, Config{URI: uri, Database: "timeclock_test_" + ksuid.New().String()})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.db.Drop(context.Background())
		_ = store.Close(context.Background())
	})
	require.NoError(t, store.Ping(ctx))

	specs, err := store.Audit.col.Indexes().ListSpecifications(ctx)
	require.NoError(t, err)
	require.Len(t, specs, 3, "_id plus the two audit indexes")

	repo := store.Audit

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	events := []domain.AuditEvent{
		{Action: domain.AuditWorkmanCreated, Actor: "sup", TRN: "T1", OccurredAt: base},
		{Action: domain.AuditClockIn, Actor: "emp", TRN: "T1", Details: map[string]string{"notes": "early"}, OccurredAt: base.Add(time.Minute)},
		{Action: domain.AuditTokenIssued, Actor: "admin", UserID: 7, OccurredAt: base.Add(2 * time.Minute)},
	}
	for i := range events {
		events[i].ID = ksuid.New().String()
		require.NoError(t, repo.Record(ctx, &events[i]))
	}

	all, err := repo.List(ctx, ports.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, domain.AuditTokenIssued, all[0].Action)
	require.EqualValues(t, 7, all[0].UserID)

	forTRN, err := repo.List(ctx, ports.AuditFilter{TRN: "T1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, forTRN, 1)
	require.Equal(t, domain.AuditClockIn, forTRN[0].Action)
	require.Equal(t, "early", forTRN[0].Details["notes"])
}
