package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/natserract/highlevel/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE"} {
		t.Setenv(key, "")
	}

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "highlevel", cfg.Database)
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=highlevel sslmode=disable", cfg.DSN())
}

func TestNewConfigInvalidPort(t *testing.T) {
	t.Setenv("DB_PORT", "abc")

	_, err := NewConfig()
	assert.ErrorContains(t, err, "DB_PORT")
}

// Runs against a live database when HIGHLEVEL_TEST_POSTGRES is set.
func TestStoreRoundTrip(t *testing.T) {
	if os.Getenv("HIGHLEVEL_TEST_POSTGRES") == "" {
		t.Skip("HIGHLEVEL_TEST_POSTGRES not set")
	}
	ctx := context.Background()

	cfg, err := NewConfig()
	require.NoError(t, err)
	db, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Ping(ctx))
	require.NoError(t, db.InitSchema(ctx))

	require.NoError(t, db.SaveContacts(ctx, []store.ContactRecord{
		{ID: "pg-c1", LocationID: "pg-loc", FirstName: "Ann", Tags: []string{"a"}},
	}))
	contacts, err := db.ListContacts(ctx, "pg-loc")
	require.NoError(t, err)
	require.NotEmpty(t, contacts)
	assert.Equal(t, "Ann", contacts[0].FirstName)

	job, err := db.CreateSyncJob(ctx, store.SyncJob{JobType: store.JobTypeContactSync, LocationID: "pg-loc"})
	require.NoError(t, err)
	require.NoError(t, db.CompleteSyncJob(ctx, job.ID, store.JobStatusCompleted, 1, 0))

	loaded, err := db.GetSyncJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, store.JobStatusCompleted, loaded.Status)
	assert.Equal(t, 1, loaded.TotalItems)
}

func TestContactArgs(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	args := contactArgs(store.ContactRecord{ID: "c1", LocationID: "loc1", FirstName: "Ann"}, now)
	require.Len(t, args, 12)
	assert.Equal(t, "c1", args[0])
	assert.Equal(t, "loc1", args[1])
	assert.Equal(t, pgtype.Text{String: "Ann", Valid: true}, args[2])
	assert.Equal(t, pgtype.Text{}, args[3])
	assert.Equal(t, []string{}, args[8])
	assert.Equal(t, "{}", args[10])
	assert.Equal(t, now, args[11])

	synced := now.Add(-time.Hour)
	args = contactArgs(store.ContactRecord{
		ID:       "c2",
		Tags:     []string{"vip"},
		Raw:      []byte(`{"id":"c2"}`),
		SyncedAt: synced,
	}, now)
	assert.Equal(t, []string{"vip"}, args[8])
	assert.Equal(t, `{"id":"c2"}`, args[10])
	assert.Equal(t, synced, args[11])
}

func TestTextAndTags(t *testing.T) {
	assert.False(t, text("").Valid)
	assert.Equal(t, pgtype.Text{String: "x", Valid: true}, text("x"))

	assert.NotNil(t, tags(nil))
	assert.Empty(t, tags(nil))
	assert.Equal(t, []string{"a"}, tags([]string{"a"}))
}
