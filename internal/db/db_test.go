package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbnam453/nalbom-admin/internal/config"
	"github.com/gbnam453/nalbom-admin/internal/session"
	"github.com/gbnam453/nalbom-admin/internal/utils"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := &config.Config{
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "new_test.db")

	db, err := NewDB(&config.Config{SQLitePath: dbPath})
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
	assert.NoError(t, db.Ping())

	count, err := db.CountSessions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNewDBWithInvalidPath(t *testing.T) {
	db, err := NewDB(&config.Config{SQLitePath: "/invalid/path/that/does/not/exist/test.db"})
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestNewDBReopensExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	first, err := NewDB(&config.Config{SQLitePath: dbPath})
	require.NoError(t, err)
	require.NoError(t, first.Bucket("sid").Set(ctx, "k", "v"))
	require.NoError(t, first.Close())

	second, err := NewDB(&config.Config{SQLitePath: dbPath})
	require.NoError(t, err)
	defer second.Close()

	v, ok, err := second.Bucket("sid").Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestBucketGetSetRemove(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	b := db.Bucket("browser-a")

	_, ok, err := b.Get(ctx, session.KeyIsAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, session.KeyIsAdmin, "true"))
	require.NoError(t, b.Set(ctx, session.KeyLogoutAt, "1740819600000"))
	require.NoError(t, b.Set(ctx, session.KeyLogoutAt, "1740820200000"))

	v, ok, err := b.Get(ctx, session.KeyLogoutAt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1740820200000", v)

	require.NoError(t, b.Remove(ctx, session.KeyIsAdmin, session.KeyLogoutAt))
	_, ok, _ = b.Get(ctx, session.KeyIsAdmin)
	assert.False(t, ok)
	_, ok, _ = b.Get(ctx, session.KeyLogoutAt)
	assert.False(t, ok)

	assert.NoError(t, b.Remove(ctx))
}

func TestBucketsAreIsolated(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	require.NoError(t, db.Bucket("a").Set(ctx, session.KeyIsAdmin, "true"))

	_, ok, err := db.Bucket("b").Get(ctx, session.KeyIsAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Bucket("b").Remove(ctx, session.KeyIsAdmin))
	_, ok, _ = db.Bucket("a").Get(ctx, session.KeyIsAdmin)
	assert.True(t, ok)

	count, err := db.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBucketBacksSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	sess := session.New(db.Bucket("sid"), session.WithWindow(time.Minute))
	require.NoError(t, sess.Login(ctx))

	next := session.New(db.Bucket("sid"), session.WithWindow(time.Minute))
	assert.True(t, next.IsAdmin(ctx))
	remaining, expired, err := next.Check(ctx)
	require.NoError(t, err)
	assert.False(t, expired)
	assert.InDelta(t, 60, remaining, 1)

	require.NoError(t, next.Clear(ctx))
	assert.False(t, sess.IsAdmin(ctx))
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	expired := db.Bucket("expired")
	require.NoError(t, expired.Set(ctx, session.KeyIsAdmin, "true"))
	require.NoError(t, expired.Set(ctx, session.KeyLogoutAt, utils.FormatUnixMillis(now.Add(-time.Second))))

	boundary := db.Bucket("boundary")
	require.NoError(t, boundary.Set(ctx, session.KeyLogoutAt, utils.FormatUnixMillis(now)))

	active := db.Bucket("active")
	require.NoError(t, active.Set(ctx, session.KeyIsAdmin, "true"))
	require.NoError(t, active.Set(ctx, session.KeyLogoutAt, utils.FormatUnixMillis(now.Add(time.Minute))))

	n, err := db.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	count, err := db.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, ok, _ := active.Get(ctx, session.KeyIsAdmin)
	assert.True(t, ok)
}

func TestSweepStale(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := start
	db.now = func() time.Time { return clock }

	require.NoError(t, db.Bucket("flash-only").Set(ctx, "flash", "1|msg"))
	require.NoError(t, db.Bucket("logged-in").Set(ctx, session.KeyLogoutAt, utils.FormatUnixMillis(start.Add(time.Hour))))

	clock = start.Add(2 * time.Hour)
	require.NoError(t, db.Bucket("recent").Set(ctx, "flash", "2|msg"))

	n, err := db.SweepStale(ctx, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, _ := db.Bucket("flash-only").Get(ctx, "flash")
	assert.False(t, ok)
	_, ok, _ = db.Bucket("logged-in").Get(ctx, session.KeyLogoutAt)
	assert.True(t, ok, "sessions with a deadline are left to SweepExpired")
	_, ok, _ = db.Bucket("recent").Get(ctx, "flash")
	assert.True(t, ok)
}
