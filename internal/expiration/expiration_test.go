package expiration

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbnam453/nalbom-admin/internal/config"
	"github.com/gbnam453/nalbom-admin/internal/db"
	"github.com/gbnam453/nalbom-admin/internal/session"
	"github.com/gbnam453/nalbom-admin/internal/utils"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		SQLitePath:     filepath.Join(t.TempDir(), "test.db"),
		SessionWindow:  600,
		SweepInterval:  10,
		SweeperEnabled: true,
	}
}

func setupTestExpirationManager(t *testing.T) (*ExpirationManager, *db.DB) {
	t.Helper()
	cfg := testConfig(t)

	testDB, err := db.NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { testDB.Close() })

	manager, err := NewExpirationManager(cfg, testDB)
	require.NoError(t, err)
	return manager, testDB
}

// recordingStore counts sweeps and can fail on demand
type recordingStore struct {
	mu      sync.Mutex
	sweeps  int
	stale   []time.Time
	failErr error
}

func (s *recordingStore) SweepExpired(_ context.Context, _ time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	return 0, s.failErr
}

func (s *recordingStore) SweepStale(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = append(s.stale, before)
	return 0, nil
}

func (s *recordingStore) Sweeps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweeps
}

func TestNewExpirationManager(t *testing.T) {
	manager, _ := setupTestExpirationManager(t)
	assert.NotNil(t, manager)
	assert.NotNil(t, manager.Config)
	assert.NotNil(t, manager.stopChan)
}

func TestNewExpirationManagerValidation(t *testing.T) {
	store := &recordingStore{}

	_, err := NewExpirationManager(nil, store)
	assert.Error(t, err)

	_, err = NewExpirationManager(testConfig(t), nil)
	assert.Error(t, err)

	cfg := testConfig(t)
	cfg.SweepInterval = 0
	_, err = NewExpirationManager(cfg, store)
	assert.Error(t, err)

	cfg.SweeperEnabled = false
	_, err = NewExpirationManager(cfg, store)
	assert.NoError(t, err)
}

func TestCleanupExpiredSessions(t *testing.T) {
	ctx := context.Background()
	manager, testDB := setupTestExpirationManager(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	gone := session.New(testDB.Bucket("gone"), session.WithClock(func() time.Time { return now.Add(-time.Hour) }))
	require.NoError(t, gone.Login(ctx))

	active := session.New(testDB.Bucket("active"), session.WithClock(func() time.Time { return now }))
	require.NoError(t, active.Login(ctx))

	manager.cleanupExpiredSessions()

	count, err := testDB.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, active.IsAdmin(ctx))
	assert.False(t, gone.IsAdmin(ctx))
}

func TestCleanupKeepsDeadlineExactlyInFuture(t *testing.T) {
	ctx := context.Background()
	manager, testDB := setupTestExpirationManager(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	b := testDB.Bucket("edge")
	require.NoError(t, b.Set(ctx, session.KeyLogoutAt, utils.FormatUnixMillis(now.Add(time.Millisecond))))

	manager.cleanupExpiredSessions()

	_, ok, err := b.Get(ctx, session.KeyLogoutAt)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStaleCutoffUsesSessionWindow(t *testing.T) {
	store := &recordingStore{}
	cfg := testConfig(t)
	manager, err := NewExpirationManager(cfg, store)
	require.NoError(t, err)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	manager.cleanupExpiredSessions()

	require.Len(t, store.stale, 1)
	assert.Equal(t, now.Add(-10*time.Minute), store.stale[0])
}

func TestCleanupStopsOnStoreError(t *testing.T) {
	store := &recordingStore{failErr: errors.New("database is locked")}
	manager, err := NewExpirationManager(testConfig(t), store)
	require.NoError(t, err)

	manager.cleanupExpiredSessions()
	assert.Equal(t, 1, store.Sweeps())
	assert.Empty(t, store.stale)
}

func TestStartStop(t *testing.T) {
	store := &recordingStore{}
	manager, err := NewExpirationManager(testConfig(t), store)
	require.NoError(t, err)

	manager.Start()
	require.Eventually(t, func() bool { return store.Sweeps() >= 1 }, time.Second, 5*time.Millisecond)

	manager.Stop()
	manager.Stop()
}

func TestStartDisabled(t *testing.T) {
	store := &recordingStore{}
	cfg := testConfig(t)
	cfg.SweeperEnabled = false
	manager, err := NewExpirationManager(cfg, store)
	require.NoError(t, err)

	manager.Start()
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, store.Sweeps())
	manager.Stop()
}
