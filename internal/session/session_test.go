package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// countingStorage records how often the session was cleared
type countingStorage struct {
	*MemoryStorage
	mu      sync.Mutex
	removes int
}

func (s *countingStorage) Remove(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	s.removes++
	s.mu.Unlock()
	return s.MemoryStorage.Remove(ctx, keys...)
}

func (s *countingStorage) Removes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removes
}

// orderedStorage records the keys in the order they were written
type orderedStorage struct {
	*MemoryStorage
	mu   sync.Mutex
	sets []string
}

func (s *orderedStorage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.sets = append(s.sets, key)
	s.mu.Unlock()
	return s.MemoryStorage.Set(ctx, key, value)
}

type failingStorage struct{}

func (failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (failingStorage) Set(context.Context, string, string) error { return errors.New("disk on fire") }
func (failingStorage) Remove(context.Context, ...string) error   { return errors.New("disk on fire") }

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00", FormatTime(0))
	assert.Equal(t, "01:05", FormatTime(65))
	assert.Equal(t, "09:59", FormatTime(599))
	assert.Equal(t, "10:00", FormatTime(600))
	assert.Equal(t, "00:00", FormatTime(-4))
}

func TestLoginSetsFlagAndDeadline(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStorage()
	sess := New(store, WithClock(clock.Now))

	assert.False(t, sess.IsAdmin(ctx))
	require.NoError(t, sess.Login(ctx))
	assert.True(t, sess.IsAdmin(ctx))

	raw, ok, _ := store.Get(ctx, KeyLogoutAt)
	require.True(t, ok)
	assert.Equal(t, strconv.FormatInt(clock.Now().Add(600*time.Second).UnixMilli(), 10), raw)

	remaining, err := sess.Remaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 600, remaining)
}

func TestLoginWritesDeadlineBeforeFlag(t *testing.T) {
	ctx := context.Background()
	store := &orderedStorage{MemoryStorage: NewMemoryStorage()}

	require.NoError(t, New(store).Login(ctx))
	assert.Equal(t, []string{KeyLogoutAt, KeyIsAdmin}, store.sets)
}

func TestOutOfRangeDeadlineIsAbsent(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStorage()
	require.NoError(t, store.Set(ctx, KeyIsAdmin, "true"))
	require.NoError(t, store.Set(ctx, KeyLogoutAt, "-9223372036854775800"))

	sess := New(store, WithClock(clock.Now))
	_, err := sess.Remaining(ctx)
	assert.ErrorIs(t, err, ErrNoExpiry)

	_, expired, err := sess.Check(ctx)
	require.NoError(t, err)
	assert.True(t, expired)
	assert.False(t, sess.IsAdmin(ctx))
}

func TestMountEstablishesDeadlineOnce(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStorage()
	sess := New(store, WithClock(clock.Now))

	first, err := sess.Mount(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, clock.Now().Add(600000*time.Millisecond), first, 0)

	// Navigating to another page later must not push the deadline back.
	clock.Advance(4 * time.Minute)
	second, err := New(store, WithClock(clock.Now)).Mount(ctx)
	require.NoError(t, err)
	assert.True(t, first.Equal(second), "deadline moved from %v to %v", first, second)

	remaining, err := sess.Remaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 360, remaining)
}

func TestMountWithRealClock(t *testing.T) {
	ctx := context.Background()
	sess := New(NewMemoryStorage())

	before := time.Now()
	at, err := sess.Mount(ctx)
	require.NoError(t, err)

	assert.WithinDuration(t, before.Add(600000*time.Millisecond), at, time.Second)
}

func TestMountReplacesCorruptDeadline(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStorage()
	require.NoError(t, store.Set(ctx, KeyLogoutAt, "garbage"))

	sess := New(store, WithClock(clock.Now))
	_, err := sess.LogoutAt(ctx)
	assert.ErrorIs(t, err, ErrNoExpiry)

	at, err := sess.Mount(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, clock.Now().Add(DefaultWindow), at, 0)
}

func TestRemainingRoundsDown(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	sess := New(NewMemoryStorage(), WithClock(clock.Now), WithWindow(10*time.Second))
	require.NoError(t, sess.Login(ctx))

	clock.Advance(1500 * time.Millisecond)
	remaining, err := sess.Remaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, remaining)

	clock.Advance(9 * time.Second)
	remaining, err = sess.Remaining(ctx)
	require.NoError(t, err)
	assert.Equal(t, -1, remaining)
}

func TestCheckClearsExpiredSession(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStorage()
	sess := New(store, WithClock(clock.Now), WithWindow(5*time.Second))
	require.NoError(t, sess.Login(ctx))

	remaining, expired, err := sess.Check(ctx)
	require.NoError(t, err)
	assert.False(t, expired)
	assert.Equal(t, 5, remaining)

	clock.Advance(5 * time.Second)
	_, expired, err = sess.Check(ctx)
	require.NoError(t, err)
	assert.True(t, expired)

	_, ok, _ := store.Get(ctx, KeyIsAdmin)
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, KeyLogoutAt)
	assert.False(t, ok)
}

func TestCheckTreatsMissingDeadlineAsExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.Set(ctx, KeyIsAdmin, "true"))

	_, expired, err := New(store).Check(ctx)
	require.NoError(t, err)
	assert.True(t, expired)
	assert.False(t, New(store).IsAdmin(ctx))
}

func TestLogoutLooksLoggedOutOnNextMount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	sess := New(store)
	require.NoError(t, sess.Login(ctx))

	require.NoError(t, sess.Clear(ctx))

	next := New(store)
	assert.False(t, next.IsAdmin(ctx))
	_, err := next.LogoutAt(ctx)
	assert.ErrorIs(t, err, ErrNoExpiry)
}

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	sess := New(failingStorage{})

	assert.False(t, sess.IsAdmin(ctx))
	assert.Error(t, sess.Login(ctx))

	_, err := sess.Mount(ctx)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoExpiry)

	_, expired, err := sess.Check(ctx)
	assert.Error(t, err)
	assert.False(t, expired)
}

func TestWithWindowIgnoresNonPositive(t *testing.T) {
	sess := New(NewMemoryStorage(), WithWindow(0))
	assert.Equal(t, DefaultWindow, sess.Window())
}

func TestFlash(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStorage()
	sess := New(store, WithClock(clock.Now))

	msg, _, err := sess.Flash(ctx)
	require.NoError(t, err)
	assert.Empty(t, msg)

	require.NoError(t, sess.SetFlash(ctx, "아이디 또는 비밀번호가 올바르지 않아요", LoginErrorTTL))

	clock.Advance(time.Second)
	msg, left, err := sess.Flash(ctx)
	require.NoError(t, err)
	assert.Equal(t, "아이디 또는 비밀번호가 올바르지 않아요", msg)
	assert.Equal(t, 2*time.Second, left)

	clock.Advance(2 * time.Second)
	msg, _, err = sess.Flash(ctx)
	require.NoError(t, err)
	assert.Empty(t, msg)

	_, ok, _ := store.Get(ctx, keyFlash)
	assert.False(t, ok)
}

func TestFlashKeepsSeparatorInMessage(t *testing.T) {
	ctx := context.Background()
	sess := New(NewMemoryStorage())

	require.NoError(t, sess.SetFlash(ctx, "a|b", CopyConfirmationTTL))
	msg, _, err := sess.Flash(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a|b", msg)
}
