package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInterval = 5 * time.Millisecond

func collect(t *testing.T, ticks <-chan Tick, timeout time.Duration) []Tick {
	t.Helper()
	var got []Tick
	deadline := time.After(timeout)
	for {
		select {
		case tick, ok := <-ticks:
			if !ok {
				return got
			}
			got = append(got, tick)
		case <-deadline:
			t.Fatalf("countdown channel not closed after %v (got %d ticks)", timeout, len(got))
		}
	}
}

func TestCountdownPublishesRemaining(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	sess := New(NewMemoryStorage(), WithClock(clock.Now))
	require.NoError(t, sess.Login(ctx))

	cd := NewCountdown(testInterval)
	ticks, cancel := cd.Subscribe(ctx, sess)
	defer cancel()

	select {
	case tick := <-ticks:
		assert.False(t, tick.Expired)
		assert.Equal(t, 600, tick.Remaining)
		assert.Equal(t, "10:00", tick.String())
	case <-time.After(time.Second):
		t.Fatal("no tick received")
	}
	assert.Equal(t, 1, cd.Active())
}

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := &countingStorage{MemoryStorage: NewMemoryStorage()}
	sess := New(store, WithClock(clock.Now), WithWindow(time.Second))
	require.NoError(t, sess.Login(ctx))
	clock.Advance(2 * time.Second)

	cd := NewCountdown(testInterval)
	ticks, cancel := cd.Subscribe(ctx, sess)

	got := collect(t, ticks, time.Second)
	require.Len(t, got, 1)
	assert.True(t, got[0].Expired)
	assert.Equal(t, "00:00", got[0].String())
	assert.Equal(t, 1, store.Removes())

	// Unsubscribing after expiry is harmless and nothing fires again.
	cancel()
	cancel()
	time.Sleep(4 * testInterval)
	assert.Equal(t, 1, store.Removes())
	assert.Equal(t, 0, cd.Active())
	assert.False(t, sess.IsAdmin(ctx))
}

func TestCountdownExpiresWhenDeadlineReached(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	sess := New(NewMemoryStorage(), WithClock(clock.Now), WithWindow(3*time.Second))
	require.NoError(t, sess.Login(ctx))

	cd := NewCountdown(testInterval)
	ticks, cancel := cd.Subscribe(ctx, sess)
	defer cancel()

	first := <-ticks
	assert.Equal(t, 3, first.Remaining)

	clock.Advance(3 * time.Second)
	rest := collect(t, ticks, time.Second)
	require.NotEmpty(t, rest)
	last := rest[len(rest)-1]
	assert.True(t, last.Expired)
	for _, tick := range rest[:len(rest)-1] {
		assert.False(t, tick.Expired)
	}
}

func TestCountdownUnsubscribeStopsTicker(t *testing.T) {
	ctx := context.Background()
	sess := New(NewMemoryStorage())
	require.NoError(t, sess.Login(ctx))

	cd := NewCountdown(testInterval)
	ticks, cancel := cd.Subscribe(ctx, sess)
	<-ticks
	cancel()

	collect(t, ticks, time.Second)
	assert.Equal(t, 0, cd.Active())
	assert.True(t, sess.IsAdmin(ctx), "unsubscribing must not log out")
}

func TestCountdownContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sess := New(NewMemoryStorage())
	require.NoError(t, sess.Login(ctx))

	cd := NewCountdown(testInterval)
	ticks, unsubscribe := cd.Subscribe(ctx, sess)
	defer unsubscribe()

	cancel()
	collect(t, ticks, time.Second)
	assert.Equal(t, 0, cd.Active())
}

func TestCountdownIndependentSubscriptions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	sess := New(store)
	require.NoError(t, sess.Login(ctx))

	cd := NewCountdown(testInterval)
	a, cancelA := cd.Subscribe(ctx, sess)
	b, cancelB := cd.Subscribe(ctx, New(store))
	defer cancelB()
	assert.Equal(t, 2, cd.Active())

	cancelA()
	collect(t, a, time.Second)

	select {
	case tick := <-b:
		assert.False(t, tick.Expired)
	case <-time.After(time.Second):
		t.Fatal("second page stopped ticking")
	}
	assert.Equal(t, 1, cd.Active())
}

func TestCountdownMissingDeadlineExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.Set(ctx, KeyIsAdmin, "true"))

	cd := NewCountdown(testInterval)
	ticks, cancel := cd.Subscribe(ctx, New(store))
	defer cancel()

	got := collect(t, ticks, time.Second)
	require.Len(t, got, 1)
	assert.True(t, got[0].Expired)
}

func TestCountdownClose(t *testing.T) {
	ctx := context.Background()
	sess := New(NewMemoryStorage())
	require.NoError(t, sess.Login(ctx))

	cd := NewCountdown(testInterval)
	ticks, cancel := cd.Subscribe(ctx, sess)
	defer cancel()

	cd.Close()
	collect(t, ticks, time.Second)

	late, lateCancel := cd.Subscribe(ctx, sess)
	defer lateCancel()
	_, ok := <-late
	assert.False(t, ok, "subscriptions after Close must be closed immediately")
}

func TestNewCountdownDefaultsInterval(t *testing.T) {
	cd := NewCountdown(0)
	assert.Equal(t, time.Second, cd.interval)
}
