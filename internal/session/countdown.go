package session

import (
	"context"
	"log"
	"sync"
	"time"
)

// Tick is one countdown update. The last tick of an expired session has
// Expired set and is followed by the channel closing.
type Tick struct {
	Remaining int
	Expired   bool
}

func (t Tick) String() string {
	return FormatTime(t.Remaining)
}

// Countdown drives the idle-logout timer for every open page. Each page
// subscribes on mount and unsubscribes when it goes away; subscriptions
// share nothing but the persisted deadline.
type Countdown struct {
	interval time.Duration

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]context.CancelFunc
	closed bool
}

func NewCountdown(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		interval: interval,
		subs:     make(map[uint64]context.CancelFunc),
	}
}

// Subscribe starts a ticker for sess. The returned func unsubscribes; it is
// safe to call more than once and after expiry. Cancelling ctx has the
// same effect.
func (c *Countdown) Subscribe(ctx context.Context, sess *Session) (<-chan Tick, func()) {
	ctx, cancel := context.WithCancel(ctx)
	ticks := make(chan Tick, 1)

	id, ok := c.add(cancel)
	if !ok {
		cancel()
		close(ticks)
		return ticks, func() {}
	}

	go func() {
		defer close(ticks)
		defer c.remove(id)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			remaining, expired, err := sess.Check(ctx)
			if err != nil && !expired {
				log.Printf("Countdown: failed to read session: %v", err)
				continue
			}
			if err != nil {
				log.Printf("Countdown: session expired but clear failed: %v", err)
			}

			select {
			case ticks <- Tick{Remaining: remaining, Expired: expired}:
			case <-ctx.Done():
				return
			}
			if expired {
				return
			}
		}
	}()

	return ticks, cancel
}

// Active returns the number of live subscriptions
func (c *Countdown) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Close cancels every subscription and rejects new ones
func (c *Countdown) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, cancel := range c.subs {
		cancel()
	}
}

func (c *Countdown) add(cancel context.CancelFunc) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, false
	}
	c.nextID++
	c.subs[c.nextID] = cancel
	return c.nextID, true
}

func (c *Countdown) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cancel, ok := c.subs[id]; ok {
		cancel()
		delete(c.subs, id)
	}
}
