package expiration

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gbnam453/nalbom-admin/internal/config"
)

// SessionStore is the persisted session state the manager sweeps
type SessionStore interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
	SweepStale(ctx context.Context, before time.Time) (int64, error)
}

// ExpirationManager removes persisted state of browsers that never came
// back after their logout deadline passed
type ExpirationManager struct {
	Config   *config.Config
	store    SessionStore
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewExpirationManager creates a new expiration manager
func NewExpirationManager(cfg *config.Config, store SessionStore) (*ExpirationManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.SweeperEnabled && cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("sweep_interval_min must be greater than 0")
	}

	return &ExpirationManager{
		Config:   cfg,
		store:    store,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins the expiration checking process
func (m *ExpirationManager) Start() {
	if !m.Config.SweeperEnabled {
		log.Println("Expiration manager disabled")
		return
	}

	go func() {
		m.cleanupExpiredSessions()

		ticker := time.NewTicker(m.Config.SweepIntervalDuration())
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.cleanupExpiredSessions()
			case <-m.stopChan:
				log.Println("Expiration manager stopped")
				return
			}
		}
	}()
	log.Printf("Expiration manager started, checking every %d minutes", m.Config.SweepInterval)
}

// Stop halts the expiration checking process. It is safe to call twice.
func (m *ExpirationManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// staleCutoff is the last write time before which a session that never
// logged in is considered abandoned
func (m *ExpirationManager) staleCutoff(now time.Time) time.Time {
	return now.Add(-m.Config.SessionWindowDuration())
}

// cleanupExpiredSessions deletes every session past its logout deadline and
// every abandoned session that never had one
func (m *ExpirationManager) cleanupExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := m.now()
	log.Println("Checking for expired sessions...")

	expired, err := m.store.SweepExpired(ctx, now)
	if err != nil {
		log.Printf("Error sweeping expired sessions: %v", err)
		return
	}

	stale, err := m.store.SweepStale(ctx, m.staleCutoff(now))
	if err != nil {
		log.Printf("Error sweeping stale sessions: %v", err)
		return
	}

	log.Printf("Expiration check complete. Removed %d expired and %d stale entries", expired, stale)
}
