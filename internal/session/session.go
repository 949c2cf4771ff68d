// Package session keeps the operator's idle-logout state.
//
// A Session is created per browser and reads and writes two keys in its
// Storage: isAdmin and logoutAt. The deadline is set once, by Login or by
// the first protected page mounted afterwards, and is never pushed back by
// activity. Only a new login renews it.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gbnam453/nalbom-admin/internal/utils"
)

const (
	KeyIsAdmin  = "isAdmin"
	KeyLogoutAt = "logoutAt"

	// DefaultWindow is the idle-logout window
	DefaultWindow = 600 * time.Second
)

// ErrNoExpiry is returned when no usable logout deadline is persisted
var ErrNoExpiry = errors.New("no logout deadline")

// Session is the explicit session context handed to every page
type Session struct {
	store  Storage
	window time.Duration
	now    func() time.Time
}

type Option func(*Session)

// WithWindow overrides the idle-logout window
func WithWindow(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func New(store Storage, opts ...Option) *Session {
	s := &Session{
		store:  store,
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Window() time.Duration {
	return s.window
}

// Login marks the operator as authenticated and starts a fresh window
func (s *Session) Login(ctx context.Context) error {
	// The deadline is written first so the admin flag never exists without one.
	if err := s.store.Set(ctx, KeyLogoutAt, utils.FormatUnixMillis(s.now().Add(s.window))); err != nil {
		return fmt.Errorf("failed to set logout deadline: %w", err)
	}
	if err := s.store.Set(ctx, KeyIsAdmin, "true"); err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}
	return nil
}

// IsAdmin reports whether the admin flag is present. Storage errors count
// as not logged in.
func (s *Session) IsAdmin(ctx context.Context) bool {
	_, ok, err := s.store.Get(ctx, KeyIsAdmin)
	return err == nil && ok
}

// LogoutAt returns the persisted deadline
func (s *Session) LogoutAt(ctx context.Context) (time.Time, error) {
	raw, ok, err := s.store.Get(ctx, KeyLogoutAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read logout deadline: %w", err)
	}
	if !ok {
		return time.Time{}, ErrNoExpiry
	}
	t, err := utils.ParseUnixMillis(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoExpiry, err)
	}
	return t, nil
}

// Mount establishes the deadline for a page being shown. An existing
// deadline is returned unchanged.
func (s *Session) Mount(ctx context.Context) (time.Time, error) {
	at, err := s.LogoutAt(ctx)
	if err == nil {
		return at, nil
	}
	if !errors.Is(err, ErrNoExpiry) {
		return time.Time{}, err
	}
	at = s.now().Add(s.window)
	if err := s.store.Set(ctx, KeyLogoutAt, utils.FormatUnixMillis(at)); err != nil {
		return time.Time{}, fmt.Errorf("failed to set logout deadline: %w", err)
	}
	return time.UnixMilli(at.UnixMilli()), nil
}

// Remaining returns the whole seconds left before logout, rounded down.
// The result is zero or negative once the deadline has passed.
func (s *Session) Remaining(ctx context.Context) (int, error) {
	at, err := s.LogoutAt(ctx)
	if err != nil {
		return 0, err
	}
	ms := at.UnixMilli() - s.now().UnixMilli()
	return int(math.Floor(float64(ms) / 1000)), nil
}

// Check evaluates the deadline once. When it has passed, or is missing,
// the session is cleared and expired is true.
func (s *Session) Check(ctx context.Context) (remaining int, expired bool, err error) {
	remaining, err = s.Remaining(ctx)
	if err != nil && !errors.Is(err, ErrNoExpiry) {
		return 0, false, err
	}
	if err == nil && remaining > 0 {
		return remaining, false, nil
	}
	if err := s.Clear(ctx); err != nil {
		return 0, true, err
	}
	return 0, true, nil
}

// Clear removes both session keys together
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, KeyIsAdmin, KeyLogoutAt); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
