package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gbnam453/nalbom-admin/internal/utils"
)

const keyFlash = "flash"

const (
	// LoginErrorTTL is how long a failed-login message stays visible
	LoginErrorTTL = 3 * time.Second
	// CopyConfirmationTTL is how long the copied-link confirmation stays visible
	CopyConfirmationTTL = 2 * time.Second
)

// SetFlash stores a message that disappears after ttl
func (s *Session) SetFlash(ctx context.Context, msg string, ttl time.Duration) error {
	value := utils.FormatUnixMillis(s.now().Add(ttl)) + "|" + msg
	if err := s.store.Set(ctx, keyFlash, value); err != nil {
		return fmt.Errorf("failed to set flash: %w", err)
	}
	return nil
}

// Flash returns the pending message and how long it remains visible. An
// expired message is removed and reported as empty.
func (s *Session) Flash(ctx context.Context) (string, time.Duration, error) {
	raw, ok, err := s.store.Get(ctx, keyFlash)
	if err != nil || !ok {
		return "", 0, err
	}
	deadline, msg, found := strings.Cut(raw, "|")
	at, perr := utils.ParseUnixMillis(deadline)
	left := at.Sub(s.now())
	if !found || perr != nil || left <= 0 {
		return "", 0, s.store.Remove(ctx, keyFlash)
	}
	return msg, left, nil
}
