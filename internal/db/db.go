// Package db persists per-browser session state in SQLite.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gbnam453/nalbom-admin/internal/config"
	"github.com/gbnam453/nalbom-admin/internal/migration"
	"github.com/gbnam453/nalbom-admin/internal/session"
	_ "github.com/mattn/go-sqlite3"
)

var _ session.Storage = (*Bucket)(nil)

type DB struct {
	*sql.DB
	now func() time.Time
}

// NewDB opens the SQLite database and applies pending migrations
func NewDB(cfg *config.Config) (*DB, error) {
	db, err := sql.Open("sqlite3", cfg.SQLitePath+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	m, err := migration.NewManagerWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db, now: time.Now}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Bucket returns the key-value storage of one browser session
func (db *DB) Bucket(sessionID string) *Bucket {
	return &Bucket{db: db, sessionID: sessionID}
}

// Bucket is a session.Storage scoped to one browser session id
type Bucket struct {
	db        *DB
	sessionID string
}

func (b *Bucket) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.db.QueryRowContext(ctx,
		"SELECT value FROM session_kv WHERE session_id = ? AND key = ?",
		b.sessionID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (b *Bucket) Set(ctx context.Context, key, value string) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO session_kv (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, b.sessionID, key, value, b.db.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes all keys in a single statement
func (b *Bucket) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, 0, len(keys)+1)
	args = append(args, b.sessionID)
	for _, k := range keys {
		args = append(args, k)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	_, err := b.db.ExecContext(ctx,
		"DELETE FROM session_kv WHERE session_id = ? AND key IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", strings.Join(keys, ", "), err)
	}
	return nil
}

// SweepExpired deletes every session whose logout deadline is at or before
// now. It returns the number of rows removed.
func (db *DB) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `
		DELETE FROM session_kv WHERE session_id IN (
			SELECT session_id FROM session_kv
			WHERE key = ? AND CAST(value AS INTEGER) <= ?
		)
	`, session.KeyLogoutAt, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}
	return res.RowsAffected()
}

// SweepStale deletes sessions without a logout deadline that have not been
// written since before
func (db *DB) SweepStale(ctx context.Context, before time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `
		DELETE FROM session_kv WHERE session_id IN (
			SELECT session_id FROM session_kv
			GROUP BY session_id
			HAVING MAX(updated_at) < ? AND SUM(key = ?) = 0
		)
	`, before.UnixMilli(), session.KeyLogoutAt)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale sessions: %w", err)
	}
	return res.RowsAffected()
}

// CountSessions returns the number of distinct browser sessions stored
func (db *DB) CountSessions(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT session_id) FROM session_kv").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
