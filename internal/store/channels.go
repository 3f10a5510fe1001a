package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReadChannel returns a channel's stored CVar text.
// Implements registry.TextStore.
func (s *Store) ReadChannel(ctx context.Context, name string) (string, bool, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM channels WHERE name = ?`, name).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read channel %s: %w", name, err)
	}
	return text, true, nil
}

// WriteChannel stores a channel's CVar text.
func (s *Store) WriteChannel(ctx context.Context, name, text string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO channels (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, name, text)
	if err != nil {
		return fmt.Errorf("write channel %s: %w", name, err)
	}
	return nil
}
