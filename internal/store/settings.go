package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

const (
	keyEnableTriggers  = "enable_triggers"
	keyLocationRealm   = "location.realm"
	keyLocationSubZone = "location.sub_zone"
	keyLocationMinimap = "location.minimap"
)

// getSetting returns a setting's value and whether it exists.
func (s *Store) getSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// putSetting inserts or replaces a setting.
func putSetting(ctx context.Context, ex execer, key, value string) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SetTriggersEnabled stores the enableTriggers flag.
func (s *Store) SetTriggersEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return putSetting(ctx, s.db, keyEnableTriggers, value)
}

// TriggersEnabled returns the enableTriggers flag. A store that never saved
// the flag reports false.
func (s *Store) TriggersEnabled(ctx context.Context) (bool, error) {
	value, found, err := s.getSetting(ctx, keyEnableTriggers)
	if err != nil {
		return false, err
	}
	return found && value == "true", nil
}

// SaveLocation stores the last known location so a restarted process
// resumes where the player was.
func (s *Store) SaveLocation(ctx context.Context, loc model.Location) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save location: begin: %w", err)
	}
	defer tx.Rollback()

	for key, value := range map[string]string{
		keyLocationRealm:   loc.Realm,
		keyLocationSubZone: loc.SubZone,
		keyLocationMinimap: loc.Minimap,
	} {
		if err := putSetting(ctx, tx, key, value); err != nil {
			return fmt.Errorf("save location: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save location: commit: %w", err)
	}
	return nil
}

// LoadLocation returns the last saved location, or the zero Location.
func (s *Store) LoadLocation(ctx context.Context) (model.Location, error) {
	var loc model.Location
	for key, dst := range map[string]*string{
		keyLocationRealm:   &loc.Realm,
		keyLocationSubZone: &loc.SubZone,
		keyLocationMinimap: &loc.Minimap,
	} {
		value, _, err := s.getSetting(ctx, key)
		if err != nil {
			return model.Location{}, fmt.Errorf("load location: %w", err)
		}
		*dst = value
	}
	return loc, nil
}
