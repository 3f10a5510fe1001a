package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// ErrProfileNotFound is returned when no profile has the requested ID.
var ErrProfileNotFound = errors.New("profile not found")

// LoadTriggers returns the enableTriggers flag and the ordered profile list.
// Implements engine.ConfigStore.
func (s *Store) LoadTriggers(ctx context.Context) (bool, []model.Profile, error) {
	enabled, err := s.TriggersEnabled(ctx)
	if err != nil {
		return false, nil, fmt.Errorf("load triggers: %w", err)
	}
	profiles, err := s.Profiles(ctx)
	if err != nil {
		return false, nil, fmt.Errorf("load triggers: %w", err)
	}
	return enabled, profiles, nil
}

// Profiles returns the profile list in stored order.
//
// A record that cannot be decoded at all yields a Malformed profile carrying
// only its ID, so positions stay stable and the engine skips it.
//
// Returns an empty slice (not nil) if no profiles exist.
func (s *Store) Profiles(ctx context.Context) ([]model.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, id, record
		FROM triggers
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query triggers: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		var (
			pos    int
			id     string
			record string
		)
		if err := rows.Scan(&pos, &id, &record); err != nil {
			return nil, fmt.Errorf("scan trigger: %w", err)
		}
		p, err := model.DecodeProfile([]byte(record))
		if err != nil {
			slog.Debug("undecodable trigger record", "position", pos, "id", id, "error", err)
			p = model.Profile{Malformed: true}
		}
		p.ID = id
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate triggers: %w", err)
	}

	return profiles, nil
}

// Profile returns the profile with the given ID and its position.
func (s *Store) Profile(ctx context.Context, id string) (model.Profile, int, error) {
	profiles, err := s.Profiles(ctx)
	if err != nil {
		return model.Profile{}, 0, err
	}
	for pos, p := range profiles {
		if p.ID == id {
			return p, pos, nil
		}
	}
	return model.Profile{}, 0, fmt.Errorf("profile %s: %w", id, ErrProfileNotFound)
}

// SaveProfile inserts a profile at the end of the list, or updates it in
// place when a profile with the same ID exists. A profile without an ID is
// assigned one. Returns the stored profile's ID.
func (s *Store) SaveProfile(ctx context.Context, p model.Profile) (string, error) {
	if p.ID == "" {
		p.ID = model.NewProfileID()
	}
	record, err := model.EncodeProfile(p)
	if err != nil {
		return "", fmt.Errorf("save profile: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE triggers SET record = ? WHERE id = ?`, string(record), p.ID)
	if err != nil {
		return "", fmt.Errorf("save profile %s: %w", p.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return p.ID, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO triggers (position, id, record)
		VALUES ((SELECT COALESCE(MAX(position), -1) + 1 FROM triggers), ?, ?)
	`, p.ID, string(record))
	if err != nil {
		return "", fmt.Errorf("save profile %s: %w", p.ID, err)
	}
	return p.ID, nil
}

// DeleteProfile removes a profile and closes the gap in positions.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	profiles, err := s.Profiles(ctx)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	kept := make([]model.Profile, 0, len(profiles))
	found := false
	for _, p := range profiles {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return fmt.Errorf("delete profile %s: %w", id, ErrProfileNotFound)
	}
	return s.replaceRecords(ctx, kept)
}

// MoveProfile moves a profile to position to, shifting the others.
// to is clamped into the list.
func (s *Store) MoveProfile(ctx context.Context, id string, to int) error {
	profiles, err := s.Profiles(ctx)
	if err != nil {
		return fmt.Errorf("move profile: %w", err)
	}
	from := -1
	for pos, p := range profiles {
		if p.ID == id {
			from = pos
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("move profile %s: %w", id, ErrProfileNotFound)
	}
	if to < 0 {
		to = 0
	}
	if to >= len(profiles) {
		to = len(profiles) - 1
	}

	moved := profiles[from]
	rest := append(profiles[:from:from], profiles[from+1:]...)
	reordered := make([]model.Profile, 0, len(profiles))
	reordered = append(reordered, rest[:to]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, rest[to:]...)

	return s.replaceRecords(ctx, reordered)
}

// ReplaceProfiles replaces the whole list. Profiles without an ID are
// assigned one.
func (s *Store) ReplaceProfiles(ctx context.Context, profiles []model.Profile) error {
	out := make([]model.Profile, len(profiles))
	for i, p := range profiles {
		if p.ID == "" {
			p.ID = model.NewProfileID()
		}
		out[i] = p
	}
	return s.replaceRecords(ctx, out)
}

// replaceRecords rewrites the triggers table in one transaction.
// Malformed profiles keep their original record bytes.
func (s *Store) replaceRecords(ctx context.Context, profiles []model.Profile) error {
	records := make(map[string]string)
	rows, err := s.db.QueryContext(ctx, `SELECT id, record FROM triggers`)
	if err != nil {
		return fmt.Errorf("replace profiles: %w", err)
	}
	for rows.Next() {
		var id, record string
		if err := rows.Scan(&id, &record); err != nil {
			rows.Close()
			return fmt.Errorf("replace profiles: %w", err)
		}
		records[id] = record
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("replace profiles: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace profiles: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM triggers`); err != nil {
		return fmt.Errorf("replace profiles: clear: %w", err)
	}

	for pos, p := range profiles {
		record, ok := records[p.ID]
		if !ok || !p.Malformed {
			data, err := model.EncodeProfile(p)
			if err != nil {
				return fmt.Errorf("replace profiles: %w", err)
			}
			record = string(data)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO triggers (position, id, record) VALUES (?, ?, ?)
		`, pos, p.ID, record); err != nil {
			return fmt.Errorf("replace profiles: insert %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace profiles: commit: %w", err)
	}
	return nil
}
