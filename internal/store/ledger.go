package store

import (
	"context"
	"fmt"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// LoadLedger returns the persisted override ledger.
// Implements engine.ConfigStore.
func (s *Store) LoadLedger(ctx context.Context) (model.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT channel, value
		FROM original_volumes
		ORDER BY channel COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	ledger := model.Ledger{}
	for rows.Next() {
		var (
			channel string
			value   float64
		)
		if err := rows.Scan(&channel, &value); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		ledger[channel] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger: %w", err)
	}

	return ledger, nil
}

// PutOriginal records a channel's original value.
// Uses ON CONFLICT DO NOTHING: an existing entry is never overwritten.
func (s *Store) PutOriginal(ctx context.Context, channel string, value float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO original_volumes (channel, value)
		VALUES (?, ?)
		ON CONFLICT(channel) DO NOTHING
	`, channel, value)
	if err != nil {
		return fmt.Errorf("put original %s: %w", channel, err)
	}
	return nil
}

// DeleteOriginal removes a channel's ledger entry. Deleting an absent
// entry is not an error.
func (s *Store) DeleteOriginal(ctx context.Context, channel string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM original_volumes WHERE channel = ?`, channel)
	if err != nil {
		return fmt.Errorf("delete original %s: %w", channel, err)
	}
	return nil
}
