package store

import (
	"context"
	"fmt"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// AppendPass records a pass in the pass log.
// Uses ON CONFLICT(seq) DO NOTHING: replaying the same pass is a no-op.
// Implements engine.PassLog.
func (s *Store) AppendPass(ctx context.Context, p model.Pass) error {
	location, err := marshalLocation(p.Location)
	if err != nil {
		return fmt.Errorf("append pass %d: %w", p.Seq, err)
	}
	matched, err := marshalMatched(p.Matched)
	if err != nil {
		return fmt.Errorf("append pass %d: %w", p.Seq, err)
	}
	writes, err := marshalWrites(p.Writes)
	if err != nil {
		return fmt.Errorf("append pass %d: %w", p.Seq, err)
	}
	ledger, err := marshalLedger(p.Ledger)
	if err != nil {
		return fmt.Errorf("append pass %d: %w", p.Seq, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO passes (seq, active, location, matched, writes, ledger)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`, p.Seq, p.Active, location, matched, writes, ledger)
	if err != nil {
		return fmt.Errorf("append pass %d: %w", p.Seq, err)
	}
	return nil
}

// ReadPasses returns logged passes in seq order. limit <= 0 returns all;
// otherwise the most recent limit passes are returned, still oldest first.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ReadPasses(ctx context.Context, limit int) ([]model.Pass, error) {
	query := `
		SELECT seq, active, location, matched, writes, ledger FROM (
			SELECT * FROM passes ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}
	defer rows.Close()

	passes := []model.Pass{}
	for rows.Next() {
		var (
			p                                 model.Pass
			location, matched, writes, ledger string
		)
		if err := rows.Scan(&p.Seq, &p.Active, &location, &matched, &writes, &ledger); err != nil {
			return nil, fmt.Errorf("scan pass: %w", err)
		}
		if p.Location, err = unmarshalLocation(location); err != nil {
			return nil, fmt.Errorf("pass %d: %w", p.Seq, err)
		}
		if p.Matched, err = unmarshalMatched(matched); err != nil {
			return nil, fmt.Errorf("pass %d: %w", p.Seq, err)
		}
		if p.Writes, err = unmarshalWrites(writes); err != nil {
			return nil, fmt.Errorf("pass %d: %w", p.Seq, err)
		}
		if p.Ledger, err = unmarshalLedger(ledger); err != nil {
			return nil, fmt.Errorf("pass %d: %w", p.Seq, err)
		}
		passes = append(passes, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passes: %w", err)
	}

	return passes, nil
}

// LastPassSeq returns the highest logged seq, or 0 for an empty log.
// Feed it to engine.NewClockAt so a restarted engine keeps numbering.
func (s *Store) LastPassSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM passes`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last pass seq: %w", err)
	}
	return seq, nil
}
