package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// createTestStore creates a new file-backed store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestProfile creates a profile with a fixed ID.
func createTestProfile(id, name string, priority int, zones ...string) model.Profile {
	return model.Profile{
		ID:       id,
		Name:     name,
		Priority: priority,
		Zones:    zones,
		Volumes:  map[string]float64{"master": 0.5},
		Ignored:  map[string]bool{},
	}
}

// putRawTrigger appends a raw record, bypassing encoding.
func putRawTrigger(t *testing.T, s *Store, id, record string) {
	t.Helper()
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO triggers (position, id, record)
		VALUES ((SELECT COALESCE(MAX(position), -1) + 1 FROM triggers), ?, ?)
	`, id, record)
	if err != nil {
		t.Fatalf("putRawTrigger() failed: %v", err)
	}
}

func profileIDs(profiles []model.Profile) []string {
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids
}
