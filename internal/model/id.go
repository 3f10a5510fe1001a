package model

import "github.com/google/uuid"

// NewProfileID returns a time-sortable UUIDv7 for a new profile, so the
// CLI listing order of freshly created profiles follows creation time.
//
// Panics if UUID generation fails (should never happen in practice).
func NewProfileID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// IsProfileID reports whether s parses as a UUID.
func IsProfileID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
