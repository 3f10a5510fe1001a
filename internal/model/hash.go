package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainProfileSet = "volumesliders/profile-set/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ProfileSetHash fingerprints the trigger configuration: the enable flag and
// the ordered profile list. Two configurations with equal hashes produce the
// same Zone Index, so the engine rebuilds only when the hash moves.
func ProfileSetHash(enabled bool, profiles []Profile) (string, error) {
	list := make([]any, len(profiles))
	for i, p := range profiles {
		rec := profileRecord(p)
		rec["malformed"] = p.Malformed
		list[i] = rec
	}
	canonical, err := MarshalCanonical(map[string]any{
		"enabled":  enabled,
		"profiles": list,
	})
	if err != nil {
		return "", fmt.Errorf("ProfileSetHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProfileSet, canonical), nil
}

// MustProfileSetHash is like ProfileSetHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustProfileSetHash(enabled bool, profiles []Profile) string {
	h, err := ProfileSetHash(enabled, profiles)
	if err != nil {
		panic(err)
	}
	return h
}
