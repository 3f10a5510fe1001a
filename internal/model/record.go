package model

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// EncodeProfile serializes a profile as a plain saved-variable record.
// The output is canonical JSON so identical profiles store identically.
func EncodeProfile(p Profile) ([]byte, error) {
	data, err := MarshalCanonical(profileRecord(p))
	if err != nil {
		return nil, fmt.Errorf("encode profile %s: %w", p.ID, err)
	}
	return data, nil
}

// DecodeProfile parses a saved-variable record.
//
// Decoding is lenient per field: a field with the wrong shape (for example
// "zones" that is not a list) marks the profile Malformed instead of failing.
// Only a record that is not a JSON object at all returns an error.
func DecodeProfile(data []byte) (Profile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}

	var p Profile
	fields := []struct {
		key string
		dst any
	}{
		{"id", &p.ID},
		{"name", &p.Name},
		{"priority", &p.Priority},
		{"zones", &p.Zones},
		{"volumes", &p.Volumes},
		{"ignored", &p.Ignored},
	}
	for _, f := range fields {
		msg, ok := raw[f.key]
		if !ok || string(msg) == "null" {
			continue
		}
		if err := json.Unmarshal(msg, f.dst); err != nil {
			slog.Debug("malformed profile field",
				"id", p.ID,
				"field", f.key,
				"error", err,
			)
			p.Malformed = true
		}
	}

	return p, nil
}

// profileRecord converts a profile to the map shape MarshalCanonical accepts.
func profileRecord(p Profile) map[string]any {
	zones := make([]any, len(p.Zones))
	for i, z := range p.Zones {
		zones[i] = z
	}
	volumes := make(map[string]any, len(p.Volumes))
	for ch, v := range p.Volumes {
		volumes[ch] = v
	}
	ignored := make(map[string]any, len(p.Ignored))
	for ch, v := range p.Ignored {
		if v {
			ignored[ch] = true
		}
	}
	return map[string]any{
		"id":       p.ID,
		"name":     p.Name,
		"priority": p.Priority,
		"zones":    zones,
		"volumes":  volumes,
		"ignored":  ignored,
	}
}
