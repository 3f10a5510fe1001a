package engine

import (
	"log/slog"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// ZoneIndex maps a folded zone label to the positions of the profiles that
// reference it. It is rebuilt in full whenever the profile list or the
// enable flag changes and is never persisted.
type ZoneIndex struct {
	buckets map[string][]int
}

// BuildZoneIndex builds the index for a profile list.
//
// A disabled configuration or an empty list yields an empty index.
// Malformed profiles are skipped; the rest of the list is still indexed.
// A profile may appear under several labels, and a label that a profile
// lists twice (after folding) is indexed once for that profile.
func BuildZoneIndex(profiles []model.Profile, enabled bool) *ZoneIndex {
	idx := &ZoneIndex{buckets: make(map[string][]int)}
	if !enabled || len(profiles) == 0 {
		return idx
	}

	for pos, p := range profiles {
		if p.Malformed {
			slog.Debug("skipping malformed profile",
				"position", pos,
				"id", p.ID,
				"name", p.Name,
			)
			continue
		}
		for _, zone := range p.Zones {
			key := model.FoldLabel(zone)
			if key == "" {
				continue
			}
			bucket := idx.buckets[key]
			if n := len(bucket); n > 0 && bucket[n-1] == pos {
				continue
			}
			idx.buckets[key] = append(bucket, pos)
		}
	}

	return idx
}

// Len returns the number of distinct labels in the index.
func (idx *ZoneIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.buckets)
}

// Lookup returns the profile positions indexed under label.
// The label is folded before lookup.
func (idx *ZoneIndex) Lookup(label string) []int {
	if idx == nil {
		return nil
	}
	return idx.buckets[model.FoldLabel(label)]
}
