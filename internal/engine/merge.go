package engine

import (
	"sort"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// Merge resolves the matched profiles into one effective volume per channel.
//
// Profiles are applied in ascending priority, so a higher priority value for
// a shared channel always overwrites a lower one. Among equal priorities the
// profile later in the stored list is applied last and wins. Channels in a
// profile's ignore set are skipped for that profile only. Effective volumes
// are clamped into [0, 1] so they compare equal to what a registry stores.
//
// claimed holds every channel with at least one contributing entry; it has
// exactly the keys of effective.
func Merge(matched []Match) (effective map[string]float64, claimed map[string]bool) {
	ordered := make([]Match, len(matched))
	copy(ordered, matched)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Profile.Priority != ordered[j].Profile.Priority {
			return ordered[i].Profile.Priority < ordered[j].Profile.Priority
		}
		return ordered[i].Position < ordered[j].Position
	})

	effective = make(map[string]float64)
	claimed = make(map[string]bool)
	for _, m := range ordered {
		for ch, v := range m.Profile.Volumes {
			if m.Profile.IsIgnored(ch) {
				continue
			}
			effective[ch] = model.ClampVolume(v)
			claimed[ch] = true
		}
	}

	return effective, claimed
}
