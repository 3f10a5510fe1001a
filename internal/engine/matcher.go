package engine

import (
	"sort"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// Match is a profile selected by the evaluator, with its position in the
// stored list. Position is the profile's identity within one pass.
type Match struct {
	Position int
	Profile  model.Profile
}

// Evaluate returns the positions of every profile referenced by any of the
// location's labels.
//
// A profile that matches through several simultaneously-true labels is
// returned once. Empty labels contribute nothing. The result is sorted
// ascending; callers must not rely on any order beyond that.
func (idx *ZoneIndex) Evaluate(loc model.Location) []int {
	if idx.Len() == 0 {
		return nil
	}

	seen := make(map[int]bool)
	var positions []int
	for _, label := range loc.Labels() {
		for _, pos := range idx.Lookup(label) {
			if seen[pos] {
				continue
			}
			seen[pos] = true
			positions = append(positions, pos)
		}
	}

	sort.Ints(positions)
	return positions
}

// matchesFor resolves evaluator positions against the profile list.
// Positions outside the list are ignored.
func matchesFor(positions []int, profiles []model.Profile) []Match {
	matches := make([]Match, 0, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(profiles) {
			continue
		}
		matches = append(matches, Match{Position: pos, Profile: profiles[pos]})
	}
	return matches
}
