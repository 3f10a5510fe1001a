package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

func TestEvaluate_UnionOfLabels(t *testing.T) {
	idx := BuildZoneIndex([]model.Profile{
		profile("realm", 1, []string{"Elwynn Forest"}, nil),
		profile("sub", 1, []string{"Goldshire"}, nil),
		profile("mini", 1, []string{"Lion's Pride Inn"}, nil),
		profile("other", 1, []string{"Durotar"}, nil),
	}, true)

	got := idx.Evaluate(model.Location{
		Realm:   "Elwynn Forest",
		SubZone: "Goldshire",
		Minimap: "Lion's Pride Inn",
	})
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestEvaluate_DedupAcrossLabels(t *testing.T) {
	idx := BuildZoneIndex([]model.Profile{
		profile("both", 1, []string{"Elwynn Forest", "Goldshire"}, nil),
	}, true)

	got := idx.Evaluate(model.Location{Realm: "Elwynn Forest", SubZone: "Goldshire"})
	assert.Equal(t, []int{0}, got)
}

func TestEvaluate_CaseInsensitive(t *testing.T) {
	idx := BuildZoneIndex([]model.Profile{
		profile("a", 1, []string{"Stormwind City"}, nil),
	}, true)

	assert.Equal(t, []int{0}, idx.Evaluate(model.Location{Realm: "STORMWIND city"}))
}

func TestEvaluate_EmptyLabelsContributeNothing(t *testing.T) {
	idx := BuildZoneIndex([]model.Profile{
		profile("a", 1, []string{"Durotar"}, nil),
	}, true)

	assert.Empty(t, idx.Evaluate(model.Location{}))
	assert.Empty(t, idx.Evaluate(model.Location{Realm: "Mulgore"}))
}

func TestMatchesFor(t *testing.T) {
	profiles := []model.Profile{
		profile("a", 1, nil, nil),
		profile("b", 2, nil, nil),
	}

	got := matchesFor([]int{1, 5, -1}, profiles)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Position)
	assert.Equal(t, "b", got[0].Profile.ID)
}
