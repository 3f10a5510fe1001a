package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

func sampleEvent() TraceEvent {
	return TraceEvent{
		Step:   2,
		Action: ActionLocation,
		Passes: 1,
		Writes: []model.ChannelWrite{
			{Channel: "master", From: 0.2, To: 0.5, Kind: model.WriteUpdate},
		},
		Ledger:   model.Ledger{"master": 1.0},
		Channels: map[string]float64{"master": 0.5, "music": 0.8},
	}
}

func TestCheckExpect_AllMatch(t *testing.T) {
	errs := checkExpect(sampleEvent(), ExpectClause{
		Channels: map[string]float64{"master": 0.5},
		Ledger:   map[string]float64{"master": 1.0},
		Writes:   intPtr(1),
		Passes:   intPtr(1),
	})
	assert.Empty(t, errs)
}

func TestCheckExpect_EmptyClauseChecksNothing(t *testing.T) {
	assert.Empty(t, checkExpect(sampleEvent(), ExpectClause{}))
}

func TestAssertChannels_SubsetSemantics(t *testing.T) {
	ev := sampleEvent()
	assert.NoError(t, assertChannels(ev, map[string]float64{"music": 0.8}))

	err := assertChannels(ev, map[string]float64{"music": 0.5})
	require.Error(t, err)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "channels", ae.Field)
	assert.Equal(t, "{music=0.5}", ae.Expected)
	assert.Equal(t, "music=0.8", ae.Actual)
}

func TestAssertLedger_Exact(t *testing.T) {
	ev := sampleEvent()

	assert.NoError(t, assertLedger(ev, nil), "nil skips the check")
	assert.Error(t, assertLedger(ev, map[string]float64{}), "empty requires an empty ledger")
	assert.Error(t, assertLedger(ev, map[string]float64{"master": 0.9}))
	assert.Error(t, assertLedger(ev, map[string]float64{"master": 1.0, "music": 0.8}))
}

func TestAssertCount(t *testing.T) {
	ev := sampleEvent()
	assert.NoError(t, assertCount(ev, "writes", nil, 7))
	assert.NoError(t, assertCount(ev, "writes", intPtr(1), 1))

	err := assertCount(ev, "passes", intPtr(0), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2 (location): passes mismatch")
	assert.Contains(t, err.Error(), "Expected: 0")
	assert.Contains(t, err.Error(), "Actual: 1")
}

func TestAssertionError_ListsWrites(t *testing.T) {
	err := assertCount(sampleEvent(), "writes", intPtr(0), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[1] update master 0.2 -> 0.5")
}

func TestFormatValues(t *testing.T) {
	assert.Equal(t, "{}", formatValues(nil))
	assert.Equal(t, "{a=1, b=0.25}", formatValues(map[string]float64{"b": 0.25, "a": 1}))
}
