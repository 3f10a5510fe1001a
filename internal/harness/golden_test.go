package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	files, err := FindScenarios(filepath.Join("testdata", "scenarios"), "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		file := file
		t.Run(strings.TrimSuffix(filepath.Base(file), ".yaml"), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestFormatTrace_OneLinePerStep(t *testing.T) {
	trace := []TraceEvent{
		{
			Step:     1,
			Action:   ActionRefresh,
			Passes:   1,
			Writes:   []model.ChannelWrite{{Channel: "master", From: 1, To: 0.5, Kind: model.WriteApply}},
			Ledger:   model.Ledger{"master": 1},
			Channels: map[string]float64{"master": 0.5},
		},
		{
			Step:     2,
			Action:   ActionSetChannel,
			Writes:   []model.ChannelWrite{},
			Ledger:   model.Ledger{},
			Channels: map[string]float64{"master": 0.7},
		},
	}

	out, err := FormatTrace(trace)
	require.NoError(t, err)

	want := `{"action":"refresh","channels":{"master":0.5},"ledger":{"master":1},"passes":1,"step":1,"writes":[{"channel":"master","from":1,"kind":"apply","to":0.5}]}` + "\n" +
		`{"action":"set_channel","channels":{"master":0.7},"ledger":{},"passes":0,"step":2,"writes":[]}` + "\n"
	assert.Equal(t, want, string(out))
}

func TestFormatTrace_Empty(t *testing.T) {
	out, err := FormatTrace(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFormatTrace_Deterministic(t *testing.T) {
	scenario := zoneWalkScenario()

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := FormatTrace(first.Trace)
	require.NoError(t, err)
	b, err := FormatTrace(second.Trace)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
