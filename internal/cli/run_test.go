package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// setupTrigger enables triggers and adds an Elwynn Forest profile that
// sets master to 0.5.
func setupTrigger(t *testing.T, db string) {
	t.Helper()
	mustExecute(t, db, "enable")
	mustExecute(t, db, "trigger", "add", "--name", "Test 1", "--priority", "10",
		"--zone", "Elwynn Forest", "--volume", "master=0.5")
}

func TestRunAppliesLocationFromStdin(t *testing.T) {
	db := tempDB(t)
	setupTrigger(t, db)

	out, err := executeWithInput(t, db, "# comment\n\nElwynn Forest|Goldshire|\n", "run")
	require.NoError(t, err)
	assert.Contains(t, out, "--\n")
	assert.Contains(t, out, "stopped")

	channels := mustExecute(t, db, "channels")
	assert.Contains(t, channels, "master     0.5    overridden (original 1)")

	status := mustExecute(t, db, "status")
	assert.Contains(t, status, `realm="Elwynn Forest" sub="Goldshire"`)
}

func TestRunRestoresOnZoneExit(t *testing.T) {
	db := tempDB(t)
	setupTrigger(t, db)
	mustExecute(t, db, "zone", "--realm", "Elwynn Forest")

	_, err := executeWithInput(t, db, "Westfall\n", "run")
	require.NoError(t, err)

	channels := mustExecute(t, db, "channels")
	assert.Contains(t, channels, "master     1      free")
	assert.NotContains(t, channels, "overridden")
}

func TestRunEmptyInput(t *testing.T) {
	db := tempDB(t)

	out, err := executeWithInput(t, db, "", "run")
	require.NoError(t, err)
	// Initial pass only.
	assert.Contains(t, out, "master     1      free")
	assert.Contains(t, out, "stopped")
}

func TestRunJSONOutput(t *testing.T) {
	db := tempDB(t)

	out, err := executeWithInput(t, db, "", "--format", "json", "run")
	require.NoError(t, err)
	assert.NotContains(t, out, "stopped")

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	rows, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, rows, len(model.DefaultChannels))
}

func TestRunRejectsArgs(t *testing.T) {
	_, err := execute(t, tempDB(t), "run", "extra")
	require.Error(t, err)
}

func TestParseLocationLine(t *testing.T) {
	tests := []struct {
		line string
		want model.Location
		ok   bool
	}{
		{"", model.Location{}, false},
		{"   ", model.Location{}, false},
		{"# Elwynn Forest", model.Location{}, false},
		{"Elwynn Forest", model.Location{Realm: "Elwynn Forest"}, true},
		{"Elwynn Forest|Goldshire", model.Location{Realm: "Elwynn Forest", SubZone: "Goldshire"}, true},
		{" Stormwind City | Trade District | Stormwind ", model.Location{Realm: "Stormwind City", SubZone: "Trade District", Minimap: "Stormwind"}, true},
		{"||The Deadmines", model.Location{Minimap: "The Deadmines"}, true},
		{"a|b|c|d", model.Location{Realm: "a", SubZone: "b", Minimap: "c|d"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseLocationLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
