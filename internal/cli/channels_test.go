package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelsListsSeededDefaults(t *testing.T) {
	out := mustExecute(t, tempDB(t), "channels")

	for _, line := range []string{
		"ambience   1      free",
		"dialog     1      free",
		"master     1      free",
		"music      1      free",
		"sfx        1      free",
	} {
		assert.Contains(t, out, line)
	}
}

func TestChannelsSet(t *testing.T) {
	db := tempDB(t)

	out := mustExecute(t, db, "channels", "set", "music", "0.6")
	assert.Equal(t, "music = 0.6\n", out)

	out = mustExecute(t, db, "channels")
	assert.Contains(t, out, "music      0.6    free")
}

func TestChannelsSetClamps(t *testing.T) {
	db := tempDB(t)

	out := mustExecute(t, db, "--format", "json", "channels", "set", "sfx", "1.7")
	resp := decodeResponse(t, out)
	row := resp.Data.(map[string]any)
	assert.Equal(t, "sfx", row["name"])
	assert.Equal(t, float64(1), row["value"])
}

func TestChannelsSetErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown channel", []string{"channels", "set", "cinematic", "0.5"}, `unknown channel "cinematic"`},
		{"bad value", []string{"channels", "set", "music", "loud"}, `invalid volume "loud"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tempDB(t), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), ErrCodeBadArgument)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestChannelsSetKeepsLedgeredOriginal(t *testing.T) {
	db := tempDB(t)
	setupTrigger(t, db)
	mustExecute(t, db, "zone", "--realm", "Elwynn Forest")

	// A slider change while overridden does not replace the original.
	mustExecute(t, db, "channels", "set", "master", "0.9")
	out := mustExecute(t, db, "channels")
	assert.Contains(t, out, "master     0.9    overridden (original 1)")

	// The next pass brings the channel back to the trigger value.
	mustExecute(t, db, "refresh")
	out = mustExecute(t, db, "channels")
	assert.Contains(t, out, "master     0.5    overridden (original 1)")
}
