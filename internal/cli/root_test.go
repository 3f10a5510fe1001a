package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// execute runs the root command against dbPath and returns stdout.
func execute(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, dbPath, "", args...)
}

func executeWithInput(t *testing.T, dbPath, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// mustExecute fails the test when the command errors.
func mustExecute(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := execute(t, dbPath, args...)
	require.NoError(t, err, "volumesliders %s\n%s", strings.Join(args, " "), out)
	return out
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "volumesliders", cmd.Use)
	assert.Contains(t, cmd.Long, "restore the original")
	assert.Equal(t, model.EngineVersion, cmd.Version)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"channels"},
		{"channels", "set"},
		{"trigger", "list"},
		{"trigger", "add"},
		{"trigger", "rm"},
		{"trigger", "move"},
		{"trigger", "import"},
		{"trigger", "export"},
		{"enable"},
		{"disable"},
		{"zone"},
		{"refresh"},
		{"status"},
		{"history"},
		{"validate"},
		{"run"},
		{"test"},
	}

	for _, path := range commands {
		name := strings.Join(path, " ")
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %s should exist", name)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("db"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, tempDB(t), "--format", "xml", "status")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestBadConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, cfgPath, "[channels]\nnames = []\n")

	_, err := execute(t, tempDB(t), "--config", cfgPath, "status")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestConfigChannelNames(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "volumesliders.toml")
	writeFile(t, cfgPath, "[channels]\nnames = [\"master\", \"music\"]\n\n[channels.defaults]\nmusic = 0.4\n")
	db := tempDB(t)

	out := mustExecute(t, db, "--config", cfgPath, "--format", "json", "channels")
	resp := decodeResponse(t, out)
	require.Equal(t, "ok", resp.Status)

	rows, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "master", rows[0].(map[string]any)["name"])
	assert.Equal(t, "music", rows[1].(map[string]any)["name"])
	assert.Equal(t, 0.4, rows[1].(map[string]any)["value"])
}
