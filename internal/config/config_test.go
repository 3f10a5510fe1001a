package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "volumesliders.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "volumesliders.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, []string{"master", "sfx", "music", "ambience", "dialog"}, cfg.Channels.Names)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "volumesliders.db", cfg.Database.Path)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "/tmp/vs.db"

[logging]
level = "debug"
format = "json"

[channels]
names = ["master", "music"]
defaults = { master = 0.8 }
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/vs.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, []string{"master", "music"}, cfg.Channels.Names)
	assert.Equal(t, map[string]float64{"master": 0.8}, cfg.Channels.Defaults)
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"warn\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "volumesliders.db", cfg.Database.Path)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[database\n", "parse config"},
		{"unknown key", "[database]\nurl = \"x\"\n", "unknown key"},
		{"no channels", "[channels]\nnames = []\n", "at least one channel"},
		{"default out of range", "[channels]\ndefaults = { master = 1.5 }\n", "outside [0, 1]"},
		{"bad format", "[logging]\nformat = \"xml\"\n", "text or json"},
		{"bad level", "[logging]\nlevel = \"chatty\"\n", "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf, false)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "channel", "master")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "json handler")
	assert.Contains(t, out, `"channel":"master"`)
}

func TestNewLogger_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LoggingConfig{Level: "error", Format: "text"}.NewLogger(&buf, true)
	require.NoError(t, err)

	logger.Debug("details", "seq", 1)
	assert.Contains(t, buf.String(), "details")
}
