// Package config loads the process configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Channels ChannelsConfig `toml:"channels"`
}

type DatabaseConfig struct {
	Path string `toml:"path"` // SQLite file; ":memory:" for a throwaway store
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

type ChannelsConfig struct {
	Names    []string           `toml:"names"`    // known sound channels
	Defaults map[string]float64 `toml:"defaults"` // seeded when a channel has no stored value
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error: the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config %s: unknown key %s", path, undecoded[0])
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	names := make([]string, len(model.DefaultChannels))
	copy(names, model.DefaultChannels)
	return &Config{
		Database: DatabaseConfig{
			Path: "volumesliders.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Channels: ChannelsConfig{
			Names:    names,
			Defaults: map[string]float64{},
		},
	}
}

func (c *Config) validate() error {
	if len(c.Channels.Names) == 0 {
		return errors.New("channels.names must list at least one channel")
	}
	for ch, v := range c.Channels.Defaults {
		if v < 0 || v > 1 {
			return fmt.Errorf("channels.defaults.%s = %v is outside [0, 1]", ch, v)
		}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}
