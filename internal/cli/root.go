package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/config"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string // overrides [database] path
	ConfigFile string

	// Config is loaded once by the root command. Commands built on their
	// own (tests) load it lazily through settings.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the volumesliders CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "volumesliders",
		Short:   "Zone-triggered volume overrides",
		Version: model.EngineVersion,
		Long: `Apply per-zone sound channel overrides and restore the original
values when the player leaves the zone.

Triggers map location labels (realm zone, sub-zone, minimap zone) to
channel volumes. Channel values and triggers are kept in a SQLite
saved-variables database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			cfg, err := opts.settings()
			if err != nil {
				return err
			}

			logger, err := cfg.Logging.NewLogger(cmd.ErrOrStderr(), opts.Verbose)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid logging configuration", err)
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to TOML config file")

	cmd.AddCommand(NewChannelsCommand(opts))
	cmd.AddCommand(NewTriggerCommand(opts))
	cmd.AddCommand(NewEnableCommand(opts))
	cmd.AddCommand(NewDisableCommand(opts))
	cmd.AddCommand(NewZoneCommand(opts))
	cmd.AddCommand(NewRefreshCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// settings returns the loaded configuration with flag overrides applied.
func (o *RootOptions) settings() (*config.Config, error) {
	if o.Config == nil {
		cfg, err := config.Load(o.ConfigFile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		o.Config = cfg
	}
	if o.Database != "" {
		o.Config.Database.Path = o.Database
	}
	return o.Config, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
