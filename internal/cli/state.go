package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// NewEnableCommand creates the enable command.
func NewEnableCommand(rootOpts *RootOptions) *cobra.Command {
	return newToggleCommand(rootOpts, true)
}

// NewDisableCommand creates the disable command.
func NewDisableCommand(rootOpts *RootOptions) *cobra.Command {
	return newToggleCommand(rootOpts, false)
}

func newToggleCommand(rootOpts *RootOptions, enabled bool) *cobra.Command {
	use, short := "enable", "Enable zone triggers and apply matching overrides"
	if !enabled {
		use, short = "disable", "Disable zone triggers and restore every overridden channel"
	}

	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			ctx := cmd.Context()

			s, err := openSession(ctx, rootOpts)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
			}
			defer s.Close()

			if err := s.store.SetTriggersEnabled(ctx, enabled); err != nil {
				return f.Fail(ExitFailure, ErrCodeStore, "failed to save setting", err)
			}
			return s.refresh(ctx, f, fmt.Sprintf("triggers %sd", use))
		},
	}
}

// NewRefreshCommand creates the refresh command.
func NewRefreshCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run one pass with the stored configuration and location",
		Long: `Run one engine pass. A second refresh without changes performs no
channel writes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			ctx := cmd.Context()

			s, err := openSession(ctx, rootOpts)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
			}
			defer s.Close()

			return s.refresh(ctx, f, "")
		},
	}
}

// NewZoneCommand creates the zone command.
func NewZoneCommand(rootOpts *RootOptions) *cobra.Command {
	var loc model.Location

	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Set the player location and run one pass",
		Long: `Store the player's location labels and run one pass. Labels not given
are cleared.

Example:
  volumesliders zone --realm "Elwynn Forest" --sub "Goldshire"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			ctx := cmd.Context()

			s, err := openSession(ctx, rootOpts)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
			}
			defer s.Close()

			if err := s.store.SaveLocation(ctx, loc); err != nil {
				return f.Fail(ExitFailure, ErrCodeStore, "failed to save location", err)
			}
			s.tracker.Set(loc)
			return s.refresh(ctx, f, fmt.Sprintf("location: %s", formatLocation(loc)))
		},
	}

	cmd.Flags().StringVar(&loc.Realm, "realm", "", "realm zone label")
	cmd.Flags().StringVar(&loc.SubZone, "sub", "", "sub-zone label")
	cmd.Flags().StringVar(&loc.Minimap, "minimap", "", "minimap zone label")

	return cmd
}

func formatLocation(loc model.Location) string {
	return fmt.Sprintf("realm=%q sub=%q minimap=%q", loc.Realm, loc.SubZone, loc.Minimap)
}
