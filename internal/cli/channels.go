package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/registry"
)

// NewChannelsCommand creates the channels command and its set subcommand.
func NewChannelsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List sound channels with their values and override state",
		Long: `List every known sound channel, its current volume, and whether a
trigger currently overrides it. Overridden channels show the value that
will be restored when the override is released.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChannels(rootOpts, cmd)
		},
	}

	cmd.AddCommand(newChannelsSetCommand(rootOpts))
	return cmd
}

func runChannels(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()

	s, err := openSession(ctx, opts)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer s.Close()

	rows, err := s.channelRows(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, "failed to read channels", err)
	}
	return f.Emit(rows, func(w io.Writer) { writeChannelTable(w, rows) })
}

// newChannelsSetCommand changes a channel the way the user or another
// addon would: directly, without running a pass.
func newChannelsSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <channel> <value>",
		Short: "Set a channel volume outside the trigger engine",
		Long: `Set a channel volume directly, as the user dragging a slider would.

No pass runs. If the channel is overridden, the next pass brings it back
to the trigger's value; the ledgered original is not changed.

Example:
  volumesliders channels set music 0.6`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChannelsSet(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runChannelsSet(opts *RootOptions, name, text string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	ctx := cmd.Context()

	value, ok := registry.ParseVolume(text)
	if !ok {
		return f.Fail(ExitCommandError, ErrCodeBadArgument, fmt.Sprintf("invalid volume %q", text), nil)
	}

	s, err := openSession(ctx, opts)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer s.Close()

	if !s.registry.Known(name) {
		return f.Fail(ExitCommandError, ErrCodeBadArgument, fmt.Sprintf("unknown channel %q", name), nil)
	}
	if err := s.registry.WriteVolume(ctx, name, value); err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, "failed to write channel", err)
	}

	stored, err := s.registry.ReadVolume(ctx, name)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, "failed to read channel", err)
	}
	row := ChannelRow{Name: name, Value: stored, State: s.engine.Ledger().StateOf(name).String()}
	return f.Emit(row, func(w io.Writer) {
		fmt.Fprintf(w, "%s = %s\n", name, registry.FormatVolume(stored))
	})
}
