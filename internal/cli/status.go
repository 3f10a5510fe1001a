package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/registry"
)

// StatusResult is the JSON form of the status command.
type StatusResult struct {
	Enabled  bool           `json:"enabled"`
	Location model.Location `json:"location"`
	Triggers int            `json:"triggers"`
	Ledger   model.Ledger   `json:"ledger"`
	LastPass int64          `json:"last_pass"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status",
		Short:         "Show the enable flag, location, and override ledger",
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

			enabled, profiles, err := s.store.LoadTriggers(ctx)
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeStore, "failed to load triggers", err)
			}
			last, err := s.store.LastPassSeq(ctx)
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeStore, "failed to read pass log", err)
			}

			result := StatusResult{
				Enabled:  enabled,
				Location: s.tracker.Current(),
				Triggers: len(profiles),
				Ledger:   s.engine.Ledger(),
				LastPass: last,
			}
			return f.Emit(result, func(w io.Writer) { writeStatus(w, result) })
		},
	}
}

func writeStatus(w io.Writer, r StatusResult) {
	fmt.Fprintf(w, "enabled:   %t\n", r.Enabled)
	fmt.Fprintf(w, "location:  %s\n", formatLocation(r.Location))
	fmt.Fprintf(w, "triggers:  %d\n", r.Triggers)
	fmt.Fprintf(w, "last pass: %d\n", r.LastPass)
	if len(r.Ledger) == 0 {
		fmt.Fprintln(w, "ledger:    empty")
		return
	}
	fmt.Fprintln(w, "ledger:")
	for _, ch := range r.Ledger.Channels() {
		fmt.Fprintf(w, "  %s original %s\n", ch, registry.FormatVolume(r.Ledger[ch]))
	}
}
