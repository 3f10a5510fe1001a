package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged passes that changed channel values",
		Long: `List the pass log, oldest first. Only passes that wrote at least one
channel are logged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(opts.RootOptions, cmd)
			ctx := cmd.Context()

			s, err := openSession(ctx, opts.RootOptions)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
			}
			defer s.Close()

			passes, err := s.store.ReadPasses(ctx, opts.Limit)
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeStore, "failed to read pass log", err)
			}

			reports := make([]PassReport, len(passes))
			for i, p := range passes {
				reports[i] = newPassReport(p)
			}
			return f.Emit(reports, func(w io.Writer) {
				if len(passes) == 0 {
					io.WriteString(w, "No passes logged.\n")
				}
				for _, p := range passes {
					writePass(w, p)
				}
			})
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "most recent passes to show (0 for all)")
	return cmd
}
