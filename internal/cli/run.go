package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/engine"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engine loop, reading location changes from stdin",
		Long: `Start the single-writer engine loop.

Each stdin line is a location change: "realm|sub-zone|minimap". Missing
fields are empty. Lines starting with '#' are ignored. Channel values are
printed after every pass.

SIGHUP re-reads the trigger configuration (after editing it with another
volumesliders process). EOF, SIGINT or SIGTERM stop the loop.

Example:
  printf 'Elwynn Forest|Goldshire\nWestfall\n' | volumesliders run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(rootOpts, cmd)
		},
	}

	return cmd
}

func runLoop(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	s, err := openSession(ctx, opts)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer s.Close()

	s.engine.OnStateChanged(func() {
		// Observers get no payload; re-read what is displayed.
		rows, err := s.channelRows(ctx)
		if err != nil {
			slog.Error("read channels for display", "error", err)
			return
		}
		if err := f.Emit(rows, func(w io.Writer) {
			fmt.Fprintln(w, "--")
			writeChannelTable(w, rows)
		}); err != nil {
			slog.Error("write channel table", "error", err)
		}
	})

	// World entry
	if _, err := s.engine.RefreshEventState(ctx); err != nil {
		return f.Fail(ExitFailure, ErrCodePass, "initial pass failed", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		for {
			select {
			case sig := <-sigChan:
				if sig == syscall.SIGHUP {
					slog.Info("configuration reload requested")
					s.engine.Enqueue(engine.Event{Type: engine.EventConfigChanged})
					continue
				}
				slog.Info("received signal, shutting down", "signal", sig)
				cancel()
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	done := make(chan error, 1)
	go func() {
		done <- s.engine.Run(ctx)
	}()

	f.VerboseLog("Reading locations from stdin (realm|sub|minimap)")
	readErr := feedLocations(ctx, cmd.InOrStdin(), s)

	// Let the loop finish queued notifications, then stop it.
	s.engine.Stop()
	runErr := <-done

	if readErr != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, "reading stdin failed", readErr)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return WrapExitError(ExitFailure, "engine error", runErr)
	}

	slog.Info("engine stopped gracefully")
	if f.Format != "json" {
		fmt.Fprintln(cmd.OutOrStdout(), "stopped")
	}
	return nil
}

// feedLocations reads location lines until EOF or cancellation. Each line is
// saved and handed to the tracker, which notifies the engine when its
// subscription is active.
func feedLocations(ctx context.Context, r io.Reader, s *session) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err != nil {
				return err
			}
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			loc, ok := parseLocationLine(line)
			if !ok {
				continue
			}
			if err := s.store.SaveLocation(ctx, loc); err != nil {
				slog.Error("save location", "error", err)
			}
			s.tracker.Set(loc)
		}
	}
}

// parseLocationLine parses "realm|sub|minimap". Blank lines and comments
// return ok=false.
func parseLocationLine(line string) (model.Location, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return model.Location{}, false
	}
	parts := strings.SplitN(line, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return model.Location{
		Realm:   strings.TrimSpace(parts[0]),
		SubZone: strings.TrimSpace(parts[1]),
		Minimap: strings.TrimSpace(parts[2]),
	}, true
}
