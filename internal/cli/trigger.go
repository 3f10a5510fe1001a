package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/compiler"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/harness"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/registry"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/store"
)

// NewTriggerCommand creates the trigger command group.
func NewTriggerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Manage trigger profiles",
		Long: `Manage the ordered list of trigger profiles.

Every edit runs one pass so channel values follow the new list
immediately.`,
	}

	cmd.AddCommand(newTriggerListCommand(rootOpts))
	cmd.AddCommand(newTriggerAddCommand(rootOpts))
	cmd.AddCommand(newTriggerRemoveCommand(rootOpts))
	cmd.AddCommand(newTriggerMoveCommand(rootOpts))
	cmd.AddCommand(newTriggerImportCommand(rootOpts))
	cmd.AddCommand(newTriggerExportCommand(rootOpts))

	return cmd
}

// TriggerRow is the JSON form of a listed profile.
type TriggerRow struct {
	Position  int                `json:"position"`
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Priority  int                `json:"priority"`
	Zones     []string           `json:"zones"`
	Volumes   map[string]float64 `json:"volumes"`
	Ignore    []string           `json:"ignore"`
	Malformed bool               `json:"malformed,omitempty"`
}

func newTriggerRow(pos int, p model.Profile) TriggerRow {
	def := harness.NewTriggerDef(p)
	row := TriggerRow{
		Position:  pos,
		ID:        p.ID,
		Name:      p.Name,
		Priority:  p.Priority,
		Zones:     def.Zones,
		Volumes:   def.Volumes,
		Ignore:    def.Ignore,
		Malformed: p.Malformed,
	}
	if row.Ignore == nil {
		row.Ignore = []string{}
	}
	return row
}

func writeTriggerRow(w io.Writer, r TriggerRow) {
	if r.Malformed {
		fmt.Fprintf(w, "%d  <malformed record> (id %s)\n", r.Position, r.ID)
		return
	}
	fmt.Fprintf(w, "%d  %s (id %s) priority %d\n", r.Position, r.Name, r.ID, r.Priority)
	if len(r.Zones) > 0 {
		fmt.Fprintf(w, "   zones:   %s\n", strings.Join(r.Zones, ", "))
	}
	if len(r.Volumes) > 0 {
		fmt.Fprintf(w, "   volumes: %s\n", formatVolumes(r.Volumes))
	}
	if len(r.Ignore) > 0 {
		fmt.Fprintf(w, "   ignore:  %s\n", strings.Join(r.Ignore, ", "))
	}
}

func formatVolumes(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + registry.FormatVolume(m[k])
	}
	return strings.Join(parts, " ")
}

func newTriggerListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List trigger profiles in list order",
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

			profiles, err := s.store.Profiles(ctx)
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeStore, "failed to load triggers", err)
			}

			rows := make([]TriggerRow, len(profiles))
			for i, p := range profiles {
				rows[i] = newTriggerRow(i, p)
			}
			return f.Emit(rows, func(w io.Writer) {
				if len(rows) == 0 {
					fmt.Fprintln(w, "No triggers.")
				}
				for _, r := range rows {
					writeTriggerRow(w, r)
				}
			})
		},
	}
}

// TriggerAddOptions holds flags for trigger add.
type TriggerAddOptions struct {
	*RootOptions
	ID       string
	Name     string
	Priority int
	Zones    []string
	Volumes  []string // channel=value
	Ignore   []string
}

func newTriggerAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TriggerAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a trigger profile (or update one by --id)",
		Long: `Append a trigger profile to the end of the list. With --id naming an
existing profile, the profile is replaced in place.

Example:
  volumesliders trigger add --name "Test 1" --priority 10 \
    --zone "Elwynn Forest" --volume master=0.5 --ignore music`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTriggerAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "profile id (generated when empty)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "profile name (required)")
	cmd.Flags().IntVar(&opts.Priority, "priority", 0, "priority; higher wins a shared channel")
	cmd.Flags().StringArrayVar(&opts.Zones, "zone", nil, "zone label (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Volumes, "volume", nil, "channel=value override (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Ignore, "ignore", nil, "channel to leave alone (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// parseVolumeFlags parses repeated channel=value flags.
func parseVolumeFlags(flags []string) (map[string]float64, error) {
	volumes := make(map[string]float64, len(flags))
	for _, flag := range flags {
		ch, text, ok := strings.Cut(flag, "=")
		ch = strings.TrimSpace(ch)
		if !ok || ch == "" {
			return nil, fmt.Errorf("invalid --volume %q: want channel=value", flag)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --volume %q: %w", flag, err)
		}
		volumes[ch] = v
	}
	return volumes, nil
}

func runTriggerAdd(opts *TriggerAddOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	if opts.ID != "" && !model.IsProfileID(opts.ID) {
		return f.Fail(ExitCommandError, ErrCodeTriggerID, fmt.Sprintf("%q is not a profile id", opts.ID), nil)
	}
	volumes, err := parseVolumeFlags(opts.Volumes)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeBadArgument, err.Error(), nil)
	}
	p := model.Profile{
		ID:       opts.ID,
		Name:     opts.Name,
		Priority: opts.Priority,
		Zones:    append([]string{}, opts.Zones...),
		Volumes:  volumes,
		Ignored:  make(map[string]bool, len(opts.Ignore)),
	}
	for _, ch := range opts.Ignore {
		p.Ignored[ch] = true
	}

	s, err := openSession(ctx, opts.RootOptions)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer s.Close()

	if err := checkProfile(f, p, s.registry.Channels()); err != nil {
		return err
	}

	id, err := s.store.SaveProfile(ctx, p)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, "failed to save trigger", err)
	}
	return s.refresh(ctx, f, fmt.Sprintf("saved trigger %s", id))
}

// checkProfile rejects profiles with validation errors. Warnings are
// logged and the profile is accepted.
func checkProfile(f *OutputFormatter, p model.Profile, known []string) error {
	findings := compiler.Validate(p, known)
	for _, v := range findings {
		if v.Warning {
			f.VerboseLog("%s", v.Error())
		}
	}
	if compiler.HasErrors(findings) {
		return f.Fail(ExitCommandError, findings[firstError(findings)].Code,
			fmt.Sprintf("invalid trigger %q", p.Name), errors.New(joinFindings(findings)))
	}
	return nil
}

func firstError(findings []compiler.ValidationError) int {
	for i, v := range findings {
		if !v.Warning {
			return i
		}
	}
	return 0
}

func joinFindings(findings []compiler.ValidationError) string {
	parts := make([]string, len(findings))
	for i, v := range findings {
		parts[i] = v.Error()
	}
	return strings.Join(parts, "; ")
}

func newTriggerRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <id>",
		Short:         "Remove a trigger profile",
		Args:          cobra.ExactArgs(1),
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

			if err := s.store.DeleteProfile(ctx, args[0]); err != nil {
				if errors.Is(err, store.ErrProfileNotFound) {
					return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("trigger %s not found", args[0]), nil)
				}
				return f.Fail(ExitFailure, ErrCodeStore, "failed to remove trigger", err)
			}
			return s.refresh(ctx, f, fmt.Sprintf("removed trigger %s", args[0]))
		},
	}
}

func newTriggerMoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <position>",
		Short: "Move a trigger profile to a list position",
		Long: `Move a trigger profile to a 0-based list position. Positions past the
end move it to the end.

List position breaks ties between matching profiles of equal priority:
the later profile wins.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			ctx := cmd.Context()

			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 0 {
				return f.Fail(ExitCommandError, ErrCodeBadArgument, fmt.Sprintf("invalid position %q", args[1]), nil)
			}

			s, err := openSession(ctx, rootOpts)
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
			}
			defer s.Close()

			if err := s.store.MoveProfile(ctx, args[0], pos); err != nil {
				if errors.Is(err, store.ErrProfileNotFound) {
					return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("trigger %s not found", args[0]), nil)
				}
				return f.Fail(ExitFailure, ErrCodeStore, "failed to move trigger", err)
			}
			return s.refresh(ctx, f, fmt.Sprintf("moved trigger %s", args[0]))
		},
	}
}

// TriggerImportOptions holds flags for trigger import.
type TriggerImportOptions struct {
	*RootOptions
	Replace bool
}

func newTriggerImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TriggerImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <triggers-dir>",
		Short: "Import trigger profiles from CUE files",
		Long: `Compile the CUE trigger definitions in a directory and store them.

Profiles are appended in declaration order; a profile whose id already
exists is updated in place. With --replace the stored list is replaced.

Example file:
  trigger: "Test 1": {
      priority: 10
      zones: ["Elwynn Forest"]
      volumes: master: 0.5
  }`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTriggerImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "replace the stored list instead of appending")
	return cmd
}

func runTriggerImport(opts *TriggerImportOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	loaded, loadErrs := LoadTriggers(dir, LoadModeFailFast)
	if len(loadErrs) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrs[0], &loadErr) {
			return f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
		}
		return f.Fail(ExitCommandError, ErrCodeGeneric, loadErrs[0].Error(), nil)
	}
	f.VerboseLog("Compiled %d trigger(s) from %d CUE file(s)", len(loaded.Profiles), loaded.FileCount)

	s, err := openSession(ctx, opts.RootOptions)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer s.Close()

	for _, p := range loaded.Profiles {
		if err := checkProfile(f, p, s.registry.Channels()); err != nil {
			return err
		}
	}

	if opts.Replace {
		profiles := make([]model.Profile, len(loaded.Profiles))
		for i, p := range loaded.Profiles {
			if p.ID == "" {
				p.ID = model.NewProfileID()
			}
			profiles[i] = p
		}
		if err := s.store.ReplaceProfiles(ctx, profiles); err != nil {
			return f.Fail(ExitFailure, ErrCodeStore, "failed to store triggers", err)
		}
	} else {
		for _, p := range loaded.Profiles {
			if _, err := s.store.SaveProfile(ctx, p); err != nil {
				return f.Fail(ExitFailure, ErrCodeStore, "failed to store triggers", err)
			}
		}
	}

	return s.refresh(ctx, f, fmt.Sprintf("imported %d trigger(s)", len(loaded.Profiles)))
}

// TriggerExportOptions holds flags for trigger export.
type TriggerExportOptions struct {
	*RootOptions
	Output string
}

func newTriggerExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TriggerExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trigger profiles as YAML",
		Long: `Write the stored trigger profiles as a YAML list, in list order.

The output uses the scenario trigger format, so it can be pasted into a
harness scenario's triggers section. Malformed records are skipped.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTriggerExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runTriggerExport(opts *TriggerExportOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	s, err := openSession(ctx, opts.RootOptions)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer s.Close()

	profiles, err := s.store.Profiles(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStore, "failed to load triggers", err)
	}

	defs := make([]harness.TriggerDef, 0, len(profiles))
	for _, p := range profiles {
		if p.Malformed {
			f.VerboseLog("Skipping malformed trigger %s", p.ID)
			continue
		}
		defs = append(defs, harness.NewTriggerDef(p))
	}

	data, err := yaml.Marshal(defs)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, "failed to encode triggers", err)
	}

	if opts.Output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write output file", err)
	}
	f.VerboseLog("Wrote %d trigger(s) to %s", len(defs), opts.Output)
	return nil
}
