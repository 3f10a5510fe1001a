package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/engine"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/location"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/registry"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/store"
)

// session wires the engine to the saved-variables database the way the
// host does at login: channels seeded, last location restored, ledger
// loaded, pass numbering continued from the log.
type session struct {
	store    *store.Store
	registry *registry.CVars
	tracker  *location.Tracker
	engine   *engine.Engine
}

func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	cfg, err := opts.settings()
	if err != nil {
		return nil, err
	}

	slog.Debug("opening database", "path", cfg.Database.Path)
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s, err := newSession(ctx, st, cfg.Channels.Names, cfg.Channels.Defaults)
	if err != nil {
		st.Close()
		return nil, err
	}
	return s, nil
}

func newSession(ctx context.Context, st *store.Store, names []string, defaults map[string]float64) (*session, error) {
	reg := registry.NewCVars(st, names)
	if err := reg.Seed(ctx, defaults); err != nil {
		return nil, fmt.Errorf("seed channels: %w", err)
	}

	loc, err := st.LoadLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("load location: %w", err)
	}
	tracker := location.NewTracker(loc)

	seq, err := st.LastPassSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pass log: %w", err)
	}

	eng, err := engine.New(ctx, st, reg, tracker,
		engine.WithPassLog(st),
		engine.WithClock(engine.NewClockAt(seq)),
	)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	return &session{store: st, registry: reg, tracker: tracker, engine: eng}, nil
}

func (s *session) Close() {
	s.engine.Stop()
	if err := s.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// ChannelRow is one line of the channel table.
type ChannelRow struct {
	Name     string   `json:"name"`
	Value    float64  `json:"value"`
	State    string   `json:"state"`
	Original *float64 `json:"original,omitempty"`
}

// channelRows reads every known channel and its override state.
func (s *session) channelRows(ctx context.Context) ([]ChannelRow, error) {
	ledger := s.engine.Ledger()
	rows := make([]ChannelRow, 0, len(s.registry.Channels()))
	for _, name := range s.registry.Channels() {
		v, err := s.registry.ReadVolume(ctx, name)
		if err != nil {
			return nil, err
		}
		state := ledger.StateOf(name)
		row := ChannelRow{Name: name, Value: v, State: state.String()}
		if state.Overridden {
			orig := state.Original
			row.Original = &orig
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func writeChannelTable(w io.Writer, rows []ChannelRow) {
	for _, r := range rows {
		line := fmt.Sprintf("%-10s %-6s %s", r.Name, registry.FormatVolume(r.Value), r.State)
		if r.Original != nil {
			line += fmt.Sprintf(" (original %s)", registry.FormatVolume(*r.Original))
		}
		fmt.Fprintln(w, line)
	}
}

// PassReport is the JSON form of one engine pass.
type PassReport struct {
	Seq     int64                `json:"seq"`
	Active  bool                 `json:"active"`
	Matched []string             `json:"matched"`
	Writes  []model.ChannelWrite `json:"writes"`
	Ledger  model.Ledger         `json:"ledger"`
}

func newPassReport(p model.Pass) PassReport {
	r := PassReport{
		Seq:     p.Seq,
		Active:  p.Active,
		Matched: p.Matched,
		Writes:  p.Writes,
		Ledger:  p.Ledger,
	}
	if r.Matched == nil {
		r.Matched = []string{}
	}
	if r.Writes == nil {
		r.Writes = []model.ChannelWrite{}
	}
	if r.Ledger == nil {
		r.Ledger = model.Ledger{}
	}
	return r
}

func writePass(w io.Writer, p model.Pass) {
	state := "inactive"
	if p.Active {
		state = "active"
	}
	fmt.Fprintf(w, "pass %d (%s): %d write(s)\n", p.Seq, state, len(p.Writes))
	if len(p.Matched) > 0 {
		fmt.Fprintf(w, "  matched: %s\n", strings.Join(p.Matched, ", "))
	}
	for _, wr := range p.Writes {
		fmt.Fprintf(w, "  %-7s %s %s -> %s\n", wr.Kind, wr.Channel,
			registry.FormatVolume(wr.From), registry.FormatVolume(wr.To))
	}
}

// ChangeReport is the JSON form of a command that ran one pass.
type ChangeReport struct {
	Summary string     `json:"summary,omitempty"`
	Pass    PassReport `json:"pass"`
}

// refresh runs one pass and reports it after an optional summary line.
func (s *session) refresh(ctx context.Context, f *OutputFormatter, summary string) error {
	pass, err := s.engine.RefreshEventState(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodePass, "pass failed", err)
	}
	report := ChangeReport{Summary: summary, Pass: newPassReport(pass)}
	return f.Emit(report, func(w io.Writer) {
		if summary != "" {
			fmt.Fprintln(w, summary)
		}
		writePass(w, pass)
	})
}
