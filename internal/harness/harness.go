package harness

import (
	"context"
	"fmt"
	"sort"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/engine"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/location"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/registry"
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/store"
)

// Harness is the test execution engine.
// It wires a real engine to an in-memory store, registry and tracker.
type Harness struct {
	store    *store.Store
	engine   *engine.Engine
	registry *registry.Memory
	tracker  *location.Tracker
	recorder *passRecorder
	passes   int
}

// passRecorder captures the passes the engine logs during a step and
// forwards them to the store's pass log.
type passRecorder struct {
	log    engine.PassLog
	passes []model.Pass
}

func (r *passRecorder) AppendPass(ctx context.Context, p model.Pass) error {
	r.passes = append(r.passes, p)
	return r.log.AppendPass(ctx, p)
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and registry
// 2. Seed enable flag, triggers and ledger
// 3. Construct the engine (loads the seeded ledger)
// 4. Execute steps, recording a trace event and checking expect clauses
//
// An engine error aborts the run and is returned; expectation mismatches
// are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := seed(ctx, st, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	h := &Harness{
		store:    st,
		registry: registry.NewMemory(scenario.Channels),
		tracker:  location.NewTracker(scenario.Location),
		recorder: &passRecorder{log: st},
	}

	eng, err := engine.New(ctx, st, h.registry, h.tracker, engine.WithPassLog(h.recorder))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	defer eng.Stop()
	eng.OnStateChanged(func() { h.passes++ })
	h.engine = eng

	result := NewResult()
	for i, step := range scenario.Steps {
		ev, err := h.executeStep(ctx, i+1, step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		result.AddTrace(ev)

		if step.Expect != nil {
			for _, msg := range checkExpect(ev, *step.Expect) {
				result.AddError(msg)
			}
		}
	}

	result.Channels = h.registry.Snapshot()
	result.Ledger = eng.Ledger()
	return result, nil
}

func seed(ctx context.Context, st *store.Store, scenario *Scenario) error {
	enabled := true
	if scenario.Enabled != nil {
		enabled = *scenario.Enabled
	}
	if err := st.SetTriggersEnabled(ctx, enabled); err != nil {
		return err
	}

	for _, def := range scenario.Triggers {
		if _, err := st.SaveProfile(ctx, def.Profile()); err != nil {
			return err
		}
	}

	for _, ch := range sortedKeys(scenario.Ledger) {
		if err := st.PutOriginal(ctx, ch, scenario.Ledger[ch]); err != nil {
			return err
		}
	}
	return nil
}

// executeStep performs one step and captures what it caused.
func (h *Harness) executeStep(ctx context.Context, n int, step Step) (TraceEvent, error) {
	action, err := step.Action()
	if err != nil {
		return TraceEvent{}, err
	}

	h.recorder.passes = nil
	before := h.passes

	switch action {
	case ActionLocation:
		// The tracker notifies the engine only while its subscription is
		// active; Drain runs whatever was enqueued.
		h.tracker.Set(*step.Location)
		err = h.engine.Drain(ctx)

	case ActionEnable, ActionDisable:
		if err = h.store.SetTriggersEnabled(ctx, action == ActionEnable); err == nil {
			_, err = h.engine.RefreshEventState(ctx)
		}

	case ActionSetChannel:
		for _, ch := range sortedKeys(step.SetChannel) {
			if err = h.registry.WriteVolume(ctx, ch, step.SetChannel[ch]); err != nil {
				break
			}
		}

	case ActionAddTrigger:
		if _, err = h.store.SaveProfile(ctx, step.AddTrigger.Profile()); err == nil {
			_, err = h.engine.RefreshEventState(ctx)
		}

	case ActionRemoveTrigger:
		if err = h.store.DeleteProfile(ctx, step.RemoveTrigger); err == nil {
			_, err = h.engine.RefreshEventState(ctx)
		}

	case ActionRefresh:
		_, err = h.engine.RefreshEventState(ctx)
	}
	if err != nil {
		return TraceEvent{}, fmt.Errorf("%s: %w", action, err)
	}

	ev := TraceEvent{
		Step:     n,
		Action:   action,
		Passes:   h.passes - before,
		Writes:   []model.ChannelWrite{},
		Ledger:   h.engine.Ledger(),
		Channels: h.registry.Snapshot(),
	}
	for _, p := range h.recorder.passes {
		ev.Writes = append(ev.Writes, p.Writes...)
	}
	return ev, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
