package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// Engine is the zone trigger engine.
//
// It watches location changes, decides which trigger profiles apply, merges
// their volume overrides, and applies or restores channel volumes through the
// registry while keeping the override ledger consistent.
//
// Thread-safety model:
//   - Enqueue(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//   - everything else: call from the Run goroutine, or from a single
//     goroutine when Run is not used (one-shot CLI commands, tests)
//
// INVARIANTS:
//   - a channel is in the ledger iff a matched profile currently claims it
//   - a ledger entry is never overwritten while it exists
//   - the Zone Index always corresponds to the last loaded profile list
type Engine struct {
	config   ConfigStore
	registry ChannelRegistry
	location LocationSource
	passLog  PassLog
	clock    *Clock
	queue    *eventQueue
	sub      *Subscription

	index    *ZoneIndex
	profiles []model.Profile
	enabled  bool
	confHash string
	ledger   model.Ledger

	observers []func()
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithPassLog records every pass that wrote at least one channel.
func WithPassLog(log PassLog) Option {
	return func(e *Engine) {
		e.passLog = log
	}
}

// WithClock sets the clock used to number passes.
// Use NewClockAt to resume numbering after a logged history.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an engine and loads the persisted ledger.
//
// The ledger is trusted as-is. Entries left by an earlier session are
// restored the first time a pass releases their channel.
//
// The engine starts idle: no subscription, empty index. Call
// RefreshEventState to perform the first pass.
func New(ctx context.Context, config ConfigStore, registry ChannelRegistry, location LocationSource, opts ...Option) (*Engine, error) {
	ledger, err := config.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", newStoreError("load ledger", "", err))
	}
	if ledger == nil {
		ledger = model.Ledger{}
	}

	e := &Engine{
		config:   config,
		registry: registry,
		location: location,
		clock:    NewClock(),
		queue:    newEventQueue(),
		index:    BuildZoneIndex(nil, false),
		ledger:   ledger,
	}
	e.sub = NewSubscription(location, e.onLocationChanged)

	for _, opt := range opts {
		opt(e)
	}

	slog.Debug("engine created",
		"ledger_entries", len(ledger),
		"channels", len(registry.Channels()),
	)

	return e, nil
}

// OnStateChanged registers an observer fired after every successful pass.
// Observers carry no payload; they re-read whatever they display.
func (e *Engine) OnStateChanged(fn func()) {
	e.observers = append(e.observers, fn)
}

// Ledger returns a snapshot of the override ledger.
func (e *Engine) Ledger() model.Ledger {
	return e.ledger.Clone()
}

// Subscription exposes the location subscription handle.
func (e *Engine) Subscription() *Subscription {
	return e.sub
}

// Index returns the current Zone Index.
func (e *Engine) Index() *ZoneIndex {
	return e.index
}

// RefreshEventState re-reads the trigger configuration and brings every
// channel in line with it.
//
// It is called on enable/disable, on profile list edits, and for each
// location notification. Calling it repeatedly with unchanged inputs
// performs no writes after the first pass.
//
// On error the pass stops where it failed and observers are not notified.
// The ledger is still consistent with the registry, so the next pass
// finishes the work.
func (e *Engine) RefreshEventState(ctx context.Context) (model.Pass, error) {
	enabled, profiles, err := e.config.LoadTriggers(ctx)
	if err != nil {
		return model.Pass{}, fmt.Errorf("refresh: %w", newStoreError("load triggers", "", err))
	}

	pass := model.Pass{Seq: e.clock.Next()}

	hash, err := model.ProfileSetHash(enabled, profiles)
	if err != nil {
		return model.Pass{}, fmt.Errorf("refresh: %w", err)
	}
	if hash != e.confHash {
		e.index = BuildZoneIndex(profiles, enabled)
		e.confHash = hash
		pass.Reindexed = true
		slog.Debug("zone index rebuilt",
			"seq", pass.Seq,
			"enabled", enabled,
			"profiles", len(profiles),
			"labels", e.index.Len(),
		)
	}
	e.profiles = profiles
	e.enabled = enabled

	if !enabled || len(profiles) == 0 {
		e.sub.Stop()
		if err := e.restoreAll(ctx, &pass); err != nil {
			return pass, fmt.Errorf("refresh seq %d: %w", pass.Seq, err)
		}
	} else {
		pass.Active = true
		e.sub.Start()

		pass.Location = e.location.Current()
		matched := matchesFor(e.index.Evaluate(pass.Location), profiles)
		for _, m := range matched {
			pass.Matched = append(pass.Matched, m.Profile.ID)
		}

		effective, claimed := Merge(matched)
		pass.Effective = effective
		if err := e.applyTransitions(ctx, effective, claimed, &pass); err != nil {
			return pass, fmt.Errorf("refresh seq %d: %w", pass.Seq, err)
		}
	}

	pass.Ledger = e.ledger.Clone()

	if pass.WriteCount() > 0 {
		slog.Info("pass applied",
			"seq", pass.Seq,
			"active", pass.Active,
			"matched", len(pass.Matched),
			"writes", pass.WriteCount(),
			"overridden", len(pass.Ledger),
		)
		if e.passLog != nil {
			if err := e.passLog.AppendPass(ctx, pass); err != nil {
				slog.Error("append pass log failed", "seq", pass.Seq, "error", err)
			}
		}
	}

	for _, fn := range e.observers {
		fn()
	}

	return pass, nil
}

// onLocationChanged is the subscription handler. It only enqueues; the
// pass runs on the loop goroutine.
func (e *Engine) onLocationChanged(loc model.Location) {
	if !e.queue.Enqueue(Event{Type: EventLocationChanged, Location: loc}) {
		slog.Debug("location change dropped: engine stopped", "realm", loc.Realm)
	}
}

// Enqueue submits an event for processing by the Run loop.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the engine has been stopped.
func (e *Engine) Enqueue(ev Event) bool {
	return e.queue.Enqueue(ev)
}

// Pending returns the number of queued events.
func (e *Engine) Pending() int {
	return e.queue.Len()
}

// Run starts the single-writer event loop.
// Blocks until context is cancelled or Stop() is called.
//
// On pass failure the error is logged with the event context and the loop
// continues; the next notification retries from a consistent ledger.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting")

	for {
		if _, err := e.Step(ctx); err != nil {
			slog.Error("pass failed", "error", err)
			continue
		}

		if e.queue.Len() > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			// The signal channel closes when the queue is closed.
			if e.queue.Closed() && e.queue.Len() == 0 {
				slog.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Step processes one pending event, if any. It returns true when an event
// was processed.
func (e *Engine) Step(ctx context.Context) (bool, error) {
	ev, ok := e.queue.TryDequeue()
	if !ok {
		return false, nil
	}

	slog.Debug("processing event",
		"type", ev.Type.String(),
		"realm", ev.Location.Realm,
		"sub_zone", ev.Location.SubZone,
		"minimap", ev.Location.Minimap,
	)

	if _, err := e.RefreshEventState(ctx); err != nil {
		return true, fmt.Errorf("%s event: %w", ev.Type, err)
	}
	return true, nil
}

// Drain processes every pending event and returns the first error.
func (e *Engine) Drain(ctx context.Context) error {
	var first error
	for {
		ok, err := e.Step(ctx)
		if err != nil && first == nil {
			first = err
		}
		if !ok {
			return first
		}
	}
}

// Stop gracefully shuts down the engine.
// Closes the event queue and removes the location subscription.
func (e *Engine) Stop() {
	e.sub.Stop()
	e.queue.Close()
}
