// Package location provides the player's current location labels and
// notifies subscribers when they change.
package location

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// Tracker holds the current location and fans out change notifications.
//
// The host's zone-entered, zone-changed and world-entry notifications all
// collapse into Set. Handlers run synchronously on the caller's goroutine,
// in subscription order, outside the tracker's lock.
type Tracker struct {
	mu       sync.Mutex
	current  model.Location
	handlers map[int]func(model.Location)
	nextID   int
}

// NewTracker creates a tracker positioned at loc.
func NewTracker(loc model.Location) *Tracker {
	return &Tracker{
		current:  loc,
		handlers: make(map[int]func(model.Location)),
	}
}

// Current returns the current location.
func (t *Tracker) Current() model.Location {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Set records a new location and notifies every subscriber, even when the
// labels did not change. Hosts deliver duplicate notifications and
// consumers must tolerate them.
func (t *Tracker) Set(loc model.Location) {
	t.mu.Lock()
	t.current = loc
	handlers := t.snapshot()
	t.mu.Unlock()

	slog.Debug("location changed",
		"realm", loc.Realm,
		"sub_zone", loc.SubZone,
		"minimap", loc.Minimap,
		"subscribers", len(handlers),
	)

	for _, fn := range handlers {
		fn(loc)
	}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (t *Tracker) Subscribe(fn func(model.Location)) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.handlers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.handlers, id)
		})
	}
}

// Subscribers returns the number of registered handlers.
func (t *Tracker) Subscribers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handlers)
}

// snapshot returns handlers in subscription order. Caller holds t.mu.
func (t *Tracker) snapshot() []func(model.Location) {
	ids := make([]int, 0, len(t.handlers))
	for id := range t.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(model.Location), len(ids))
	for i, id := range ids {
		out[i] = t.handlers[id]
	}
	return out
}
