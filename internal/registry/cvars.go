package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// TextStore persists channel values as text.
// Implemented by store.Store.
type TextStore interface {
	ReadChannel(ctx context.Context, name string) (text string, found bool, err error)
	WriteChannel(ctx context.Context, name, text string) error
}

// CVars is a store-backed registry over a fixed set of channel names.
type CVars struct {
	store TextStore
	names []string
	known map[string]bool
}

// NewCVars creates a registry for the given channel names. Duplicate names
// are collapsed; Channels reports them sorted.
func NewCVars(store TextStore, names []string) *CVars {
	known := make(map[string]bool, len(names))
	sorted := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || known[n] {
			continue
		}
		known[n] = true
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)
	return &CVars{store: store, names: sorted, known: known}
}

// Channels returns the known channel names.
func (r *CVars) Channels() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Known reports whether name is a registry channel.
func (r *CVars) Known(name string) bool {
	return r.known[name]
}

// ReadVolume returns the channel's value. Missing or unparseable text reads
// as model.DefaultVolume without error.
func (r *CVars) ReadVolume(ctx context.Context, name string) (float64, error) {
	if !r.known[name] {
		return 0, fmt.Errorf("read %q: %w", name, ErrUnknownChannel)
	}
	text, found, err := r.store.ReadChannel(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("read %q: %w", name, err)
	}
	if !found {
		return model.DefaultVolume, nil
	}
	v, ok := ParseVolume(text)
	if !ok {
		logUnparseable(name, text)
	}
	return v, nil
}

// WriteVolume stores the value, clamped into [0, 1].
func (r *CVars) WriteVolume(ctx context.Context, name string, value float64) error {
	if !r.known[name] {
		return fmt.Errorf("write %q: %w", name, ErrUnknownChannel)
	}
	if err := r.store.WriteChannel(ctx, name, FormatVolume(model.ClampVolume(value))); err != nil {
		return fmt.Errorf("write %q: %w", name, err)
	}
	return nil
}

// Seed writes defaults for channels that have no stored value yet.
func (r *CVars) Seed(ctx context.Context, defaults map[string]float64) error {
	for _, name := range r.names {
		_, found, err := r.store.ReadChannel(ctx, name)
		if err != nil {
			return fmt.Errorf("seed %q: %w", name, err)
		}
		if found {
			continue
		}
		v, ok := defaults[name]
		if !ok {
			v = model.DefaultVolume
		}
		if err := r.store.WriteChannel(ctx, name, FormatVolume(model.ClampVolume(v))); err != nil {
			return fmt.Errorf("seed %q: %w", name, err)
		}
	}
	return nil
}
