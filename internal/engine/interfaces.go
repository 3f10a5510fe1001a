package engine

import (
	"context"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// ChannelRegistry enumerates the known sound channels and reads/writes their
// volumes. Implemented by registry.CVars (persistent) and registry.Memory.
type ChannelRegistry interface {
	// Channels returns the known channel names. Only these are ever written.
	Channels() []string

	// ReadVolume returns the channel's current value. Implementations return
	// model.DefaultVolume for values that are missing or unparseable.
	ReadVolume(ctx context.Context, name string) (float64, error)

	// WriteVolume sets the channel's value.
	WriteVolume(ctx context.Context, name string, value float64) error
}

// LocationSource provides the player's current location labels and
// change notifications. Implemented by location.Tracker.
type LocationSource interface {
	Current() model.Location

	// Subscribe registers fn for location changes and returns a function
	// that removes the registration.
	Subscribe(fn func(model.Location)) (cancel func())
}

// ConfigStore is the saved-variable store: the enable flag, the ordered
// trigger list, and the persisted OverrideLedger. Implemented by store.Store.
type ConfigStore interface {
	LoadTriggers(ctx context.Context) (enabled bool, profiles []model.Profile, err error)
	LoadLedger(ctx context.Context) (model.Ledger, error)

	// PutOriginal records a channel's original value. It must not replace
	// an existing entry.
	PutOriginal(ctx context.Context, channel string, value float64) error
	DeleteOriginal(ctx context.Context, channel string) error
}

// PassLog receives the report of every pass that wrote at least one channel.
type PassLog interface {
	AppendPass(ctx context.Context, p model.Pass) error
}
