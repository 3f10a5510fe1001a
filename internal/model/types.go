package model

import "sort"

// DefaultVolume is the value assumed for a channel whose current value is
// missing or cannot be parsed.
const DefaultVolume = 1.0

// ClampVolume limits v to the [0, 1] range a sound channel accepts.
func ClampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// DefaultChannels are the sound channels known when no configuration
// overrides them.
var DefaultChannels = []string{"master", "sfx", "music", "ambience", "dialog"}

// Profile is a user-authored trigger: when any of Zones is active, the
// Volumes overrides apply, except for channels listed in Ignored.
type Profile struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Priority int                `json:"priority"`
	Zones    []string           `json:"zones"`
	Volumes  map[string]float64 `json:"volumes"`
	Ignored  map[string]bool    `json:"ignored"`

	// Malformed is set when the persisted record could not be decoded.
	// Malformed profiles never match.
	Malformed bool `json:"-"`
}

// IsIgnored reports whether channel is excluded from this profile's effect.
func (p Profile) IsIgnored(channel string) bool {
	return p.Ignored[channel]
}

// Clone returns a deep copy so callers can edit without aliasing.
func (p Profile) Clone() Profile {
	c := p
	c.Zones = append([]string(nil), p.Zones...)
	if p.Volumes != nil {
		c.Volumes = make(map[string]float64, len(p.Volumes))
		for k, v := range p.Volumes {
			c.Volumes[k] = v
		}
	}
	if p.Ignored != nil {
		c.Ignored = make(map[string]bool, len(p.Ignored))
		for k, v := range p.Ignored {
			c.Ignored[k] = v
		}
	}
	return c
}

// Location is the set of labels describing where the player currently is.
// Any field may be empty.
type Location struct {
	Realm   string `json:"realm" yaml:"realm"`
	SubZone string `json:"sub_zone" yaml:"sub"`
	Minimap string `json:"minimap" yaml:"minimap"`
}

// Labels returns the non-empty labels in realm, sub-zone, minimap order.
func (l Location) Labels() []string {
	labels := make([]string, 0, 3)
	for _, s := range []string{l.Realm, l.SubZone, l.Minimap} {
		if s != "" {
			labels = append(labels, s)
		}
	}
	return labels
}

// Ledger maps channel name to the value it had before the first override.
// A channel is present iff it is currently overridden.
type Ledger map[string]float64

// Clone returns a copy of the ledger.
func (l Ledger) Clone() Ledger {
	c := make(Ledger, len(l))
	for k, v := range l {
		c[k] = v
	}
	return c
}

// Channels returns the ledgered channel names in sorted order.
func (l Ledger) Channels() []string {
	names := make([]string, 0, len(l))
	for k := range l {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ChannelState is the per-channel state of the apply/restore controller.
type ChannelState struct {
	Overridden bool
	Original   float64 // valid only when Overridden
}

// String renders the state the way the CLI shows it.
func (s ChannelState) String() string {
	if s.Overridden {
		return "overridden"
	}
	return "free"
}

// StateOf derives a channel's state from the ledger.
func (l Ledger) StateOf(channel string) ChannelState {
	v, ok := l[channel]
	if !ok {
		return ChannelState{}
	}
	return ChannelState{Overridden: true, Original: v}
}
