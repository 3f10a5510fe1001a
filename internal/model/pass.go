package model

// WriteKind says which apply/restore transition produced a channel write.
type WriteKind string

const (
	// WriteApply is the first override of a Free channel.
	WriteApply WriteKind = "apply"
	// WriteUpdate changes an already Overridden channel to a new target.
	WriteUpdate WriteKind = "update"
	// WriteRestore writes the ledgered original back to a released channel.
	WriteRestore WriteKind = "restore"
)

// ChannelWrite is one registry write performed during a pass.
type ChannelWrite struct {
	Channel string    `json:"channel"`
	From    float64   `json:"from"`
	To      float64   `json:"to"`
	Kind    WriteKind `json:"kind"`
}

// Pass is the report of one engine evaluation pass.
type Pass struct {
	// Seq is the pass number from the engine's logical clock.
	Seq int64 `json:"seq"`

	// Active is true when triggers were enabled and at least one profile existed.
	Active bool `json:"active"`

	// Reindexed is true when the Zone Index was rebuilt in this pass.
	Reindexed bool `json:"reindexed"`

	Location  Location           `json:"location"`
	Matched   []string           `json:"matched"`   // profile IDs, ascending list position
	Effective map[string]float64 `json:"effective"` // merged volumes, unknown channels included
	Writes    []ChannelWrite     `json:"writes"`
	Ledger    Ledger             `json:"ledger"` // snapshot after the pass
}

// WriteCount returns the number of channel writes in the pass.
func (p Pass) WriteCount() int {
	return len(p.Writes)
}
