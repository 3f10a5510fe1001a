package engine

import "sync/atomic"

// Clock numbers evaluation passes.
//
// Every pass is stamped with a strictly increasing seq from this clock, so
// the pass log orders deterministically regardless of wall time.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// In practice only the engine loop calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after a known sequence number,
// e.g. the last pass recorded in the store.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
