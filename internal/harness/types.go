package harness

import (
	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// TraceEvent records the observable outcome of one scenario step.
type TraceEvent struct {
	Step     int                  `json:"step"` // 1-indexed
	Action   string               `json:"action"`
	Passes   int                  `json:"passes"` // successful engine passes run by the step
	Writes   []model.ChannelWrite `json:"writes"`
	Ledger   model.Ledger         `json:"ledger"`   // after the step
	Channels map[string]float64   `json:"channels"` // registry snapshot after the step
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses match.
	Pass bool `json:"pass"`

	// Trace has one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final channel values and ledger after the last step.
	Channels map[string]float64 `json:"channels"`
	Ledger   model.Ledger       `json:"ledger"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []TraceEvent{},
		Errors:   []string{},
		Channels: map[string]float64{},
		Ledger:   model.Ledger{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}

// WriteCount returns the total number of channel writes across the trace.
func (r *Result) WriteCount() int {
	n := 0
	for _, ev := range r.Trace {
		n += len(ev.Writes)
	}
	return n
}
