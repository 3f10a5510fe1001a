package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// AssertionError is returned when an expectation fails.
// It includes the step's trace event to help debug the failure.
type AssertionError struct {
	Step     int
	Field    string // channels, ledger, writes or passes
	Expected string
	Actual   string
	Event    TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "step %d (%s): %s mismatch\n", e.Step, e.Event.Action, e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Event.Writes) > 0 {
		fmt.Fprintf(&buf, "\nWrites:\n")
		for i, w := range e.Event.Writes {
			fmt.Fprintf(&buf, "  [%d] %s %s %v -> %v\n", i+1, w.Kind, w.Channel, w.From, w.To)
		}
	}

	return buf.String()
}

// checkExpect evaluates one expect clause and returns failure messages.
func checkExpect(ev TraceEvent, expect ExpectClause) []string {
	var errs []string
	for _, err := range []error{
		assertChannels(ev, expect.Channels),
		assertLedger(ev, expect.Ledger),
		assertCount(ev, "writes", expect.Writes, len(ev.Writes)),
		assertCount(ev, "passes", expect.Passes, ev.Passes),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// assertChannels checks the named channels only (subset semantics).
func assertChannels(ev TraceEvent, want map[string]float64) error {
	var bad []string
	for _, ch := range sortedKeys(want) {
		got, ok := ev.Channels[ch]
		if !ok {
			bad = append(bad, fmt.Sprintf("%s=<unknown>", ch))
			continue
		}
		if got != want[ch] {
			bad = append(bad, fmt.Sprintf("%s=%v", ch, got))
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return &AssertionError{
		Step:     ev.Step,
		Field:    "channels",
		Expected: formatValues(want),
		Actual:   strings.Join(bad, ", "),
		Event:    ev,
	}
}

// assertLedger requires an exact match. A nil want skips the check.
func assertLedger(ev TraceEvent, want map[string]float64) error {
	if want == nil {
		return nil
	}
	if ledgerEqual(ev.Ledger, want) {
		return nil
	}
	return &AssertionError{
		Step:     ev.Step,
		Field:    "ledger",
		Expected: formatValues(want),
		Actual:   formatValues(ev.Ledger),
		Event:    ev,
	}
}

func assertCount(ev TraceEvent, field string, want *int, got int) error {
	if want == nil || *want == got {
		return nil
	}
	return &AssertionError{
		Step:     ev.Step,
		Field:    field,
		Expected: fmt.Sprintf("%d", *want),
		Actual:   fmt.Sprintf("%d", got),
		Event:    ev,
	}
}

func ledgerEqual(got model.Ledger, want map[string]float64) bool {
	if len(got) != len(want) {
		return false
	}
	for ch, v := range want {
		g, ok := got[ch]
		if !ok || g != v {
			return false
		}
	}
	return true
}

// formatValues renders a channel map as "{a=1, b=0.5}" in key order.
func formatValues(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
