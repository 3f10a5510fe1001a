package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// FormatTrace renders a trace as canonical JSON, one step per line.
// The output is byte-stable and used as golden file content.
func FormatTrace(trace []TraceEvent) ([]byte, error) {
	var buf bytes.Buffer
	for _, ev := range trace {
		line, err := model.MarshalCanonical(ev.canonicalMap())
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", ev.Step, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// canonicalMap converts an event for model.MarshalCanonical, which only
// handles primitives, []any and map[string]any.
func (ev TraceEvent) canonicalMap() map[string]any {
	writes := make([]any, len(ev.Writes))
	for i, w := range ev.Writes {
		writes[i] = map[string]any{
			"channel": w.Channel,
			"from":    w.From,
			"to":      w.To,
			"kind":    string(w.Kind),
		}
	}

	return map[string]any{
		"step":     ev.Step,
		"action":   ev.Action,
		"passes":   ev.Passes,
		"writes":   writes,
		"ledger":   valuesMap(ev.Ledger),
		"channels": valuesMap(ev.Channels),
	}
}

func valuesMap(m map[string]float64) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := FormatTrace(result.Trace)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
