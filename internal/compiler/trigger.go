package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// TriggerError ties a compile error to the label of the trigger it came from.
type TriggerError struct {
	Label string
	Err   error
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("trigger.%s: %v", e.Label, e.Err)
}

func (e *TriggerError) Unwrap() error { return e.Err }

// CompileTriggers compiles every profile under the root's "trigger" field,
// in declaration order. A root without triggers yields an empty list.
//
// Failing triggers are reported as *TriggerError. With collectAll false the
// first failure stops compilation; otherwise every trigger is attempted and
// the ones that compiled are returned alongside the errors.
func CompileTriggers(root cue.Value, collectAll bool) ([]model.Profile, []error) {
	if err := root.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	profiles := []model.Profile{}
	triggersVal := root.LookupPath(cue.ParsePath("trigger"))
	if !triggersVal.Exists() {
		return profiles, nil
	}

	iter, err := triggersVal.Fields()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}

	var errs []error
	for iter.Next() {
		p, err := CompileTrigger(iter.Value())
		if err != nil {
			errs = append(errs, &TriggerError{Label: selectorName(iter.Selector()), Err: err})
			if !collectAll {
				return profiles, errs
			}
			continue
		}
		profiles = append(profiles, *p)
	}
	return profiles, errs
}

// CompileTrigger parses a CUE value into a Profile.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the trigger struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`trigger: "Test 1": { ... }`)
//	p, err := CompileTrigger(v.LookupPath(cue.MakePath(cue.Str("trigger"), cue.Str("Test 1"))))
//
// The profile name is the struct label. Every field is optional; a trigger
// with no zones or no volumes is valid and inert.
func CompileTrigger(v cue.Value) (*model.Profile, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &CompileError{Field: "trigger", Message: "trigger not found", Pos: v.Pos()}
	}

	p := &model.Profile{
		Zones:   []string{},
		Volumes: map[string]float64{},
		Ignored: map[string]bool{},
	}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		p.Name = selectorName(labels[len(labels)-1])
	}

	if idVal := v.LookupPath(cue.ParsePath("id")); idVal.Exists() {
		id, err := idVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if !model.IsProfileID(id) {
			return nil, &CompileError{
				Field:   "id",
				Message: fmt.Sprintf("%q is not a profile id", id),
				Pos:     idVal.Pos(),
			}
		}
		p.ID = id
	}

	if prioVal := v.LookupPath(cue.ParsePath("priority")); prioVal.Exists() {
		prio, err := prioVal.Int64()
		if err != nil {
			return nil, &CompileError{
				Field:   "priority",
				Message: "priority must be an integer",
				Pos:     prioVal.Pos(),
			}
		}
		p.Priority = int(prio)
	}

	zones, err := parseStringList(v, "zones")
	if err != nil {
		return nil, err
	}
	p.Zones = zones

	if err := parseVolumes(v, p.Volumes); err != nil {
		return nil, err
	}

	ignored, err := parseStringList(v, "ignore")
	if err != nil {
		return nil, err
	}
	for _, ch := range ignored {
		p.Ignored[ch] = true
	}

	return p, nil
}

// selectorName returns a label without the quotes CUE adds to
// non-identifier labels such as "Test 1".
func selectorName(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

// parseStringList reads an optional list of strings.
func parseStringList(v cue.Value, field string) ([]string, error) {
	out := []string{}
	listVal := v.LookupPath(cue.ParsePath(field))
	if !listVal.Exists() {
		return out, nil
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: field + " must be a list of strings",
			Pos:     listVal.Pos(),
		}
	}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   field,
				Message: field + " must be a list of strings",
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// parseVolumes reads the optional channel -> volume struct.
// Both int and float literals are accepted (1 and 1.0).
func parseVolumes(v cue.Value, dst map[string]float64) error {
	volVal := v.LookupPath(cue.ParsePath("volumes"))
	if !volVal.Exists() {
		return nil
	}

	iter, err := volVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		ch := selectorName(iter.Selector())
		f, err := iter.Value().Float64()
		if err != nil {
			return &CompileError{
				Field:   "volumes." + ch,
				Message: "volume must be a number",
				Pos:     iter.Value().Pos(),
			}
		}
		dst[ch] = f
	}
	return nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
