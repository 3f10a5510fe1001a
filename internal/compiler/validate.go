package compiler

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// Validation error codes (E200-E299)
const (
	ErrNameEmpty          = "E201" // profile name is empty
	ErrVolumeOutOfRange   = "E202" // volume outside [0, 1]
	ErrUnknownChannel     = "E203" // channel not in the known set
	ErrDuplicateZone      = "E204" // zone label repeated after case folding
	ErrSetAndIgnored      = "E205" // channel both overridden and ignored
	ErrEmptyZone          = "E206" // zone label is blank
	ErrUnsupportedProfile = "E200" // value passed to Validate is not a profile
)

// ValidationError represents a profile validation finding.
//
// Validation is advisory: the engine accepts any profile. Warnings flag
// definitions that work but probably do not do what the author meant.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Warning bool   `json:"warning,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Warning {
		return fmt.Sprintf("[%s] warning: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a profile and returns every finding (does not fail-fast).
// known is the set of registry channels; nil skips the unknown-channel check.
func Validate(v any, known []string) []ValidationError {
	switch p := v.(type) {
	case *model.Profile:
		return validateProfile(p, known)
	case model.Profile:
		return validateProfile(&p, known)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type: %T", v),
			Code:    ErrUnsupportedProfile,
		}}
	}
}

// HasErrors reports whether any finding is not a warning.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if !e.Warning {
			return true
		}
	}
	return false
}

func validateProfile(p *model.Profile, known []string) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name is required and must be non-empty",
			Code:    ErrNameEmpty,
		})
	}

	seen := make(map[string]int)
	for i, zone := range p.Zones {
		field := fmt.Sprintf("zones[%d]", i)
		key := model.FoldLabel(zone)
		if key == "" {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "zone label is blank and can never match",
				Code:    ErrEmptyZone,
				Warning: true,
			})
			continue
		}
		if first, dup := seen[key]; dup {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%q repeats zones[%d] (labels match case-insensitively)", zone, first),
				Code:    ErrDuplicateZone,
				Warning: true,
			})
			continue
		}
		seen[key] = i
	}

	var knownSet map[string]bool
	if known != nil {
		knownSet = make(map[string]bool, len(known))
		for _, ch := range known {
			knownSet[ch] = true
		}
	}

	for _, ch := range sortedKeys(p.Volumes) {
		v := p.Volumes[ch]
		field := "volumes." + ch
		if math.IsNaN(v) || v < 0 || v > 1 {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("volume %v is outside [0, 1]", v),
				Code:    ErrVolumeOutOfRange,
			})
		}
		if knownSet != nil && !knownSet[ch] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("unknown channel %q", ch),
				Code:    ErrUnknownChannel,
			})
		}
		if p.Ignored[ch] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("channel %q is also ignored, so this volume never applies", ch),
				Code:    ErrSetAndIgnored,
				Warning: true,
			})
		}
	}

	for _, ch := range sortedKeys(p.Ignored) {
		if knownSet != nil && !knownSet[ch] {
			errs = append(errs, ValidationError{
				Field:   "ignore." + ch,
				Message: fmt.Sprintf("unknown channel %q", ch),
				Code:    ErrUnknownChannel,
			})
		}
	}

	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
