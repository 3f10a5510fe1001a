package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// Scenario defines a trigger-engine test scenario.
// A scenario seeds channels, triggers and ledger, then executes steps and
// checks each step's expect clause against the engine's observable state.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Channels are the registry's known channels and their starting values.
	Channels map[string]float64 `yaml:"channels"`

	// Enabled is the starting enableTriggers flag. Defaults to true.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Location is the player's location before the first step.
	Location model.Location `yaml:"location,omitempty"`

	// Triggers are stored in list order before the first step.
	Triggers []TriggerDef `yaml:"triggers,omitempty"`

	// Ledger is a persisted ledger left by an earlier session.
	Ledger map[string]float64 `yaml:"ledger,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`
}

// TriggerDef is a trigger profile as written in a scenario.
type TriggerDef struct {
	// ID defaults to Name so traces stay deterministic.
	ID       string             `yaml:"id,omitempty"`
	Name     string             `yaml:"name"`
	Priority int                `yaml:"priority"`
	Zones    []string           `yaml:"zones"`
	Volumes  map[string]float64 `yaml:"volumes"`
	Ignore   []string           `yaml:"ignore,omitempty"`
}

// Profile converts the definition to a model profile.
func (d TriggerDef) Profile() model.Profile {
	p := model.Profile{
		ID:       d.ID,
		Name:     d.Name,
		Priority: d.Priority,
		Zones:    append([]string(nil), d.Zones...),
		Volumes:  make(map[string]float64, len(d.Volumes)),
		Ignored:  make(map[string]bool, len(d.Ignore)),
	}
	if p.ID == "" {
		p.ID = d.Name
	}
	for ch, v := range d.Volumes {
		p.Volumes[ch] = v
	}
	for _, ch := range d.Ignore {
		p.Ignored[ch] = true
	}
	return p
}

// NewTriggerDef converts a profile to its scenario form. Ignored channels
// are listed in sorted order.
func NewTriggerDef(p model.Profile) TriggerDef {
	d := TriggerDef{
		ID:       p.ID,
		Name:     p.Name,
		Priority: p.Priority,
		Zones:    append([]string{}, p.Zones...),
		Volumes:  make(map[string]float64, len(p.Volumes)),
	}
	for ch, v := range p.Volumes {
		d.Volumes[ch] = v
	}
	for ch, ignored := range p.Ignored {
		if ignored {
			d.Ignore = append(d.Ignore, ch)
		}
	}
	sort.Strings(d.Ignore)
	return d
}

// Step is one scenario action. Exactly one action field must be set.
type Step struct {
	Location      *model.Location    `yaml:"location,omitempty"`
	Enable        bool               `yaml:"enable,omitempty"`
	Disable       bool               `yaml:"disable,omitempty"`
	SetChannel    map[string]float64 `yaml:"set_channel,omitempty"`
	AddTrigger    *TriggerDef        `yaml:"add_trigger,omitempty"`
	RemoveTrigger string             `yaml:"remove_trigger,omitempty"`
	Refresh       bool               `yaml:"refresh,omitempty"`

	// Expect is checked after the step. Nil skips validation.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// Step action names, as they appear in traces.
const (
	ActionLocation      = "location"
	ActionEnable        = "enable"
	ActionDisable       = "disable"
	ActionSetChannel    = "set_channel"
	ActionAddTrigger    = "add_trigger"
	ActionRemoveTrigger = "remove_trigger"
	ActionRefresh       = "refresh"
)

// Action returns the name of the step's action.
func (s Step) Action() (string, error) {
	var set []string
	if s.Location != nil {
		set = append(set, ActionLocation)
	}
	if s.Enable {
		set = append(set, ActionEnable)
	}
	if s.Disable {
		set = append(set, ActionDisable)
	}
	if len(s.SetChannel) > 0 {
		set = append(set, ActionSetChannel)
	}
	if s.AddTrigger != nil {
		set = append(set, ActionAddTrigger)
	}
	if s.RemoveTrigger != "" {
		set = append(set, ActionRemoveTrigger)
	}
	if s.Refresh {
		set = append(set, ActionRefresh)
	}

	switch len(set) {
	case 0:
		return "", fmt.Errorf("no action set")
	case 1:
		return set[0], nil
	default:
		return "", fmt.Errorf("multiple actions set: %s", strings.Join(set, ", "))
	}
}

// ExpectClause specifies the state expected after a step.
type ExpectClause struct {
	// Channels is a subset match against registry values.
	Channels map[string]float64 `yaml:"channels,omitempty"`

	// Ledger, when present, must equal the engine ledger exactly.
	// Use {} to require an empty ledger.
	Ledger map[string]float64 `yaml:"ledger,omitempty"`

	// Writes is the exact number of channel writes the step caused.
	Writes *int `yaml:"writes,omitempty"`

	// Passes is the exact number of engine passes the step ran.
	Passes *int `yaml:"passes,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns the YAML scenario files in dir, sorted by path.
// A non-empty filter is matched against the file's base name.
func FindScenarios(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenarios dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			ok, err := filepath.Match(filter, name)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Channels) == 0 {
		return fmt.Errorf("channels map is required and must be non-empty")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	ids := make(map[string]bool)
	for i, def := range s.Triggers {
		if err := validateTrigger(def); err != nil {
			return fmt.Errorf("triggers[%d]: %w", i, err)
		}
		if err := claimID(ids, def); err != nil {
			return fmt.Errorf("triggers[%d]: %w", i, err)
		}
	}

	for i, step := range s.Steps {
		if _, err := step.Action(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if step.AddTrigger == nil {
			continue
		}
		def := *step.AddTrigger
		if err := validateTrigger(def); err != nil {
			return fmt.Errorf("steps[%d].add_trigger: %w", i, err)
		}
		// An explicit id may name an earlier trigger to update it.
		if def.ID != "" {
			ids[def.ID] = true
			continue
		}
		if err := claimID(ids, def); err != nil {
			return fmt.Errorf("steps[%d].add_trigger: %w", i, err)
		}
	}

	return nil
}

// claimID records the trigger's id. Profiles are saved by id, so a second
// trigger with the same id would silently replace the first.
func claimID(ids map[string]bool, def TriggerDef) error {
	id := def.Profile().ID
	if ids[id] {
		if def.ID == "" {
			return fmt.Errorf("duplicate name %q: set id to keep both triggers", def.Name)
		}
		return fmt.Errorf("duplicate id %q", id)
	}
	ids[id] = true
	return nil
}

func validateTrigger(def TriggerDef) error {
	if def.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
