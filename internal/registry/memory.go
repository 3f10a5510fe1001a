package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// ErrUnknownChannel is returned for a channel the registry does not know.
var ErrUnknownChannel = errors.New("unknown channel")

// Memory is an in-memory registry. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	values map[string]float64
}

// NewMemory creates a registry whose known channels are the keys of values.
func NewMemory(values map[string]float64) *Memory {
	m := &Memory{values: make(map[string]float64, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Channels returns the known channel names, sorted.
func (m *Memory) Channels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.values))
	for k := range m.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ReadVolume returns the channel's value.
func (m *Memory) ReadVolume(_ context.Context, name string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[name]
	if !ok {
		return model.DefaultVolume, fmt.Errorf("read %q: %w", name, ErrUnknownChannel)
	}
	return v, nil
}

// WriteVolume sets the channel's value, clamped into [0, 1].
func (m *Memory) WriteVolume(_ context.Context, name string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[name]; !ok {
		return fmt.Errorf("write %q: %w", name, ErrUnknownChannel)
	}
	m.values[name] = model.ClampVolume(value)
	return nil
}

// Snapshot returns a copy of every channel value.
func (m *Memory) Snapshot() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
