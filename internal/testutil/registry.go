package testutil

import (
	"context"
	"sync"
)

// Registry is the channel registry surface the engine consumes.
type Registry interface {
	Channels() []string
	ReadVolume(ctx context.Context, name string) (float64, error)
	WriteVolume(ctx context.Context, name string, value float64) error
}

// Write is one recorded registry write.
type Write struct {
	Channel string
	Value   float64
}

// RecordingRegistry wraps a registry, records every successful write, and
// can be told to fail reads or writes for specific channels.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type RecordingRegistry struct {
	inner Registry

	mu        sync.Mutex
	writes    []Write
	failRead  map[string]error
	failWrite map[string]error
}

// NewRecordingRegistry wraps inner.
func NewRecordingRegistry(inner Registry) *RecordingRegistry {
	return &RecordingRegistry{
		inner:     inner,
		failRead:  make(map[string]error),
		failWrite: make(map[string]error),
	}
}

// Channels delegates to the wrapped registry.
func (r *RecordingRegistry) Channels() []string {
	return r.inner.Channels()
}

// ReadVolume delegates unless a read failure is armed for name.
func (r *RecordingRegistry) ReadVolume(ctx context.Context, name string) (float64, error) {
	r.mu.Lock()
	err := r.failRead[name]
	r.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return r.inner.ReadVolume(ctx, name)
}

// WriteVolume delegates unless a write failure is armed for name.
// Only successful writes are recorded.
func (r *RecordingRegistry) WriteVolume(ctx context.Context, name string, value float64) error {
	r.mu.Lock()
	err := r.failWrite[name]
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if err := r.inner.WriteVolume(ctx, name, value); err != nil {
		return err
	}
	r.mu.Lock()
	r.writes = append(r.writes, Write{Channel: name, Value: value})
	r.mu.Unlock()
	return nil
}

// FailReads makes reads of name return err. A nil err disarms.
func (r *RecordingRegistry) FailReads(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failRead, name)
		return
	}
	r.failRead[name] = err
}

// FailWrites makes writes of name return err. A nil err disarms.
func (r *RecordingRegistry) FailWrites(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failWrite, name)
		return
	}
	r.failWrite[name] = err
}

// Writes returns the recorded writes in order.
func (r *RecordingRegistry) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Write, len(r.writes))
	copy(out, r.writes)
	return out
}

// Reset forgets recorded writes.
func (r *RecordingRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
}
