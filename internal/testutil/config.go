package testutil

import (
	"context"
	"sync"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// ConfigStore is the saved-variable surface the engine consumes.
type ConfigStore interface {
	LoadTriggers(ctx context.Context) (bool, []model.Profile, error)
	LoadLedger(ctx context.Context) (model.Ledger, error)
	PutOriginal(ctx context.Context, channel string, value float64) error
	DeleteOriginal(ctx context.Context, channel string) error
}

// Store operations that FlakyStore can fail.
const (
	OpLoadTriggers   = "load_triggers"
	OpLoadLedger     = "load_ledger"
	OpPutOriginal    = "put_original"
	OpDeleteOriginal = "delete_original"
)

// FlakyStore wraps a ConfigStore and fails chosen operations on demand.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FlakyStore struct {
	inner ConfigStore

	mu   sync.Mutex
	fail map[string]error
}

// NewFlakyStore wraps inner with no failures armed.
func NewFlakyStore(inner ConfigStore) *FlakyStore {
	return &FlakyStore{inner: inner, fail: make(map[string]error)}
}

// Fail makes op return err. A nil err disarms.
func (s *FlakyStore) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *FlakyStore) armed(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail[op]
}

func (s *FlakyStore) LoadTriggers(ctx context.Context) (bool, []model.Profile, error) {
	if err := s.armed(OpLoadTriggers); err != nil {
		return false, nil, err
	}
	return s.inner.LoadTriggers(ctx)
}

func (s *FlakyStore) LoadLedger(ctx context.Context) (model.Ledger, error) {
	if err := s.armed(OpLoadLedger); err != nil {
		return nil, err
	}
	return s.inner.LoadLedger(ctx)
}

func (s *FlakyStore) PutOriginal(ctx context.Context, channel string, value float64) error {
	if err := s.armed(OpPutOriginal); err != nil {
		return err
	}
	return s.inner.PutOriginal(ctx, channel, value)
}

func (s *FlakyStore) DeleteOriginal(ctx context.Context, channel string) error {
	if err := s.armed(OpDeleteOriginal); err != nil {
		return err
	}
	return s.inner.DeleteOriginal(ctx, channel)
}
