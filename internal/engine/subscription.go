package engine

import (
	"log/slog"
	"sync"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// Subscription owns the engine's registration for location-change
// notifications. RefreshEventState starts it when triggers become active
// and stops it when they go idle, so an idle engine costs nothing per
// zone change.
type Subscription struct {
	source  LocationSource
	handler func(model.Location)

	mu     sync.Mutex
	cancel func()
}

// NewSubscription creates a stopped subscription.
func NewSubscription(source LocationSource, handler func(model.Location)) *Subscription {
	return &Subscription{source: source, handler: handler}
}

// Start registers the handler. Returns true if the subscription was stopped.
func (s *Subscription) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return false
	}
	s.cancel = s.source.Subscribe(s.handler)
	slog.Debug("location subscription started")
	return true
}

// Stop removes the registration. Returns true if the subscription was active.
func (s *Subscription) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil
	slog.Debug("location subscription stopped")
	return true
}

// Active reports whether the handler is currently registered.
func (s *Subscription) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
