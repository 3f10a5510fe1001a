package engine

import (
	"sync"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// EventType distinguishes between event kinds.
type EventType int

const (
	// EventLocationChanged is a zone entered / zone changed / world entry
	// notification from the location source.
	EventLocationChanged EventType = iota + 1
	// EventConfigChanged signals that the enable flag or profile list may
	// have changed in the store.
	EventConfigChanged
)

// String returns the event type name used in logs.
func (t EventType) String() string {
	switch t {
	case EventLocationChanged:
		return "location_changed"
	case EventConfigChanged:
		return "config_changed"
	default:
		return "unknown"
	}
}

// Event is a notification for the engine loop.
type Event struct {
	Type EventType

	// Location is the location carried by the notification. The pass
	// re-reads the source, so this is informational.
	Location model.Location
}

// eventQueue is a thread-safe FIFO queue for events.
//
// Notifications may arrive from a reader goroutine (the CLI's stdin feed)
// while the Run loop dequeues. The queue uses a channel for signaling to
// enable context-aware waiting in the Run loop.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{} // buffered, size 1
}

// newEventQueue creates an empty event queue.
func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, e)

	// Non-blocking: the buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (Event{}, false) if the queue is empty.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]
	q.events[0] = Event{}
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// Wait returns a channel that signals when events may be available.
// The channel is closed when the queue is closed.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Closed reports whether Close has been called.
func (q *eventQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close signals that no more events will be enqueued.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
