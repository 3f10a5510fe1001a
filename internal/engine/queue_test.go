package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

func locEvent(realm string) Event {
	return Event{Type: EventLocationChanged, Location: model.Location{Realm: realm}}
}

func TestEventQueue_EnqueueDequeue(t *testing.T) {
	q := newEventQueue()

	ok := q.Enqueue(locEvent("Durotar"))
	require.True(t, ok, "enqueue should succeed")

	got, ok := q.TryDequeue()
	require.True(t, ok, "dequeue should succeed")
	assert.Equal(t, EventLocationChanged, got.Type)
	assert.Equal(t, "Durotar", got.Location.Realm)
}

func TestEventQueue_FIFO(t *testing.T) {
	q := newEventQueue()

	for _, realm := range []string{"A", "B", "C"} {
		q.Enqueue(locEvent(realm))
	}

	for _, want := range []string{"A", "B", "C"} {
		e, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, e.Location.Realm)
	}
}

func TestEventQueue_TryDequeue_Empty(t *testing.T) {
	q := newEventQueue()

	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestEventQueue_WaitSignals(t *testing.T) {
	q := newEventQueue()

	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Enqueue(locEvent("Durotar"))
	}()

	select {
	case <-q.Wait():
		assert.Equal(t, 1, q.Len())
	case <-time.After(time.Second):
		t.Fatal("wait did not signal")
	}
}

func TestEventQueue_Close(t *testing.T) {
	q := newEventQueue()
	assert.False(t, q.Closed())

	q.Close()
	q.Close()

	assert.True(t, q.Closed())
	assert.False(t, q.Enqueue(locEvent("Durotar")), "enqueue after close should return false")

	select {
	case <-q.Wait():
	case <-time.After(time.Second):
		t.Fatal("wait channel not closed")
	}
}

func TestEventQueue_Len(t *testing.T) {
	q := newEventQueue()

	assert.Equal(t, 0, q.Len())
	q.Enqueue(locEvent("1"))
	q.Enqueue(Event{Type: EventConfigChanged})
	assert.Equal(t, 2, q.Len())

	q.TryDequeue()
	assert.Equal(t, 1, q.Len())
}

func TestEventQueue_ThreadSafe(t *testing.T) {
	q := newEventQueue()

	const producers = 10
	const eventsPerProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < eventsPerProducer; i++ {
				q.Enqueue(Event{Type: EventConfigChanged})
			}
		}()
	}
	wg.Wait()

	count := 0
	for {
		if _, ok := q.TryDequeue(); !ok {
			break
		}
		count++
	}
	assert.Equal(t, producers*eventsPerProducer, count)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "location_changed", EventLocationChanged.String())
	assert.Equal(t, "config_changed", EventConfigChanged.String())
	assert.Equal(t, "unknown", EventType(0).String())
}
