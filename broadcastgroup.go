// broadcastgroup.go
package qstore

import (
	"sync"
	"time"
)

// EventKind names the mutation an Event reports.
type EventKind string

const (
	EventStateCreated        EventKind = "state-created"
	EventStateUpdated        EventKind = "state-updated"
	EventMeasurementRecorded EventKind = "measurement-recorded"
)

/*
Event is published by the stores while they still hold the lock of the
mutation it reports, so subscribers see events in mutation order.
MeasurementID and Result are only set for EventMeasurementRecorded; Label is
only meaningful for the state events.
*/
type Event struct {
	Kind           EventKind `json:"kind"`
	QuantumStateID uint64    `json:"quantum_state_id"`
	Label          string    `json:"label"`
	MeasurementID  *uint64   `json:"measurement_id,omitempty"`
	Result         Outcome   `json:"result,omitempty"`
	At             time.Time `json:"at"`
}

// Collapsed reports whether the event is the first measurement of its state.
func (event Event) Collapsed() bool {
	return event.Kind == EventMeasurementRecorded && event.Result == OutcomeCollapsed
}

/*
FilterFunc decides whether an event is delivered.

Parameters:
  - Event: The event about to be delivered

Returns:
  - bool: True if the event should be delivered, false to drop it
*/
type FilterFunc func(Event) bool

// OnlyKinds delivers events of the given kinds.
func OnlyKinds(kinds ...EventKind) FilterFunc {
	return func(event Event) bool {
		for _, kind := range kinds {
			if event.Kind == kind {
				return true
			}
		}
		return false
	}
}

// OnlyState delivers events about a single quantum state.
func OnlyState(id uint64) FilterFunc {
	return func(event Event) bool {
		return event.QuantumStateID == id
	}
}

/*
BroadcastGroup fans events out to subscribers. Delivery never blocks the
publisher: a subscriber whose buffer is full misses the event, and the drop
is counted in the group metrics.
*/
type BroadcastGroup struct {
	mu sync.RWMutex

	subscribers map[string]chan Event
	filters     map[string][]FilterFunc
	metrics     *BroadcastMetrics
	closed      bool
}

type BroadcastMetrics struct {
	EventsSent        int64
	EventsDropped     int64
	ActiveSubscribers int
	LastBroadcastTime time.Time
}

func NewBroadcastGroup() *BroadcastGroup {
	return &BroadcastGroup{
		subscribers: make(map[string]chan Event),
		filters:     make(map[string][]FilterFunc),
		metrics:     &BroadcastMetrics{},
	}
}

/*
Subscribe registers a subscriber. An event is delivered to it only when every
filter accepts the event. Subscribing again under the same id replaces the
previous channel, which is closed.

Parameters:
  - subscriberID: Unique identifier for the subscriber
  - bufferSize: Size of the subscriber's channel buffer; negative means 0
  - filters: Optional filters

Returns:
  - <-chan Event: Channel receiving events until Unsubscribe or Close
*/
func (bg *BroadcastGroup) Subscribe(subscriberID string, bufferSize int, filters ...FilterFunc) <-chan Event {
	bg.mu.Lock()
	defer bg.mu.Unlock()

	if bufferSize < 0 {
		bufferSize = 0
	}

	ch := make(chan Event, bufferSize)
	if bg.closed {
		close(ch)
		return ch
	}

	if old, exists := bg.subscribers[subscriberID]; exists {
		close(old)
	} else {
		bg.metrics.ActiveSubscribers++
	}

	bg.subscribers[subscriberID] = ch
	bg.filters[subscriberID] = filters
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (bg *BroadcastGroup) Unsubscribe(subscriberID string) {
	bg.mu.Lock()
	defer bg.mu.Unlock()

	if ch, exists := bg.subscribers[subscriberID]; exists {
		close(ch)
		delete(bg.subscribers, subscriberID)
		delete(bg.filters, subscriberID)
		bg.metrics.ActiveSubscribers--
	}
}

// Send delivers event to every subscriber whose filters accept it.
func (bg *BroadcastGroup) Send(event Event) {
	bg.mu.Lock()
	defer bg.mu.Unlock()

	if bg.closed {
		return
	}

	bg.metrics.LastBroadcastTime = time.Now()

	for id, ch := range bg.subscribers {
		if !accepts(bg.filters[id], event) {
			continue
		}

		select {
		case ch <- event:
			bg.metrics.EventsSent++
		default:
			bg.metrics.EventsDropped++
		}
	}
}

func accepts(filters []FilterFunc, event Event) bool {
	for _, filter := range filters {
		if !filter(event) {
			return false
		}
	}
	return true
}

func (bg *BroadcastGroup) GetMetrics() BroadcastMetrics {
	bg.mu.RLock()
	defer bg.mu.RUnlock()
	return *bg.metrics
}

// Close closes every subscriber channel. Later sends are ignored.
func (bg *BroadcastGroup) Close() {
	bg.mu.Lock()
	defer bg.mu.Unlock()

	if bg.closed {
		return
	}

	for _, ch := range bg.subscribers {
		close(ch)
	}

	bg.subscribers = map[string]chan Event{}
	bg.filters = map[string][]FilterFunc{}
	bg.metrics.ActiveSubscribers = 0
	bg.closed = true
}
