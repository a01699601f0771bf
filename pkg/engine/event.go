package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventKind identifies the type of engine event.
type EventKind string

const (
	// EventState carries the store.State written by every command.
	EventState EventKind = "state"
	// EventTransitionStart carries the transition.Motion handed to the driver.
	EventTransitionStart EventKind = "transition_start"
	// EventSettled carries the transition.Settle of every window rebuild.
	EventSettled EventKind = "settled"
	// EventWarning carries a Warning.
	EventWarning EventKind = "warning"
	// EventClosed is published once when a carousel is closed.
	EventClosed EventKind = "closed"
)

// Event is an immutable notification of carousel activity.
type Event struct {
	Kind      EventKind
	Instance  string // carousel instance ID
	Carousel  string // carousel configuration name
	Timestamp time.Time
	Data      any
}

// Warning is a recoverable configuration problem that was corrected locally.
type Warning struct {
	Field   string
	Message string
}

// Subscription receives events from an EventBus.
type Subscription struct {
	C       <-chan Event
	ch      chan Event
	dropped atomic.Uint64
}

// TakeDropped returns how many events were dropped because the buffer was
// full since the previous call, and resets the count.
func (s *Subscription) TakeDropped() uint64 {
	return s.dropped.Swap(0)
}

// EventBus fans out events to all active subscribers. It is safe for
// concurrent use.
type EventBus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewEventBus creates an EventBus ready for use.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe creates a new subscription with the given channel buffer size.
// The caller should read from sub.C and eventually call Unsubscribe. A
// subscription made after Close receives a closed channel.
func (b *EventBus) Subscribe(bufSize int) *Subscription {
	ch := make(chan Event, bufSize)
	sub := &Subscription{C: ch, ch: ch}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return sub
	}
	b.subs[sub] = struct{}{}

	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Publish sends an event to all subscribers. If a subscriber's buffer is full
// the event is dropped for that subscriber and counted; see
// Subscription.TakeDropped.
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
			sub.dropped.Add(1)
		}
	}
}

// Close unsubscribes everyone. Later publishes are dropped.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.ch)
	}
	b.closed = true
}
