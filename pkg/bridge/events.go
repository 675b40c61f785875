package bridge

import (
	"context"
	"sync"
	"time"
)

// EventType identifies which kind of store mutation an event describes.
type EventType string

const (
	EventMessageSent    EventType = "message_sent"
	EventTaskCreated    EventType = "task_created"
	EventTaskUpdated    EventType = "task_updated"
	EventContextUpdated EventType = "context_updated"
)

// Event is a notification of a single store mutation. Exactly one of
// Message, Task or Context is set, matching the Type.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Message   *Message       `json:"message,omitempty"`
	Task      *Task          `json:"task,omitempty"`
	Context   *SharedContext `json:"context,omitempty"`
}

// Subscription represents an active subscription to store mutations.
// Delivery is best-effort: a subscriber that falls behind the channel
// buffer misses events rather than blocking writers.
type Subscription struct {
	events chan Event
	bus    *eventBus
	cancel context.CancelFunc
	once   sync.Once
}

// Events returns the channel on which events are delivered.
// The channel is closed when the subscription is closed.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close terminates the subscription and closes the events channel.
// It is safe to call Close multiple times.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.cancel()
		s.bus.unsubscribe(s)
	})
}

// eventBus fans store mutations out to subscribers in-process.
type eventBus struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[*Subscription]struct{})}
}

// subscribe registers a new subscription tied to ctx. The subscription
// is closed automatically when ctx is cancelled.
func (b *eventBus) subscribe(ctx context.Context) *Subscription {
	ctx, cancel := context.WithCancel(ctx)

	sub := &Subscription{
		events: make(chan Event, 10),
		bus:    b,
		cancel: cancel,
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	return sub
}

func (b *eventBus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.events)
	}
}

// publish delivers an event to every subscriber without blocking.
// A full subscriber channel drops the event for that subscriber only.
func (b *eventBus) publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		select {
		case sub.events <- event:
		default:
		}
	}
}
