// Package notify fans zone-table change events out to in-process subscribers.
//
// The consumer contract is deliberately minimal: an event only means "the
// zones table changed, re-fetch it". Payloads identify the row and operation
// for logging, but subscribers are expected to reload the full set rather
// than patch incrementally.
package notify

import (
	"context"
	"sync"
)

// Op identifies the kind of change applied to the zones table.
type Op string

const (
	// OpInsert indicates a new zone row was created.
	OpInsert Op = "insert"
	// OpUpdate indicates an existing zone row was updated.
	OpUpdate Op = "update"
	// OpDelete indicates a zone row was removed.
	OpDelete Op = "delete"
)

// Event describes one change to the zones table.
type Event struct {
	Op     Op     `json:"op"`
	ZoneID string `json:"zone_id"`
}

// subscriberBuffer sizes each subscriber channel. Because subscribers only
// re-fetch on any event, a dropped event coalesces with the next one; a small
// buffer is enough.
const subscriberBuffer = 8

// Broker delivers change events to all current subscribers.
// The zero value is not usable; call NewBroker.
type Broker struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber and returns its event channel.
// The subscription is removed and the channel closed when ctx is cancelled.
func (b *Broker) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish delivers ev to every subscriber without blocking. Subscribers that
// have fallen behind miss the event; the next publish reaches them again.
func (b *Broker) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber buffer full; the reload triggered by a later
			// event covers this change too.
		}
	}
}

// SubscriberCount reports the number of active subscriptions.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
