package notify

import (
	"context"
	"testing"
	"time"
)

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1 := b.Subscribe(ctx)
	ch2 := b.Subscribe(ctx)

	b.Publish(Event{Op: OpInsert, ZoneID: "zone-1"})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Op != OpInsert || ev.ZoneID != "zone-1" {
				t.Errorf("subscriber %d got %+v, want insert zone-1", i, ev)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive event", i)
		}
	}
}

// TestBroker_SlowSubscriberDropsEvents verifies a full subscriber buffer
// never blocks Publish.
func TestBroker_SlowSubscriberDropsEvents(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := b.Subscribe(ctx)

	// Overfill the buffer; the excess must be dropped, not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*3; i++ {
			b.Publish(Event{Op: OpUpdate, ZoneID: "zone-1"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked on a slow subscriber")
	}

	// The buffered events are still deliverable.
	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			if received != subscriberBuffer {
				t.Errorf("received %d buffered events, want %d", received, subscriberBuffer)
			}
			return
		}
	}
}

func TestBroker_UnsubscribeOnContextCancel(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())

	ch := b.Subscribe(ctx)
	if got := b.SubscriberCount(); got != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", got)
	}

	cancel()

	// The channel closes once the subscription is removed.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if got := b.SubscriberCount(); got != 0 {
					t.Errorf("SubscriberCount = %d after cancel, want 0", got)
				}
				return
			}
		case <-deadline:
			t.Fatalf("subscriber channel not closed after cancel")
		}
	}
}

// TestBroker_PublishWithNoSubscribers verifies publishing into an empty
// broker is a no-op rather than a panic or block.
func TestBroker_PublishWithNoSubscribers(t *testing.T) {
	b := NewBroker()
	b.Publish(Event{Op: OpDelete, ZoneID: "zone-9"})
}
