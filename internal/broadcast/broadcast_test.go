package broadcast

import (
	"testing"
	"time"

	"worldstats/internal/events"
)

func subscriberCount(b *Broadcaster) int {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return len(b.Clients)
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster(events.NewBus())

	ch := b.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}
	if got := subscriberCount(b); got != 1 {
		t.Errorf("subscriber count = %d, want 1", got)
	}

	b.Unsubscribe(ch)
	if got := subscriberCount(b); got != 0 {
		t.Errorf("subscriber count after unsubscribe = %d, want 0", got)
	}
	if _, open := <-ch; open {
		t.Error("channel still open after unsubscribe")
	}
}

func TestBroadcaster_Broadcast(t *testing.T) {
	b := NewBroadcaster(events.NewBus())

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.Broadcast([]byte("hello"))

	for name, ch := range map[string]chan []byte{"ch1": ch1, "ch2": ch2} {
		select {
		case msg := <-ch:
			if string(msg) != "hello" {
				t.Errorf("%s got %q, want %q", name, msg, "hello")
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("%s timed out", name)
		}
	}
}

func TestBroadcaster_SkipsFullChannels(t *testing.T) {
	b := NewBroadcaster(events.NewBus())

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill the channel buffer (capacity 10)
	for i := 0; i < 10; i++ {
		b.Broadcast([]byte("fill"))
	}

	// This should not block even though channel is full
	done := make(chan bool)
	go func() {
		b.Broadcast([]byte("overflow"))
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Broadcast blocked on full channel")
	}
}

func TestBroadcaster_SnapshotForwarding(t *testing.T) {
	bus := events.NewBus()
	b := NewBroadcaster(bus)

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	bus.Snapshots <- events.SnapshotEvent{SessionID: "s1", Payload: []byte(`{"ok":true}`)}

	select {
	case msg := <-ch:
		if string(msg) != `{"ok":true}` {
			t.Errorf("got %q, want snapshot payload", msg)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for snapshot broadcast")
	}
}
