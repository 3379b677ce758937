package broadcast

import (
	"sync"

	"worldstats/internal/events"
)

// Broadcaster fans one session's snapshot updates out to its SSE listeners.
type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan []byte]bool
}

// NewBroadcaster starts forwarding snapshot events from the session bus to
// every subscriber.
func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan []byte]bool),
	}
	go func() {
		for ev := range bus.Snapshots {
			b.Broadcast(ev.Payload)
		}
	}()
	return b
}

func (b *Broadcaster) Subscribe() chan []byte {
	ch := make(chan []byte, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan []byte) {
	b.Mu.Lock()
	delete(b.Clients, ch)
	b.Mu.Unlock()
	close(ch)
}

func (b *Broadcaster) Broadcast(payload []byte) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- payload:
		default:
			// skip clients with full data channels
		}
	}
}
