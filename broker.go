package main

import (
	"sync"
)

type subscription struct {
	session string
}

// Broker fans session events out to live SSE clients.
type Broker struct {
	mu      sync.RWMutex
	clients map[chan Event]subscription
}

func NewBroker() *Broker {
	return &Broker{clients: make(map[chan Event]subscription)}
}

// Subscribe registers a client. An empty session receives every session's
// events.
func (b *Broker) Subscribe(session string) (ch chan Event, unsubscribe func()) {
	ch = make(chan Event, 16) // small buffer to avoid head-of-line blocking
	b.mu.Lock()
	b.clients[ch] = subscription{session: session}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.clients, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Broker) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch, sub := range b.clients {
		if sub.session != "" && sub.session != ev.Session {
			continue
		}
		select {
		case ch <- ev:
		default:
			// client too slow; drop the event for this client
		}
	}
}

func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
