// Package events fans out ledger events to any number of registered
// subscribers, such as websocket clients.
package events

import (
	"fmt"
	"sync"
)

// subscriberBuffer is how many events a subscriber can fall behind before
// new events are dropped for it. Websocket writes can be slow.
const subscriberBuffer = 100

// Events maintains a mapping of subscriber id to channel.
type Events struct {
	mu   sync.RWMutex
	subs map[string]chan string
}

// New constructs an Events value ready for subscribers.
func New() *Events {
	return &Events{
		subs: make(map[string]chan string),
	}
}

// Acquire registers the id and returns the channel its events arrive on.
// Acquiring an id twice returns the same channel.
func (evt *Events) Acquire(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subs[id]; exists {
		return ch
	}

	ch := make(chan string, subscriberBuffer)
	evt.subs[id] = ch
	return ch
}

// Release removes the subscriber and closes its channel.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subs, id)
	close(ch)
	return nil
}

// Send delivers the message to every subscriber. A subscriber whose buffer
// is full misses the message; Send never blocks.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Subscribers returns the number of registered subscribers.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Shutdown closes and removes every subscriber.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}
