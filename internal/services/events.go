package services

import (
	"sync"
	"time"
)

// Topic identifies a class of change notifications.
type Topic string

const (
	// TopicMembers is published after any member mutation.
	TopicMembers Topic = "members"
	// TopicAttendance is published after a successful check-in.
	TopicAttendance Topic = "attendance"
)

// Event is a change notification delivered to subscribers so dependent views
// (visitor counts, dashboards) can recompute without polling.
type Event struct {
	Topic Topic     `json:"topic"`
	At    time.Time `json:"at"`
}

// Notifier is an explicit observer registry: services publish after mutating,
// subscribers receive on their own buffered channel. A slow subscriber drops
// events rather than blocking a mutation.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber and returns its channel.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 16)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	if _, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(ch)
	}
	n.mu.Unlock()
}

// Publish delivers an event to every subscriber without blocking.
func (n *Notifier) Publish(topic Topic) {
	event := Event{Topic: topic, At: time.Now()}
	n.mu.Lock()
	for ch := range n.subs {
		select {
		case ch <- event:
		default: // subscriber buffer full, drop
		}
	}
	n.mu.Unlock()
}
