package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier(t *testing.T) {
	t.Run("delivers to every subscriber", func(t *testing.T) {
		n := NewNotifier()
		a := n.Subscribe()
		b := n.Subscribe()
		defer n.Unsubscribe(a)
		defer n.Unsubscribe(b)

		n.Publish(TopicMembers)

		for _, ch := range []chan Event{a, b} {
			select {
			case ev := <-ch:
				assert.Equal(t, TopicMembers, ev.Topic)
				assert.False(t, ev.At.IsZero())
			default:
				t.Fatal("expected a buffered event")
			}
		}
	})

	t.Run("unsubscribe closes the channel and stops delivery", func(t *testing.T) {
		n := NewNotifier()
		ch := n.Subscribe()
		n.Unsubscribe(ch)

		_, open := <-ch
		assert.False(t, open)

		// publishing after unsubscribe must not panic on the closed channel
		n.Publish(TopicMembers)
	})

	t.Run("double unsubscribe is harmless", func(t *testing.T) {
		n := NewNotifier()
		ch := n.Subscribe()
		n.Unsubscribe(ch)
		n.Unsubscribe(ch)
	})

	t.Run("a full subscriber drops events instead of blocking", func(t *testing.T) {
		n := NewNotifier()
		ch := n.Subscribe()
		defer n.Unsubscribe(ch)

		for i := 0; i < 50; i++ {
			n.Publish(TopicAttendance)
		}

		// the buffer holds what fits; the rest were dropped and Publish returned
		assert.Len(t, ch, cap(ch))
	})
}
