package feed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesEveryClient(t *testing.T) {
	hub := NewHub()

	a := &Client{hub: hub, send: make(chan []byte, 1)}
	b := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.add(a)
	hub.add(b)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Publish(Event{Type: EventPostCreated, ActorID: "u1", PostID: "p1"})

	for _, c := range []*Client{a, b} {
		select {
		case payload := <-c.send:
			var event Event
			require.NoError(t, json.Unmarshal(payload, &event))
			assert.Equal(t, EventPostCreated, event.Type)
			assert.Equal(t, "p1", event.PostID)
			assert.False(t, event.At.IsZero())
		default:
			t.Fatal("client did not receive the event")
		}
	}
}

func TestPublishDropsForSlowClient(t *testing.T) {
	hub := NewHub()

	slow := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.add(slow)

	// Fill the queue, then publish once more; the extra event is dropped
	// instead of blocking.
	hub.Publish(Event{Type: EventReaction})
	hub.Publish(Event{Type: EventReaction})

	assert.Len(t, slow.send, 1)
}

func TestRemoveClosesClient(t *testing.T) {
	hub := NewHub()

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.add(c)
	hub.remove(c)
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-c.send
	assert.False(t, open)

	// Removing twice is harmless.
	hub.remove(c)
}
