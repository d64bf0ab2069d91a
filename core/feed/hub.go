package feed

import (
	"encoding/json"
	"sync"
	"time"

	"postline/logger"
)

// EventType names an activity event kind.
type EventType string

const (
	EventUserJoined     EventType = "user_joined"
	EventPostCreated    EventType = "post_created"
	EventPostDeleted    EventType = "post_deleted"
	EventCommentCreated EventType = "comment_created"
	EventCommentDeleted EventType = "comment_deleted"
	EventReaction       EventType = "reaction"
)

// Event is one activity item broadcast to feed subscribers.
type Event struct {
	Type      EventType `json:"type"`
	ActorID   string    `json:"actorId,omitempty"`
	PostID    string    `json:"postId,omitempty"`
	CommentID string    `json:"commentId,omitempty"`
	Like      *bool     `json:"like,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher is the producer-side view of the hub. Services publish through
// it; a nil Publisher is allowed and drops events.
type Publisher interface {
	Publish(event Event)
}

// Hub fans activity events out to connected websocket clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

// Publish serializes the event and queues it on every connected client.
// Clients that cannot keep up have their queue dropped-to rather than
// blocking the publishing request.
func (h *Hub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal feed event", logger.ErrorField(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			logger.Warn("Dropping feed event for slow client")
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
