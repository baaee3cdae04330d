// Package live is the room-based broadcast layer: one room per session key,
// fan-out to websocket subscribers with per-room FIFO ordering and
// non-blocking delivery.
package live

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Hub tracks rooms and their subscribers. Publish never blocks on a slow
// subscriber: a client whose send buffer is full is dropped from the hub
// entirely, because a subscriber that cannot keep up with timing updates is
// better reconnected than served stale frames.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool

	log *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
		log:   log,
	}
}

// Subscribe adds a client to a room, creating the room if needed.
func (h *Hub) Subscribe(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true

	h.log.WithFields(logrus.Fields{
		"room":        room,
		"subscribers": len(h.rooms[room]),
	}).Debug("client subscribed")
}

// Unsubscribe removes a client from one room. Empty rooms are deleted.
func (h *Hub) Unsubscribe(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(room, c)
}

// Remove detaches a client from every room it joined.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.rooms {
		h.removeLocked(room, c)
	}
}

func (h *Hub) removeLocked(room string, c *Client) {
	subs, ok := h.rooms[room]
	if !ok || !subs[c] {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.rooms, room)
	}
}

// Publish delivers an event to every subscriber of a room. Fan-out holds
// the hub lock, so concurrent publishers to one room land in every
// subscriber's buffer in the same order. Clients with a full buffer are
// dropped from all rooms and shut down.
func (h *Hub) Publish(room string, ev Event) {
	h.mu.Lock()
	subs := h.rooms[room]
	var dropped []*Client
	for c := range subs {
		select {
		case c.send <- ev:
		default:
			dropped = append(dropped, c)
		}
	}
	for _, c := range dropped {
		h.log.WithField("room", room).Warn("dropping slow subscriber")
		for r := range h.rooms {
			h.removeLocked(r, c)
		}
	}
	h.mu.Unlock()

	for _, c := range dropped {
		c.close()
	}
}

// RoomSize reports the subscriber count of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Rooms returns the names of every active room.
func (h *Hub) Rooms() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.rooms))
	for room := range h.rooms {
		names = append(names, room)
	}
	return names
}
