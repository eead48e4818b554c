// Package realtime pushes booking events to websocket clients.  Events reach
// the hub either from the Redis relay (multi-instance) or straight from
// the in-process sink when Redis is not configured.
package realtime

import (
	"log/slog"
	"sync"
)

// Client is one live-feed subscriber.  CourtID 0 receives every court.
type Client struct {
	ID      string
	CourtID uint64
	Send    chan []byte
}

// NewClient returns a client with a buffered outbox.
func NewClient(id string, courtID uint64) *Client {
	return &Client{ID: id, CourtID: courtID, Send: make(chan []byte, 16)}
}

type Hub struct {
	clients map[*Client]struct{}
	mu      sync.Mutex
	log     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{clients: make(map[*Client]struct{}), log: logger}
}

func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
	h.log.Debug("live client connected", "client_id", c.ID, "court_id", c.CourtID)
}

// RemoveClient unregisters c and closes its outbox.  Safe to call twice.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
	h.log.Debug("live client disconnected", "client_id", c.ID)
}

// Broadcast queues msg for every client watching courtID.  Slow clients
// whose outbox is full miss the message.  It returns the number of
// clients the message was queued for.
func (h *Hub) Broadcast(courtID uint64, msg []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for c := range h.clients {
		if c.CourtID != 0 && c.CourtID != courtID {
			continue
		}
		select {
		case c.Send <- msg:
			sent++
		default:
			h.log.Warn("live client outbox full; dropping message", "client_id", c.ID)
		}
	}
	return sent
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
