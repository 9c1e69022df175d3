package ws

import (
	"encoding/json"
	"sync"
)

const (
	EventMessage = "message"
	EventCleared = "cleared"
)

// Event is pushed to connected pages. VisitorID scopes delivery and is not
// part of the payload.
type Event struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	VisitorID string      `json:"-"`
}

// Client is one websocket connection. Admin clients see every event; visitor
// clients only see events addressed to them or to nobody.
type Client struct {
	VisitorID string
	Admin     bool
	Send      chan []byte

	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func NewClient(visitorID string, admin bool) *Client {
	return &Client{VisitorID: visitorID, Admin: admin, Send: make(chan []byte, 256)}
}

func (c *Client) accepts(e Event) bool {
	return c.Admin || e.VisitorID == "" || e.VisitorID == c.VisitorID
}

// Close unregisters the client and closes Send. Safe to call twice.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.hub != nil {
		c.hub.unregister(c)
	}
	close(c.Send)
}

// Hub fans events out to connected clients. Slow clients drop events rather
// than block the publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *Hub) Publish(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.accepts(e) {
			continue
		}
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
