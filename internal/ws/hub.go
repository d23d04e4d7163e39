package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is the envelope pushed to connected clients for engine outcomes
// (level-ups, completed challenges, redemption updates, spin results).
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// Client represents a single WebSocket connection with user context.
type Client struct {
	UserID uint
	Send   chan []byte
	conn   *websocket.Conn
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.conn != nil {
		c.conn.Close()
	}
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// trySend queues data without blocking. The closed check and the send share
// the client's lock so a concurrent Close cannot close the channel between
// them; a full buffer drops the event.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// WritePump drains the send channel onto the connection. Run as a goroutine
// per client; returns when the channel closes or a write fails.
func (c *Client) WritePump() {
	for data := range c.Send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	c.Close()
}

// Hub maintains the set of active clients and fans events out to them.
type Hub struct {
	mu sync.RWMutex
	// userID -> clients (one user can have multiple connections)
	byUser map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byUser: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(userID uint, conn *websocket.Conn) *Client {
	c := &Client{UserID: userID, Send: make(chan []byte, 16), conn: conn, hub: h}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[*Client]struct{})
	}
	h.byUser[userID][c] = struct{}{}
	return c
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
}

// Notify implements the engine's outbound notification boundary. Slow or
// gone clients are skipped, never waited on.
func (h *Hub) Notify(userID uint, eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, At: time.Now()})
	if err != nil {
		return
	}
	h.mu.RLock()
	m := h.byUser[userID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, m := range h.byUser {
		n += len(m)
	}
	return n
}
