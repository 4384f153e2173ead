package websocket

import (
	"sync"
	"time"

	"github.com/atelierhq/atelier-server/internal/logger"
	gorilla "github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// client wraps one WebSocket connection. Gorilla connections do not
// support concurrent writers, so every write goes through the client's
// mutex: replies from the read loop and hub emissions can interleave.
type client struct {
	sessionID string
	conn      *gorilla.Conn

	mu sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

func (c *client) close(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	deadline := time.Now().Add(writeTimeout)
	c.conn.SetWriteDeadline(deadline)
	c.conn.WriteControl(gorilla.CloseMessage, gorilla.FormatCloseMessage(code, reason), deadline)
	c.conn.Close()
}

// Hub tracks live connections per session id. A session id may be
// bound to any number of concurrent connections; emissions fan out to
// all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

// NewHub creates an empty connection registry.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*client]struct{})}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.sessionID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.sessionID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.sessionID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.sessionID)
	}
}

// EmitToSession sends a server-initiated frame to every connection
// bound to sessionID. Used by the agent webhooks to push UI prompts
// and to-do previews.
func (h *Hub) EmitToSession(sessionID string, payload any) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[sessionID]))
	for c := range h.clients[sessionID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(payload); err != nil {
			logger.Warnf("[ws] emit to session %s failed: %v", sessionID, err)
		}
	}
}

// ConnectionCount reports how many connections are bound to sessionID.
func (h *Hub) ConnectionCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
