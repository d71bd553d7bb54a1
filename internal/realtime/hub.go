// Package realtime pushes change notifications to connected office
// clients so open dashboards refresh without polling.
package realtime

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event tells clients that rows of one table changed for their office
type Event struct {
	Table    string `json:"table"`
	Action   string `json:"action"` // created, updated, deleted
	OfficeID int    `json:"-"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens via the bearer token before the upgrade; origin
	// checks add nothing for a token-scoped feed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn     *websocket.Conn
	officeID int
	send     chan Event
}

// Hub fans events out to the sockets of the affected office
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Broadcast queues an event for every socket of the office. Slow
// clients are dropped rather than allowed to block the caller.
func (h *Hub) Broadcast(officeID int, table, action string) {
	ev := Event{Table: table, Action: action, OfficeID: officeID}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.officeID != officeID {
			continue
		}
		select {
		case c.send <- ev:
		default:
			go h.drop(c)
		}
	}
}

// Serve upgrades the request and pumps events until the client goes away
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, officeID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Realtime] upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, officeID: officeID, send: make(chan Event, 16)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(ev); err != nil {
				h.drop(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(c)
				return
			}
		}
	}
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		c.conn.Close()
	}
	h.mu.Unlock()
}
