package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/asateer/skillscore/internal/server/api"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ObserveHub broadcasts per-frame observation events from running analyses
// to connected WebSocket clients. Publishers hand events to a single
// broadcaster goroutine, which owns all connection writes; gorilla/websocket
// allows only one concurrent writer per connection.
type ObserveHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	events  chan api.ObservationEvent
}

// NewObserveHub creates a new ObserveHub and starts its broadcaster.
func NewObserveHub() *ObserveHub {
	h := &ObserveHub{
		clients: make(map[*websocket.Conn]bool),
		events:  make(chan api.ObservationEvent, 256),
	}
	go h.broadcast()
	return h
}

// ServeHTTP upgrades the connection and registers the client for events.
func (h *ObserveHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("observe: upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Drain client messages to process close frames; the feed is one-way.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish queues one observation event for broadcast. Safe to call from any
// number of goroutines; when the queue is full the event is dropped rather
// than stalling the analysis.
func (h *ObserveHub) Publish(event api.ObservationEvent) {
	select {
	case h.events <- event:
	default:
	}
}

// broadcast sends queued events to every connected client. Clients that
// fail to receive in time are dropped.
func (h *ObserveHub) broadcast() {
	for event := range h.events {
		h.mu.RLock()
		conns := make([]*websocket.Conn, 0, len(h.clients))
		for conn := range h.clients {
			conns = append(conns, conn)
		}
		h.mu.RUnlock()

		for _, conn := range conns {
			conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				h.remove(conn)
			}
		}
	}
}

func (h *ObserveHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
