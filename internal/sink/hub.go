package sink

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/controldeck/internal/event"
)

// Hub broadcasts control events to WebSocket clients. The HTTP server
// registers upgraded connections; a client whose write fails is dropped.
type Hub struct {
	source string
	device string

	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	connected bool
}

// NewHub creates a hub sink stamping events with the source and device
// labels.
func NewHub(source, device string) *Hub {
	return &Hub{
		source:  source,
		device:  device,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Register adds a client connection and blocks reading it until it closes.
// Intended to be called from an HTTP handler goroutine.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Keep the connection alive by draining client messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Connect marks the hub active.
func (h *Hub) Connect() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connected = true
	return nil
}

// Disconnect closes all client connections.
func (h *Hub) Disconnect() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connected = false
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// Emit broadcasts a standardized control event to all clients.
func (h *Hub) Emit(control string, value float64, topic string, extra Extra) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connected || len(h.clients) == 0 {
		return
	}

	typ := event.TypeContinuous
	if extra.Trigger {
		typ = event.TypeTrigger
	}
	ts := extra.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	ev := event.New(h.source, h.device, typ, control, value, topic, ts)
	ev.Raw = extra.Raw
	ev.Calibrated = extra.Calibrated

	for conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("sink: hub client write: %v, dropping client", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// IsConnected reports whether the hub is broadcasting.
func (h *Hub) IsConnected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected
}
