package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/controldeck/internal/sink"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// eventsHandler upgrades clients onto the hub sink, which then streams
// every emitted control event to them.
type eventsHandler struct {
	hub *sink.Hub
}

func (h *eventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	// Register blocks until the client disconnects.
	h.hub.Register(conn)
}
