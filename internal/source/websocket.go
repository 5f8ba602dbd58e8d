package source

import (
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/controldeck/internal/landmark"
)

// WebSocket receives landmark frames from an external tracker endpoint that
// pushes JSON frames over a WebSocket connection.
type WebSocket struct {
	emitter
	url string

	mu       sync.Mutex
	conn     *websocket.Conn
	stopCh   chan struct{}
	frames   int64
	badFrame int64
}

// NewWebSocket creates a source reading frames from the given ws:// URL.
func NewWebSocket(url string) *WebSocket {
	return &WebSocket{url: url}
}

// Start dials the tracker and begins the read loop. Idempotent; a dial
// failure is returned without retry.
func (w *WebSocket) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(w.url, nil)
	if err != nil {
		return fmt.Errorf("dial tracker %s: %w", w.url, err)
	}

	w.conn = conn
	w.stopCh = make(chan struct{})
	go w.readLoop(conn, w.stopCh)
	return nil
}

func (w *WebSocket) readLoop(conn *websocket.Conn, stopCh chan struct{}) {
	for {
		var frame landmark.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			select {
			case <-stopCh:
				// Stop closed the connection; the read error is expected.
			default:
				log.Printf("source: tracker read: %v", err)
			}
			return
		}

		if len(frame.Points) == 0 {
			w.mu.Lock()
			w.badFrame++
			w.mu.Unlock()
			continue
		}

		w.mu.Lock()
		w.frames++
		w.mu.Unlock()
		w.emit(&frame)
	}
}

// Stop closes the connection, terminating the read loop. Idempotent.
func (w *WebSocket) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return
	}
	close(w.stopCh)
	w.conn.Close()
	w.conn = nil
	w.stopCh = nil
}

// OnData subscribes a frame callback.
func (w *WebSocket) OnData(fn func(*landmark.Frame)) func() {
	return w.subscribe(fn)
}

// IsRunning reports whether the connection is open.
func (w *WebSocket) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn != nil
}

// Stats reports connection statistics.
func (w *WebSocket) Stats() map[string]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return map[string]any{
		"type":           "websocket",
		"url":            w.url,
		"framesReceived": w.frames,
		"framesRejected": w.badFrame,
	}
}
