package sink

import (
	"log"
	"sync/atomic"
)

// Console logs every emitted control value. Useful for development and as
// the simplest possible sink.
type Console struct {
	connected atomic.Bool
}

// NewConsole creates a console sink.
func NewConsole() *Console {
	return &Console{}
}

// Connect marks the sink active.
func (c *Console) Connect() error {
	c.connected.Store(true)
	return nil
}

// Disconnect silences the sink.
func (c *Console) Disconnect() {
	c.connected.Store(false)
}

// Emit logs the control value.
func (c *Console) Emit(control string, value float64, topic string, extra Extra) {
	if !c.connected.Load() {
		return
	}
	log.Printf("sink: %s/%s = %.3f", topic, control, value)
}

// IsConnected reports whether the sink is active.
func (c *Console) IsConnected() bool {
	return c.connected.Load()
}
