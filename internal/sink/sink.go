// Package sink provides control-output consumers. The adapter fans every
// resolved output out to all connected sinks; each concrete sink binds the
// standardized control event to one transport.
package sink

// Extra carries pipeline context alongside an emitted value so consumers
// can reach behind the mapped control.
type Extra struct {
	Raw        map[string]float64
	Calibrated map[string]float64
	// Trigger marks one-shot gesture outputs (flick) as opposed to
	// continuous channels.
	Trigger bool
	// Timestamp of the originating frame in milliseconds.
	Timestamp int64
}

// Sink consumes resolved control values.
type Sink interface {
	// Connect prepares the sink. Idempotent; returns an error when the
	// underlying transport cannot be reached.
	Connect() error

	// Disconnect releases the sink. Idempotent.
	Disconnect()

	// Emit delivers one control value in [0,1] under a routing topic.
	// Emit is synchronous fire-and-forget; callers isolate failures.
	Emit(control string, value float64, topic string, extra Extra)

	// IsConnected reports whether Emit calls will be delivered.
	IsConnected() bool
}
