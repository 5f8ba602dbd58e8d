// Package event defines the standardized control event emitted toward sinks
// and downstream consumers. Every source in the system, not just the
// landmark pipeline, speaks this shape.
package event

// Event type discriminators.
const (
	TypeTrigger    = "trigger"
	TypeContinuous = "continuous"
)

// Protocol constants stamped on every event.
const (
	Src     = "controldeck"
	Version = 1
)

// Control is one normalized control-value event.
type Control struct {
	Src     string  `json:"_src"`
	V       int     `json:"_v"`
	T       int64   `json:"_t"` // milliseconds
	Source  string  `json:"source"`
	Device  string  `json:"device"`
	Type    string  `json:"type"` // trigger or continuous
	Control string  `json:"control"`
	Value   float64 `json:"value"` // clamped to [0,1]
	Topic   string  `json:"topic,omitempty"`

	// Pipeline extras so consumers can reach behind the mapped value.
	Raw        map[string]float64 `json:"raw,omitempty"`
	Calibrated map[string]float64 `json:"calibrated,omitempty"`
}

// New stamps the protocol constants onto a control event.
func New(source, device, typ, control string, value float64, topic string, ts int64) Control {
	return Control{
		Src:     Src,
		V:       Version,
		T:       ts,
		Source:  source,
		Device:  device,
		Type:    typ,
		Control: control,
		Value:   value,
		Topic:   topic,
	}
}
