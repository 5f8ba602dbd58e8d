// Package pipeline implements the landmark-to-control transform chain: an
// ordered list of processors built from a schema, each consuming the prior
// stages' results and contributing its own.
package pipeline

import (
	"github.com/ayusman/controldeck/internal/calibration"
	"github.com/ayusman/controldeck/internal/derive"
	"github.com/ayusman/controldeck/internal/landmark"
)

// Flick is the gesture result produced by the flick detector.
type Flick struct {
	Amount    float64 `json:"amount"`    // 0..1
	Direction float64 `json:"direction"` // -1, 0 or 1
	Velocity  float64 `json:"velocity"`  // decayed accumulated velocity
}

// Gestures collects recognized gestures for one frame.
type Gestures struct {
	Flick *Flick
}

// Meta carries frame bookkeeping through the pipeline.
type Meta struct {
	Timestamp int64
}

// Context is the transient per-frame processing state. It is rebuilt every
// frame; each stage receives a Context value, reads prior sub-maps and
// returns a new Context carrying its own sub-map. A stage never mutates
// another stage's sub-map in place.
type Context struct {
	Raw         *landmark.Frame
	Derived     map[string]derive.Value
	Calibrated  map[string]derive.Value
	Smoothed    map[string]float64
	Gestures    Gestures
	Outputs     map[string]float64
	Meta        Meta
	Calibration *calibration.Profile
}

// NewContext seeds a fresh context for one frame.
func NewContext(frame *landmark.Frame, calib *calibration.Profile) Context {
	ctx := Context{
		Raw:         frame,
		Calibration: calib,
	}
	if frame != nil {
		ctx.Meta.Timestamp = frame.Timestamp
	}
	return ctx
}
