package adapter

import (
	"log"
	"math"
	"sync"

	"github.com/ayusman/controldeck/internal/calibration"
	"github.com/ayusman/controldeck/internal/derive"
	"github.com/ayusman/controldeck/internal/landmark"
	"github.com/ayusman/controldeck/internal/pipeline"
	"github.com/ayusman/controldeck/internal/schema"
	"github.com/ayusman/controldeck/internal/sink"
	"github.com/ayusman/controldeck/internal/source"
)

// FlickEmitThreshold is the flick amount above which the synthetic
// flick-amount/flick-direction outputs are emitted.
const FlickEmitThreshold = 0.1

// Adapter runs one source through the derivation pipeline and fans resolved
// outputs out to sinks. Create one with a Builder.
type Adapter struct {
	id     string
	device string
	schema *schema.Schema
	pipe   *pipeline.Pipeline
	src    source.Source
	calib  *calibration.Profile

	mu    sync.Mutex
	sinks []sink.Sink
	// active is the subset of sinks that connected on the current run; a
	// sink that failed one connect is retried on the next Start.
	active      []sink.Sink
	unsubscribe func()
	running     bool

	frames      int64
	validFrames int64
	lastFrameAt int64
}

// ID returns the adapter's unique identifier.
func (a *Adapter) ID() string { return a.id }

// Schema returns the adapter's private schema copy.
func (a *Adapter) Schema() *schema.Schema { return a.schema }

// Pipeline returns the running pipeline for stage-level access.
func (a *Adapter) Pipeline() *pipeline.Pipeline { return a.pipe }

// Start connects all sinks, starts the source and subscribes to its
// frames. A sink that fails to connect is logged and dropped; a source that
// fails to start aborts the whole operation. No-op when already running.
func (a *Adapter) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return nil
	}

	a.active = a.active[:0]
	for _, s := range a.sinks {
		if err := s.Connect(); err != nil {
			log.Printf("adapter: sink connect failed, dropping sink for this run: %v", err)
			continue
		}
		a.active = append(a.active, s)
	}

	if err := a.src.Start(); err != nil {
		log.Printf("adapter: source start failed: %v", err)
		for _, s := range a.active {
			s.Disconnect()
		}
		a.active = a.active[:0]
		return err
	}

	a.unsubscribe = a.src.OnData(a.handleFrame)
	a.running = true
	log.Printf("adapter %s: started", a.id)
	return nil
}

// Stop unsubscribes, stops the source and disconnects all sinks.
// Idempotent; nothing in flight is awaited.
func (a *Adapter) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}

	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.src.Stop()
	for _, s := range a.active {
		s.Disconnect()
	}
	a.active = a.active[:0]
	a.running = false
	log.Printf("adapter %s: stopped", a.id)
}

// IsRunning reports whether the adapter is processing frames.
func (a *Adapter) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// handleFrame is the per-frame entry point invoked by the source. Frames
// without a full landmark set are counted but never pipelined, keeping the
// detection-rate denominator honest.
func (a *Adapter) handleFrame(frame *landmark.Frame) {
	a.mu.Lock()
	a.frames++
	if frame != nil {
		a.lastFrameAt = frame.Timestamp
	}
	if !frame.Valid() {
		a.mu.Unlock()
		return
	}
	a.validFrames++
	// Snapshot so a concurrent calibration update cannot tear mid-frame.
	calib := a.calib.Clone()
	a.mu.Unlock()

	ctx := a.pipe.Process(frame, calib)
	a.resolveOutputs(&ctx)
}

// resolveOutputs maps the processing context onto the schema's output
// controls and fans them out to every connected sink.
func (a *Adapter) resolveOutputs(ctx *pipeline.Context) {
	extra := sink.Extra{
		Raw:        flatten(ctx.Derived),
		Calibrated: flatten(ctx.Calibrated),
		Timestamp:  ctx.Meta.Timestamp,
	}

	ctx.Outputs = make(map[string]float64, len(a.schema.Outputs))
	for name, out := range a.schema.Outputs {
		value := clamp01(mapRange(resolveSource(ctx, out), out))
		ctx.Outputs[name] = value
		a.emitAll(name, value, out.Topic, extra)
	}

	if flick := ctx.Gestures.Flick; flick != nil && flick.Amount > FlickEmitThreshold {
		trigger := extra
		trigger.Trigger = true
		a.emitAll("flick-amount", clamp01(flick.Amount), schema.TopicGesture, trigger)
		a.emitAll("flick-direction", clamp01((flick.Direction+1)/2), schema.TopicGesture, trigger)
	}
}

// resolveSource looks an output's source name up in the smoothed, then
// calibrated, then derived sub-maps; first match wins. An unresolved source
// yields 0.
func resolveSource(ctx *pipeline.Context, out schema.Output) float64 {
	if v, ok := ctx.Smoothed[out.Source]; ok {
		return v
	}
	if v, ok := ctx.Calibrated[out.Source]; ok {
		if out.Component != "" {
			return v.Component(out.Component)
		}
		return v.Scalar
	}
	if v, ok := ctx.Derived[out.Source]; ok {
		if out.Component != "" {
			return v.Component(out.Component)
		}
		return v.Scalar
	}
	return 0
}

// mapRange remaps a resolved value from the output's input interval onto
// its output interval, applying the optional inversion.
func mapRange(value float64, out schema.Output) float64 {
	in, outRange := out.Range.Input, out.Range.Output
	span := in[1] - in[0]
	if span == 0 {
		return outRange[0]
	}
	t := (value - in[0]) / span
	mapped := outRange[0] + t*(outRange[1]-outRange[0])
	if out.Invert {
		mapped = outRange[0] + outRange[1] - mapped
	}
	return mapped
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// emitAll delivers one control value to every sink, each behind its own
// failure boundary so one bad sink cannot abort fan-out to the others.
func (a *Adapter) emitAll(control string, value float64, topic string, extra sink.Extra) {
	a.mu.Lock()
	sinks := make([]sink.Sink, len(a.active))
	copy(sinks, a.active)
	a.mu.Unlock()

	for _, s := range sinks {
		safeEmit(s, control, value, topic, extra)
	}
}

func safeEmit(s sink.Sink, control string, value float64, topic string, extra sink.Extra) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("adapter: sink emit panicked: %v", r)
		}
	}()
	s.Emit(control, value, topic, extra)
}

// flatten collapses a derivation-value map into plain floats, expanding
// vectors into per-component keys.
func flatten(values map[string]derive.Value) map[string]float64 {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]float64, len(values))
	for name, v := range values {
		if v.Vector {
			out[name+".x"] = v.X
			out[name+".y"] = v.Y
			out[name+".z"] = v.Z
			continue
		}
		out[name] = v.Scalar
	}
	return out
}
