// Package adapter orchestrates the landmark-to-control chain: it wires a
// source into the derivation pipeline, resolves schema outputs against the
// processing context and fans the results out to sinks, while exposing the
// calibration, tuning, validation and stats APIs.
package adapter

import (
	"log"

	"github.com/google/uuid"

	"github.com/ayusman/controldeck/internal/calibration"
	"github.com/ayusman/controldeck/internal/derive"
	"github.com/ayusman/controldeck/internal/pipeline"
	"github.com/ayusman/controldeck/internal/schema"
	"github.com/ayusman/controldeck/internal/sink"
	"github.com/ayusman/controldeck/internal/source"
)

// SourceLabel stamps emitted events with the producing subsystem.
const SourceLabel = "paddlevision"

// DefaultDevice is the device label used when none is configured.
const DefaultDevice = "hand-0"

// Builder is a fluent configuration accumulator producing an Adapter.
// Every With method returns the builder for chaining; Build applies
// defaults for anything left unset.
type Builder struct {
	schema     *schema.Schema
	src        source.Source
	sinks      []sink.Sink
	calib      *calibration.Profile
	extraProcs []pipeline.Processor
	device     string
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithSchema sets the pipeline schema template.
func (b *Builder) WithSchema(s *schema.Schema) *Builder {
	b.schema = s
	return b
}

// WithSchemaName resolves a registered schema by name. Unknown names are
// logged and leave the builder on the default schema.
func (b *Builder) WithSchemaName(name string) *Builder {
	s, err := schema.Lookup(name)
	if err != nil {
		log.Printf("builder: %v, keeping default schema", err)
		return b
	}
	b.schema = s
	return b
}

// WithSource sets the landmark source.
func (b *Builder) WithSource(src source.Source) *Builder {
	b.src = src
	return b
}

// WithSink adds an output sink. May be called repeatedly.
func (b *Builder) WithSink(s sink.Sink) *Builder {
	if s != nil {
		b.sinks = append(b.sinks, s)
	}
	return b
}

// WithCalibration seeds the adapter's calibration profile instead of the
// schema default.
func (b *Builder) WithCalibration(p *calibration.Profile) *Builder {
	b.calib = p
	return b
}

// WithProcessor appends an extra processor after the schema's pipeline
// stages.
func (b *Builder) WithProcessor(p pipeline.Processor) *Builder {
	if p != nil {
		b.extraProcs = append(b.extraProcs, p)
	}
	return b
}

// WithDeriver registers a custom derivation type for use by the schema.
// Collisions with built-in types are logged and ignored.
func (b *Builder) WithDeriver(name string, fn derive.Func) *Builder {
	if err := derive.Register(name, fn); err != nil {
		log.Printf("builder: %v", err)
	}
	return b
}

// WithDevice sets the device label stamped on emitted events.
func (b *Builder) WithDevice(device string) *Builder {
	b.device = device
	return b
}

// Build produces the adapter. Defaults: the built-in schema, a synthetic
// source, a bus sink on a fresh event bus, and the schema's calibration.
// The schema, calibration and sink list are copied so the built adapter
// shares no mutable state with the builder or its caller.
func (b *Builder) Build() *Adapter {
	s := b.schema
	if s == nil {
		s = schema.Default()
	}
	s = s.Clone()

	device := b.device
	if device == "" {
		device = DefaultDevice
	}

	src := b.src
	if src == nil {
		src = source.NewSynthetic(source.DefaultSyntheticConfig())
	}

	// Copy so a reused builder cannot alias into the built adapter's slice.
	sinks := append([]sink.Sink(nil), b.sinks...)
	if len(sinks) == 0 {
		sinks = []sink.Sink{sink.NewBusSink(sink.NewBus(), SourceLabel, device)}
	}

	// Clone so the adapter never aliases caller-held state; Clone also
	// materializes a nil Reference map from a zero-value profile.
	calib := b.calib.Clone()
	if calib == nil {
		calib = s.Calibration.Clone()
	}

	pipe := pipeline.Build(s)
	for _, p := range b.extraProcs {
		pipe.Append(p)
	}

	return &Adapter{
		id:     uuid.NewString(),
		device: device,
		schema: s,
		pipe:   pipe,
		src:    src,
		sinks:  sinks,
		calib:  calib,
	}
}
