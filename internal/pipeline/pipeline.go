package pipeline

import (
	"fmt"
	"log"

	"github.com/ayusman/controldeck/internal/calibration"
	"github.com/ayusman/controldeck/internal/landmark"
	"github.com/ayusman/controldeck/internal/schema"
)

// Pipeline is the ordered composition of processors built from a schema.
// It drives one frame through all stages and isolates per-stage failures so
// a single bad stage degrades frame processing instead of halting it.
type Pipeline struct {
	schema *schema.Schema
	stages []Processor
}

// Build constructs a pipeline from the schema's stage list. Stages naming
// an unknown processor type are logged and omitted; construction never
// fails outright.
func Build(s *schema.Schema) *Pipeline {
	p := &Pipeline{schema: s}
	for _, stage := range s.Pipeline {
		factory, ok := lookupProcessor(stage.Processor)
		if !ok {
			log.Printf("pipeline: unknown processor %q, stage omitted", stage.Processor)
			continue
		}
		proc, err := factory(stage.Config, s)
		if err != nil {
			log.Printf("pipeline: building processor %q: %v, stage omitted", stage.Processor, err)
			continue
		}
		p.stages = append(p.stages, proc)
	}
	return p
}

// Process seeds a fresh context for the frame and threads it sequentially
// through all stages. A stage error or panic is logged and the pipeline
// continues from the context as of the last successful stage. When calib is
// nil the schema's default calibration is used.
func (p *Pipeline) Process(frame *landmark.Frame, calib *calibration.Profile) Context {
	if calib == nil {
		calib = p.schema.Calibration.Clone()
	}
	ctx := NewContext(frame, calib)
	for _, stage := range p.stages {
		ctx = runStage(stage, ctx)
	}
	return ctx
}

// runStage executes one processor with a failure boundary. On error or
// panic the pre-stage context is returned unchanged.
func runStage(stage Processor, ctx Context) (out Context) {
	out = ctx
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline: processor %q panicked: %v", stage.Name(), r)
			out = ctx
		}
	}()

	next, err := stage.Process(ctx)
	if err != nil {
		log.Printf("pipeline: processor %q: %v", stage.Name(), err)
		return ctx
	}
	return next
}

// Insert places a processor at the given position. Out-of-range indexes
// append.
func (p *Pipeline) Insert(index int, proc Processor) {
	if proc == nil {
		return
	}
	if index < 0 || index >= len(p.stages) {
		p.stages = append(p.stages, proc)
		return
	}
	p.stages = append(p.stages[:index], append([]Processor{proc}, p.stages[index:]...)...)
}

// Append adds a processor to the end of the chain.
func (p *Pipeline) Append(proc Processor) {
	p.Insert(len(p.stages), proc)
}

// Remove drops the first processor with the given name.
func (p *Pipeline) Remove(name string) error {
	for i, stage := range p.stages {
		if stage.Name() == name {
			p.stages = append(p.stages[:i], p.stages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("processor %q is not in the pipeline", name)
}

// Stage returns the first processor with the given name, or nil.
func (p *Pipeline) Stage(name string) Processor {
	for _, stage := range p.stages {
		if stage.Name() == name {
			return stage
		}
	}
	return nil
}

// StageNames lists the active processors in order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return names
}

// Reset clears state across all stages.
func (p *Pipeline) Reset() {
	for _, stage := range p.stages {
		stage.Reset()
	}
}

// Schema returns the schema this pipeline was built from.
func (p *Pipeline) Schema() *schema.Schema {
	return p.schema
}
