package pipeline

import (
	"log"

	"github.com/ayusman/controldeck/internal/derive"
	"github.com/ayusman/controldeck/internal/schema"
)

// extractProcessor evaluates every derivation in the schema against the raw
// landmark frame and collects the results into the derived sub-map.
type extractProcessor struct {
	schema *schema.Schema
}

func newExtract(cfg map[string]any, s *schema.Schema) (Processor, error) {
	return &extractProcessor{schema: s}, nil
}

func (p *extractProcessor) Name() string { return ProcessorExtract }

// Process fills ctx.Derived. Frames without a full landmark set pass
// through untouched; an individual derivation failure is logged and its key
// simply omitted.
func (p *extractProcessor) Process(ctx Context) (Context, error) {
	if !ctx.Raw.Valid() {
		return ctx, nil
	}

	derived := make(map[string]derive.Value, len(p.schema.Derived))
	for name, desc := range p.schema.Derived {
		v, err := derive.Compute(ctx.Raw.Points, desc, p.schema)
		if err != nil {
			log.Printf("extract: derivation %q: %v", name, err)
			continue
		}
		derived[name] = v
	}
	ctx.Derived = derived
	return ctx, nil
}

func (p *extractProcessor) Reset() {}
