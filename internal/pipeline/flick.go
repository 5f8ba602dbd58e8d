package pipeline

import (
	"math"

	"github.com/ayusman/controldeck/internal/schema"
)

// flickProcessor recognizes fast rotational gestures on the smoothed theta
// channel. Per-frame velocity is accumulated with exponential decay; the
// flick amount is the accumulated velocity relative to the trigger
// threshold, capped at 1. There is no debounce: a sustained fast rotation
// keeps re-triggering for as long as the velocity stays above threshold.
type flickProcessor struct {
	threshold float64
	decay     float64

	state struct {
		lastTheta   float64
		accVelocity float64
	}
}

func newFlick(cfg map[string]any, s *schema.Schema) (Processor, error) {
	return &flickProcessor{
		threshold: floatOpt(cfg, "threshold", 0.15),
		decay:     floatOpt(cfg, "decay", 0.8),
	}, nil
}

func (p *flickProcessor) Name() string { return ProcessorFlick }

func (p *flickProcessor) Process(ctx Context) (Context, error) {
	theta, ok := ctx.Smoothed[ChannelTheta]
	if !ok {
		return ctx, nil
	}

	velocity := theta - p.state.lastTheta
	p.state.lastTheta = theta
	p.state.accVelocity = p.state.accVelocity*p.decay + velocity

	amount := math.Min(1, math.Abs(p.state.accVelocity)/p.threshold)
	direction := 0.0
	if p.state.accVelocity > 0 {
		direction = 1
	} else if p.state.accVelocity < 0 {
		direction = -1
	}

	// Emitted every frame; amount may be 0.
	ctx.Gestures.Flick = &Flick{
		Amount:    amount,
		Direction: direction,
		Velocity:  p.state.accVelocity,
	}
	return ctx, nil
}

func (p *flickProcessor) Reset() {
	p.state.lastTheta = 0
	p.state.accVelocity = 0
}
