package pipeline

import (
	"math"

	"github.com/ayusman/controldeck/internal/schema"
)

// Smoothed channel keys produced by the smooth stage.
const (
	ChannelX      = "x"
	ChannelY      = "y"
	ChannelTheta  = "theta"
	ChannelSpread = "spread"
)

// smoothProcessor applies per-channel exponential smoothing with a deadzone.
// The factor is the retention weight toward the previous value, so a higher
// factor means slower response. Deltas below the deadzone freeze the channel
// to avoid drift and jitter at rest.
type smoothProcessor struct {
	factor   float64
	deadzone float64
	// spreadKey names the derived value feeding the spread channel.
	spreadKey string

	state struct {
		x, y, theta, spread float64
		// rawTheta tracks the uncalibrated rotation with the same filter.
		// Reference-point capture reads it so captured values stay in raw
		// radians regardless of the active calibration.
		rawTheta float64
	}
}

func newSmooth(cfg map[string]any, s *schema.Schema) (Processor, error) {
	return &smoothProcessor{
		factor:    floatOpt(cfg, "factor", 0.7),
		deadzone:  floatOpt(cfg, "deadzone", 0.005),
		spreadKey: stringOpt(cfg, "spreadSource", "finger-spread"),
	}, nil
}

func (p *smoothProcessor) Name() string { return ProcessorSmooth }

func (p *smoothProcessor) Process(ctx Context) (Context, error) {
	// Tuning overrides the construction-time smoothing parameters so live
	// adjustments take effect without rebuilding the pipeline.
	factor, deadzone := p.factor, p.deadzone
	if ctx.Calibration != nil {
		factor = ctx.Calibration.Tuning.Smoothing.Factor
		deadzone = ctx.Calibration.Tuning.Smoothing.Deadzone
	}

	if c, ok := ctx.Calibrated[KeyHandCenterCalibrated]; ok {
		p.state.x = smoothToward(p.state.x, c.X, factor, deadzone)
		p.state.y = smoothToward(p.state.y, c.Y, factor, deadzone)
	}
	if theta, ok := ctx.Calibrated[KeyHandRotationCalibrated]; ok {
		p.state.theta = smoothToward(p.state.theta, theta.Scalar, factor, deadzone)
	}
	if raw, ok := ctx.Calibrated[KeyHandRotation]; ok {
		p.state.rawTheta = smoothToward(p.state.rawTheta, raw.Scalar, factor, deadzone)
	}
	if spread, ok := ctx.Calibrated[p.spreadKey]; ok {
		p.state.spread = smoothToward(p.state.spread, spread.Scalar, factor, deadzone)
	}

	ctx.Smoothed = map[string]float64{
		ChannelX:      p.state.x,
		ChannelY:      p.state.y,
		ChannelTheta:  p.state.theta,
		ChannelSpread: p.state.spread,
	}
	return ctx, nil
}

// smoothToward moves current toward target by (1-factor) of the remaining
// delta, freezing entirely when the delta is inside the deadzone.
func smoothToward(current, target, factor, deadzone float64) float64 {
	delta := target - current
	if math.Abs(delta) < deadzone {
		return current
	}
	return current + delta*(1-factor)
}

// Reset zeros all four channels.
func (p *smoothProcessor) Reset() {
	p.state.x = 0
	p.state.y = 0
	p.state.theta = 0
	p.state.spread = 0
	p.state.rawTheta = 0
}

// Theta exposes the current smoothed uncalibrated rotation in radians. The
// adapter reads it when capturing calibration reference points.
func (p *smoothProcessor) Theta() float64 {
	return p.state.rawTheta
}

// ThetaReader is implemented by stages that can report a smoothed raw
// rotation for reference-point capture.
type ThetaReader interface {
	Theta() float64
}
