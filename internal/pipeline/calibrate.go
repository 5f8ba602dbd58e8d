package pipeline

import (
	"math"

	"github.com/ayusman/controldeck/internal/calibration"
	"github.com/ayusman/controldeck/internal/derive"
	"github.com/ayusman/controldeck/internal/schema"
)

// Derived/calibrated key names the calibrate stage operates on.
const (
	KeyHandRotation           = "hand-rotation"
	KeyHandRotationCalibrated = "hand-rotation-calibrated"
	KeyHandCenter             = "hand-center"
	KeyHandCenterCalibrated   = "hand-center-calibrated"
)

// calibrateProcessor normalizes raw rotation against the captured reference
// points and recenters the hand position. All other derived values pass
// through unchanged into the calibrated sub-map.
type calibrateProcessor struct{}

func newCalibrate(cfg map[string]any, s *schema.Schema) (Processor, error) {
	return &calibrateProcessor{}, nil
}

func (p *calibrateProcessor) Name() string { return ProcessorCalibrate }

func (p *calibrateProcessor) Process(ctx Context) (Context, error) {
	if ctx.Derived == nil || ctx.Calibration == nil {
		return ctx, nil
	}

	calibrated := make(map[string]derive.Value, len(ctx.Derived)+2)
	for name, v := range ctx.Derived {
		calibrated[name] = v
	}

	if raw, ok := ctx.Derived[KeyHandRotation]; ok {
		if center, hasCenter := ctx.Calibration.Reference[calibration.Center]; hasCenter {
			calibrated[KeyHandRotationCalibrated] = derive.Scalar(
				normalizeRotation(raw.Scalar, center, ctx.Calibration))
		}
	}

	if c, ok := ctx.Derived[KeyHandCenter]; ok {
		// Image coordinates are [0,1]; recenter each axis to [-1,1].
		calibrated[KeyHandCenterCalibrated] = derive.Value{
			Vector: true,
			X:      c.X*2 - 1,
			Y:      c.Y*2 - 1,
			Z:      c.Z,
		}
	}

	ctx.Calibrated = calibrated
	return ctx, nil
}

// normalizeRotation maps a raw rotation into [-1,1] relative to the
// captured center, scaled by the supinate/pronate range and the per-side
// sensitivity, optionally reversed.
func normalizeRotation(raw float64, center calibration.ReferencePoint, prof *calibration.Profile) float64 {
	thetaRange := prof.ThetaRange()
	if thetaRange == 0 {
		thetaRange = 2 * calibration.DefaultThetaRange
	}

	normalized := (raw - center.RawRotation) / (thetaRange / 2)

	if normalized < 0 {
		normalized *= prof.Tuning.Sensitivity.Left
	} else {
		normalized *= prof.Tuning.Sensitivity.Right
	}

	normalized = math.Max(-1, math.Min(1, normalized))
	if prof.Tuning.Reverse {
		normalized = -normalized
	}
	return normalized
}

func (p *calibrateProcessor) Reset() {}
