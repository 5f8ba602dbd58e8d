// Package calibration holds the mutable per-adapter calibration profile:
// captured reference points for rotation normalization plus user tuning.
package calibration

import (
	"encoding/json"
	"fmt"
	"math"
)

// Reference point names used by the rotation calibration.
const (
	Center   = "center"
	Supinate = "supinate"
	Pronate  = "pronate"
)

// DefaultThetaRange is the assumed half-range of hand rotation in radians
// when supinate/pronate reference points have not been captured (~30 deg).
const DefaultThetaRange = 0.52

// CaptureVariance is the variance recorded for a captured reference point.
// The capture reads a single smoothed sample, so the variance is assumed
// rather than measured.
const CaptureVariance = 0.02

// ReferencePoint is a captured raw measurement at a known hand pose.
type ReferencePoint struct {
	RawRotation float64 `json:"rawRotation"`
	Variance    float64 `json:"variance"`
}

// Sensitivity scales calibrated rotation asymmetrically per direction.
type Sensitivity struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Smoothing configures the exponential smoothing stage.
type Smoothing struct {
	// Factor is the retention weight toward the previous value in [0,1).
	// Higher factor means slower response.
	Factor float64 `json:"factor"`
	// Deadzone freezes a channel when the delta magnitude is below it.
	Deadzone float64 `json:"deadzone"`
}

// Tuning holds user-adjustable runtime parameters, distinct from captured
// reference points.
type Tuning struct {
	Sensitivity Sensitivity `json:"sensitivity"`
	Reverse     bool        `json:"reverse"`
	Smoothing   Smoothing   `json:"smoothing"`
}

// Profile is the complete calibration state of one running adapter.
type Profile struct {
	Reference map[string]ReferencePoint `json:"reference"`
	Tuning    Tuning                    `json:"tuning"`
}

// Default returns the profile used before any reference point is captured.
func Default() *Profile {
	return &Profile{
		Reference: map[string]ReferencePoint{},
		Tuning: Tuning{
			Sensitivity: Sensitivity{Left: 1.0, Right: 1.0},
			Reverse:     false,
			Smoothing:   Smoothing{Factor: 0.7, Deadzone: 0.005},
		},
	}
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := &Profile{
		Reference: make(map[string]ReferencePoint, len(p.Reference)),
		Tuning:    p.Tuning,
	}
	for name, ref := range p.Reference {
		out.Reference[name] = ref
	}
	return out
}

// ThetaRange returns the full supinate-to-pronate rotation range in radians,
// falling back to the default range when either point is missing.
func (p *Profile) ThetaRange() float64 {
	sup, okS := p.Reference[Supinate]
	pro, okP := p.Reference[Pronate]
	if !okS || !okP {
		return 2 * DefaultThetaRange
	}
	return pro.RawRotation - sup.RawRotation
}

// Export serializes the profile to JSON.
func (p *Profile) Export() ([]byte, error) {
	return json.Marshal(p)
}

// Import parses a JSON profile and merges it over the defaults. Missing or
// unknown fields default from the base profile; malformed JSON or a document
// missing both reference and tuning sections is rejected and the receiver is
// left untouched.
func (p *Profile) Import(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse calibration: %w", err)
	}
	refRaw, hasRef := raw["reference"]
	tunRaw, hasTun := raw["tuning"]
	if !hasRef && !hasTun {
		return fmt.Errorf("calibration document has neither reference nor tuning")
	}

	next := Default()
	next.Tuning = p.Tuning
	if hasRef {
		ref := map[string]ReferencePoint{}
		if err := json.Unmarshal(refRaw, &ref); err != nil {
			return fmt.Errorf("parse reference points: %w", err)
		}
		next.Reference = ref
	} else {
		next.Reference = p.Clone().Reference
	}
	if hasTun {
		tun := Default().Tuning
		if err := json.Unmarshal(tunRaw, &tun); err != nil {
			return fmt.Errorf("parse tuning: %w", err)
		}
		next.Tuning = tun
	}

	*p = *next
	return nil
}

// Issue describes one problem found by Validate.
type Issue struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Penalty float64 `json:"penalty"`
}

// Validation is the result of scoring a calibration profile.
type Validation struct {
	Valid   bool    `json:"valid"`
	Quality float64 `json:"quality"`
	Issues  []Issue `json:"issues"`
}

// Validate scores calibration quality starting from 1.0 and collecting
// human-readable issues. The profile is valid iff no issues were found.
// Quality is never enforced; callers decide what to do with a poor score.
func (p *Profile) Validate() Validation {
	v := Validation{Valid: true, Quality: 1.0}

	sup, okS := p.Reference[Supinate]
	pro, okP := p.Reference[Pronate]
	if okS && okP {
		if pro.RawRotation-sup.RawRotation < 0.3 {
			v.Issues = append(v.Issues, Issue{
				Code:    "range-too-small",
				Message: fmt.Sprintf("rotation range %.2f rad is too small for reliable control (need 0.3)", pro.RawRotation-sup.RawRotation),
				Penalty: 0.5,
			})
			v.Quality *= 0.5
		}
		if math.Abs(math.Abs(sup.RawRotation)-math.Abs(pro.RawRotation)) > 0.2 {
			v.Issues = append(v.Issues, Issue{
				Code:    "asymmetric-range",
				Message: fmt.Sprintf("supinate (%.2f) and pronate (%.2f) magnitudes differ by more than 0.2 rad", sup.RawRotation, pro.RawRotation),
				Penalty: 0.8,
			})
			v.Quality *= 0.8
		}
	}
	if center, ok := p.Reference[Center]; ok && math.Abs(center.RawRotation) > 0.1 {
		v.Issues = append(v.Issues, Issue{
			Code:    "off-center",
			Message: fmt.Sprintf("center rotation %.2f rad is not neutral (expected near 0)", center.RawRotation),
			Penalty: 0.9,
		})
		v.Quality *= 0.9
	}

	v.Valid = len(v.Issues) == 0
	return v
}
