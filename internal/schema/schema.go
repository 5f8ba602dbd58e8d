// Package schema defines the declarative configuration artifact that drives
// the derivation pipeline: symbolic landmark names, derived-value
// descriptors, output mappings and the ordered processor list.
package schema

import (
	"github.com/ayusman/controldeck/internal/calibration"
)

// Derivation type names understood by the derive package.
const (
	TypeAverage      = "average"
	TypeAngle        = "angle"
	TypeDistance     = "distance"
	TypeTriangleArea = "triangleArea"
	TypeComponent    = "component"
	TypeDotProduct   = "dotProduct"
)

// Normalize rescales a raw derivation result from [Min,Max] to
// [0,OutputMax], clamped.
type Normalize struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	OutputMax float64 `json:"outputMax"`
}

// Derivation describes one derived value. Type selects the computation;
// the remaining fields are type-specific and ignored by other types.
type Derivation struct {
	Type string `json:"type"`

	// average
	Inputs     []string `json:"inputs,omitempty"`
	Components []string `json:"components,omitempty"`

	// angle, distance
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// triangleArea
	Points []string `json:"points,omitempty"`

	// component
	Landmark  string `json:"landmark,omitempty"`
	Component string `json:"component,omitempty"`

	// dotProduct
	From1 string `json:"from1,omitempty"`
	To1   string `json:"to1,omitempty"`
	From2 string `json:"from2,omitempty"`
	To2   string `json:"to2,omitempty"`

	// distance, triangleArea
	Normalize *Normalize `json:"normalize,omitempty"`
}

// Range maps a resolved source interval onto an output interval linearly.
type Range struct {
	Input  [2]float64 `json:"input"`
	Output [2]float64 `json:"output"`
}

// Output maps a pipeline value onto a named control emitted to sinks.
// Source is resolved against the smoothed, then calibrated, then derived
// context sub-maps; first match wins.
type Output struct {
	Source    string `json:"source"`
	Component string `json:"component,omitempty"`
	Range     Range  `json:"range"`
	Invert    bool   `json:"invert,omitempty"`
	Topic     string `json:"topic"`
}

// Stage names one processor in the pipeline with its configuration.
type Stage struct {
	Processor string         `json:"processor"`
	Config    map[string]any `json:"config,omitempty"`
}

// Schema is a named, versioned, read-only pipeline template. A running
// adapter holds its own mutable copy of Calibration; the template itself is
// never modified.
type Schema struct {
	Name        string                `json:"name"`
	Version     int                   `json:"version"`
	Landmarks   map[string]int        `json:"landmarks"`
	Derived     map[string]Derivation `json:"derived"`
	Outputs     map[string]Output     `json:"outputs"`
	Pipeline    []Stage               `json:"pipeline"`
	Calibration calibration.Profile   `json:"calibration"`
}

// LandmarkIndex resolves a symbolic landmark name. The second return is
// false for unknown names.
func (s *Schema) LandmarkIndex(name string) (int, bool) {
	idx, ok := s.Landmarks[name]
	return idx, ok
}

// Clone returns a deep copy of the schema. Used wherever a caller needs a
// private copy to patch (configured outputs, per-adapter calibration) so the
// registered template stays pristine.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{
		Name:      s.Name,
		Version:   s.Version,
		Landmarks: make(map[string]int, len(s.Landmarks)),
		Derived:   make(map[string]Derivation, len(s.Derived)),
		Outputs:   make(map[string]Output, len(s.Outputs)),
		Pipeline:  make([]Stage, len(s.Pipeline)),
	}
	for k, v := range s.Landmarks {
		out.Landmarks[k] = v
	}
	for k, v := range s.Derived {
		d := v
		if v.Normalize != nil {
			n := *v.Normalize
			d.Normalize = &n
		}
		d.Inputs = append([]string(nil), v.Inputs...)
		d.Components = append([]string(nil), v.Components...)
		d.Points = append([]string(nil), v.Points...)
		out.Derived[k] = d
	}
	for k, v := range s.Outputs {
		out.Outputs[k] = v
	}
	for i, st := range s.Pipeline {
		cfg := make(map[string]any, len(st.Config))
		for k, v := range st.Config {
			cfg[k] = v
		}
		out.Pipeline[i] = Stage{Processor: st.Processor, Config: cfg}
	}
	if c := s.Calibration.Clone(); c != nil {
		out.Calibration = *c
	}
	return out
}
