package schema

import "github.com/ayusman/controldeck/internal/calibration"

// DefaultName is the schema adapters fall back to when none is configured.
const DefaultName = "paddle"

// Topics used by the default schema's outputs.
const (
	TopicPaddle  = "paddle"
	TopicGesture = "gesture"
)

// Default returns the built-in paddle-control schema: hand position drives
// x/y, forearm rotation drives the paddle angle, and finger posture drives
// spread/pinch auxiliary controls.
func Default() *Schema {
	return &Schema{
		Name:    DefaultName,
		Version: 1,
		Landmarks: map[string]int{
			"WRIST":      0,
			"THUMB_TIP":  4,
			"INDEX_MCP":  5,
			"INDEX_TIP":  8,
			"MIDDLE_MCP": 9,
			"MIDDLE_TIP": 12,
			"PINKY_MCP":  17,
			"PINKY_TIP":  20,
		},
		Derived: map[string]Derivation{
			"hand-center": {
				Type:       TypeAverage,
				Inputs:     []string{"WRIST", "INDEX_MCP", "PINKY_MCP"},
				Components: []string{"x", "y"},
			},
			"hand-rotation": {
				Type: TypeAngle,
				From: "PINKY_MCP",
				To:   "INDEX_MCP",
			},
			"pinch-distance": {
				Type:      TypeDistance,
				From:      "THUMB_TIP",
				To:        "INDEX_TIP",
				Normalize: &Normalize{Min: 0.02, Max: 0.3, OutputMax: 1},
			},
			"finger-spread": {
				Type:      TypeTriangleArea,
				Points:    []string{"THUMB_TIP", "INDEX_TIP", "PINKY_TIP"},
				Normalize: &Normalize{Min: 0, Max: 0.04, OutputMax: 1},
			},
			"palm-facing": {
				Type:  TypeDotProduct,
				From1: "WRIST",
				To1:   "INDEX_MCP",
				From2: "WRIST",
				To2:   "PINKY_MCP",
			},
			"wrist-depth": {
				Type:      TypeComponent,
				Landmark:  "WRIST",
				Component: "z",
			},
		},
		Outputs: map[string]Output{
			"hand-x": {
				Source: "x",
				Range:  Range{Input: [2]float64{-1, 1}, Output: [2]float64{0, 1}},
				Topic:  TopicPaddle,
			},
			"hand-y": {
				Source: "y",
				Range:  Range{Input: [2]float64{-1, 1}, Output: [2]float64{0, 1}},
				Invert: true,
				Topic:  TopicPaddle,
			},
			"rotation": {
				Source: "theta",
				Range:  Range{Input: [2]float64{-1, 1}, Output: [2]float64{0, 1}},
				Topic:  TopicPaddle,
			},
			"spread": {
				Source: "spread",
				Range:  Range{Input: [2]float64{0, 1}, Output: [2]float64{0, 1}},
				Topic:  TopicGesture,
			},
			"pinch": {
				Source: "pinch-distance",
				Range:  Range{Input: [2]float64{0, 1}, Output: [2]float64{0, 1}},
				Topic:  TopicGesture,
			},
		},
		Pipeline: []Stage{
			{Processor: "extract"},
			{Processor: "calibrate"},
			{Processor: "smooth", Config: map[string]any{"factor": 0.7, "deadzone": 0.005}},
			{Processor: "flick", Config: map[string]any{"threshold": 0.15, "decay": 0.8}},
		},
		Calibration: *calibration.Default(),
	}
}
