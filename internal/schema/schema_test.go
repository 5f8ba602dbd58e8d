package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClone_DeepCopy(t *testing.T) {
	orig := Default()
	clone := orig.Clone()

	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("clone differs from original (-want +got):\n%s", diff)
	}

	// Mutating the clone must not reach back into the original.
	clone.Landmarks["WRIST"] = 99
	clone.Derived["hand-rotation"] = Derivation{Type: TypeAngle, From: "X", To: "Y"}
	clone.Outputs["hand-x"] = Output{Source: "other"}
	clone.Pipeline[0].Config = map[string]any{"changed": true}
	clone.Calibration.Tuning.Reverse = true

	if orig.Landmarks["WRIST"] == 99 {
		t.Error("clone shares the landmarks map")
	}
	if orig.Derived["hand-rotation"].From == "X" {
		t.Error("clone shares the derived map")
	}
	if orig.Outputs["hand-x"].Source == "other" {
		t.Error("clone shares the outputs map")
	}
	if orig.Calibration.Tuning.Reverse {
		t.Error("clone shares the calibration profile")
	}
}

func TestClone_NormalizeIsCopied(t *testing.T) {
	orig := Default()
	clone := orig.Clone()

	clone.Derived["pinch-distance"].Normalize.Max = 42
	if orig.Derived["pinch-distance"].Normalize.Max == 42 {
		t.Error("clone shares a Normalize pointer with the original")
	}
}

func TestRegistry_LookupDefault(t *testing.T) {
	s, err := Lookup(DefaultName)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", DefaultName, err)
	}
	if s.Name != DefaultName {
		t.Errorf("expected schema %q, got %q", DefaultName, s.Name)
	}
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	first := &Schema{Name: "test-schema", Version: 1}
	second := &Schema{Name: "test-schema", Version: 2}

	Register("test-schema", first)
	Register("test-schema", second)

	s, err := Lookup("test-schema")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if s.Version != 2 {
		t.Errorf("expected the later registration to win, got version %d", s.Version)
	}
}

func TestRegistry_UnknownName(t *testing.T) {
	if _, err := Lookup("never-registered"); err == nil {
		t.Fatal("expected error for unknown schema name")
	}
}

func TestDefault_PipelineCoversAllStages(t *testing.T) {
	s := Default()

	want := []string{"extract", "calibrate", "smooth", "flick"}
	if len(s.Pipeline) != len(want) {
		t.Fatalf("expected %d stages, got %d", len(want), len(s.Pipeline))
	}
	for i, name := range want {
		if s.Pipeline[i].Processor != name {
			t.Errorf("stage %d: expected %q, got %q", i, name, s.Pipeline[i].Processor)
		}
	}
}

func TestDefault_OutputsHaveTopics(t *testing.T) {
	for name, out := range Default().Outputs {
		if out.Topic == "" {
			t.Errorf("output %q has no topic", name)
		}
		if out.Range.Input[0] == out.Range.Input[1] {
			t.Errorf("output %q has a degenerate input range", name)
		}
	}
}
