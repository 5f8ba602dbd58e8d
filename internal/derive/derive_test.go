package derive

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/controldeck/internal/landmark"
	"github.com/ayusman/controldeck/internal/schema"
)

// testSchema maps a handful of symbolic names onto the start of the
// landmark array so tests can lay points out directly.
func testSchema() *schema.Schema {
	return &schema.Schema{
		Landmarks: map[string]int{
			"A": 0,
			"B": 1,
			"C": 2,
			"D": 3,
		},
	}
}

func testPoints(pts ...landmark.Point3D) []landmark.Point3D {
	out := make([]landmark.Point3D, landmark.NumLandmarks)
	copy(out, pts)
	return out
}

func TestCompute_Average(t *testing.T) {
	s := testSchema()
	points := testPoints(
		landmark.Point3D{X: 0, Y: 0, Z: 0},
		landmark.Point3D{X: 1, Y: 2, Z: 4},
	)

	v, err := Compute(points, schema.Derivation{
		Type:       schema.TypeAverage,
		Inputs:     []string{"A", "B"},
		Components: []string{"x", "y"},
	}, s)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if !v.Vector {
		t.Fatal("expected a vector result for average")
	}
	if v.X != 0.5 || v.Y != 1.0 {
		t.Errorf("expected mean (0.5, 1.0), got (%v, %v)", v.X, v.Y)
	}
	// z was not requested and must stay zero
	if v.Z != 0 {
		t.Errorf("expected unrequested z component to be 0, got %v", v.Z)
	}
}

func TestCompute_Angle(t *testing.T) {
	s := testSchema()

	tests := []struct {
		name string
		to   landmark.Point3D
		want float64
	}{
		{"east", landmark.Point3D{X: 1, Y: 0}, 0},
		{"north", landmark.Point3D{X: 0, Y: 1}, math.Pi / 2},
		{"west", landmark.Point3D{X: -1, Y: 0}, math.Pi},
		{"diagonal", landmark.Point3D{X: 1, Y: 1}, math.Pi / 4},
	}

	for _, tt := range tests {
		points := testPoints(landmark.Point3D{}, tt.to)
		v, err := Compute(points, schema.Derivation{
			Type: schema.TypeAngle,
			From: "A",
			To:   "B",
		}, s)
		if err != nil {
			t.Fatalf("%s: Compute() error = %v", tt.name, err)
		}
		if math.Abs(v.Scalar-tt.want) > 1e-9 {
			t.Errorf("%s: expected angle %v, got %v", tt.name, tt.want, v.Scalar)
		}
	}
}

func TestCompute_Distance(t *testing.T) {
	s := testSchema()
	points := testPoints(
		landmark.Point3D{X: 0, Y: 0, Z: 0},
		landmark.Point3D{X: 3, Y: 4, Z: 0},
	)

	v, err := Compute(points, schema.Derivation{
		Type: schema.TypeDistance,
		From: "A",
		To:   "B",
	}, s)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if v.Scalar != 5 {
		t.Errorf("expected distance 5, got %v", v.Scalar)
	}
}

func TestCompute_DistanceNormalized(t *testing.T) {
	s := testSchema()
	desc := schema.Derivation{
		Type:      schema.TypeDistance,
		From:      "A",
		To:        "B",
		Normalize: &schema.Normalize{Min: 0, Max: 10, OutputMax: 1},
	}

	// Midpoint of the normalize range maps to half of outputMax.
	points := testPoints(landmark.Point3D{}, landmark.Point3D{X: 5})
	v, err := Compute(points, desc, s)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if math.Abs(v.Scalar-0.5) > 1e-9 {
		t.Errorf("expected normalized distance 0.5, got %v", v.Scalar)
	}

	// Beyond the range the result clamps to outputMax.
	points = testPoints(landmark.Point3D{}, landmark.Point3D{X: 20})
	v, err = Compute(points, desc, s)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if v.Scalar != 1 {
		t.Errorf("expected clamped distance 1, got %v", v.Scalar)
	}
}

func TestCompute_TriangleArea(t *testing.T) {
	s := testSchema()
	// Right triangle with legs 1 and 1: area 0.5.
	points := testPoints(
		landmark.Point3D{X: 0, Y: 0},
		landmark.Point3D{X: 1, Y: 0},
		landmark.Point3D{X: 0, Y: 1},
	)

	v, err := Compute(points, schema.Derivation{
		Type:   schema.TypeTriangleArea,
		Points: []string{"A", "B", "C"},
	}, s)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if math.Abs(v.Scalar-0.5) > 1e-9 {
		t.Errorf("expected area 0.5, got %v", v.Scalar)
	}
}

func TestCompute_TriangleArea_WrongPointCount(t *testing.T) {
	s := testSchema()
	_, err := Compute(testPoints(), schema.Derivation{
		Type:   schema.TypeTriangleArea,
		Points: []string{"A", "B"},
	}, s)
	if err == nil {
		t.Fatal("expected error for two-point triangle")
	}
}

func TestCompute_Component(t *testing.T) {
	s := testSchema()
	points := testPoints(landmark.Point3D{X: 0.1, Y: 0.2, Z: -0.3})

	v, err := Compute(points, schema.Derivation{
		Type:      schema.TypeComponent,
		Landmark:  "A",
		Component: "z",
	}, s)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if v.Scalar != -0.3 {
		t.Errorf("expected z component -0.3, got %v", v.Scalar)
	}

	// A missing component name defaults to 0.
	v, err = Compute(points, schema.Derivation{
		Type:     schema.TypeComponent,
		Landmark: "A",
	}, s)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if v.Scalar != 0 {
		t.Errorf("expected missing component to default to 0, got %v", v.Scalar)
	}
}

func TestCompute_DotProduct(t *testing.T) {
	s := testSchema()

	// Perpendicular vectors: cosine 0.
	points := testPoints(
		landmark.Point3D{X: 0, Y: 0},
		landmark.Point3D{X: 1, Y: 0},
		landmark.Point3D{X: 0, Y: 0},
		landmark.Point3D{X: 0, Y: 1},
	)
	desc := schema.Derivation{
		Type:  schema.TypeDotProduct,
		From1: "A", To1: "B",
		From2: "C", To2: "D",
	}
	v, err := Compute(points, desc, s)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if math.Abs(v.Scalar) > 1e-9 {
		t.Errorf("expected cosine 0 for perpendicular vectors, got %v", v.Scalar)
	}

	// Parallel vectors: cosine 1 regardless of magnitude.
	points = testPoints(
		landmark.Point3D{X: 0, Y: 0},
		landmark.Point3D{X: 2, Y: 0},
		landmark.Point3D{X: 0, Y: 0},
		landmark.Point3D{X: 5, Y: 0},
	)
	v, err = Compute(points, desc, s)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if math.Abs(v.Scalar-1) > 1e-9 {
		t.Errorf("expected cosine 1 for parallel vectors, got %v", v.Scalar)
	}
}

func TestCompute_DotProduct_ZeroVector(t *testing.T) {
	s := testSchema()
	// First vector has zero length; the result must be 0, not NaN.
	points := testPoints(
		landmark.Point3D{X: 0, Y: 0},
		landmark.Point3D{X: 0, Y: 0},
		landmark.Point3D{X: 0, Y: 0},
		landmark.Point3D{X: 1, Y: 0},
	)
	v, err := Compute(points, schema.Derivation{
		Type:  schema.TypeDotProduct,
		From1: "A", To1: "B",
		From2: "C", To2: "D",
	}, s)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if v.Scalar != 0 {
		t.Errorf("expected 0 for zero-length vector, got %v", v.Scalar)
	}
}

func TestCompute_UnknownType(t *testing.T) {
	s := testSchema()
	_, err := Compute(testPoints(), schema.Derivation{Type: "no-such-type"}, s)
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestCompute_UnknownLandmark(t *testing.T) {
	s := testSchema()
	_, err := Compute(testPoints(), schema.Derivation{
		Type: schema.TypeAngle,
		From: "A",
		To:   "NOPE",
	}, s)
	if err == nil {
		t.Fatal("expected error for unknown landmark name")
	}
}

func TestRegister_CustomDeriver(t *testing.T) {
	err := Register("always-seven", func(points []landmark.Point3D, d schema.Derivation, s *schema.Schema) (Value, error) {
		return Scalar(7), nil
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	v, err := Compute(testPoints(), schema.Derivation{Type: "always-seven"}, testSchema())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if v.Scalar != 7 {
		t.Errorf("expected custom deriver result 7, got %v", v.Scalar)
	}
}

func TestRegister_BuiltinCollision(t *testing.T) {
	err := Register(schema.TypeAngle, func(points []landmark.Point3D, d schema.Derivation, s *schema.Schema) (Value, error) {
		return Scalar(0), nil
	})
	if err == nil {
		t.Fatal("expected collision error when shadowing a built-in type")
	}
}
