// Package derive implements the derivation library: pure functions that
// compute one scalar or small vector from a frame of landmarks, driven by a
// declarative descriptor from the schema.
package derive

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/controldeck/internal/landmark"
	"github.com/ayusman/controldeck/internal/schema"
)

// ErrUnknownType is returned when a descriptor references a derivation type
// that is neither built in nor registered.
var ErrUnknownType = errors.New("unknown derivation type")

// Value is the result of a derivation. Scalar derivations populate Scalar
// only; the average derivation produces a vector with the requested
// components populated.
type Value struct {
	Scalar float64
	Vector bool
	X, Y, Z float64
}

// Component returns the named component of a vector value. Scalar values
// return their scalar for any component name; unknown components return 0.
func (v Value) Component(name string) float64 {
	if !v.Vector {
		return v.Scalar
	}
	switch name {
	case "x":
		return v.X
	case "y":
		return v.Y
	case "z":
		return v.Z
	}
	return 0
}

// Scalar wraps a plain float as a derivation result.
func Scalar(f float64) Value {
	return Value{Scalar: f}
}

// Compute evaluates one derivation descriptor against a full landmark set.
// It is pure: identical inputs always produce identical results. An unknown
// descriptor type yields ErrUnknownType; callers treat that as non-fatal.
func Compute(points []landmark.Point3D, d schema.Derivation, s *schema.Schema) (Value, error) {
	fn, ok := lookup(d.Type)
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}
	return fn(points, d, s)
}

func resolvePoint(points []landmark.Point3D, name string, s *schema.Schema) (landmark.Point3D, error) {
	idx, ok := s.LandmarkIndex(name)
	if !ok {
		return landmark.Point3D{}, fmt.Errorf("landmark %q is not in the schema", name)
	}
	if idx < 0 || idx >= len(points) {
		return landmark.Point3D{}, fmt.Errorf("landmark %q index %d out of range", name, idx)
	}
	return points[idx], nil
}

// computeAverage returns the per-component arithmetic mean across the named
// landmarks. Only the requested components are populated.
func computeAverage(points []landmark.Point3D, d schema.Derivation, s *schema.Schema) (Value, error) {
	if len(d.Inputs) == 0 {
		return Value{}, errors.New("average derivation needs at least one input")
	}
	xs := make([]float64, 0, len(d.Inputs))
	ys := make([]float64, 0, len(d.Inputs))
	zs := make([]float64, 0, len(d.Inputs))
	for _, name := range d.Inputs {
		p, err := resolvePoint(points, name, s)
		if err != nil {
			return Value{}, err
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
		zs = append(zs, p.Z)
	}

	components := d.Components
	if len(components) == 0 {
		components = []string{"x", "y", "z"}
	}
	v := Value{Vector: true}
	for _, c := range components {
		switch c {
		case "x":
			v.X = stat.Mean(xs, nil)
		case "y":
			v.Y = stat.Mean(ys, nil)
		case "z":
			v.Z = stat.Mean(zs, nil)
		}
	}
	return v, nil
}

// computeAngle returns atan2(dy,dx) of the vector from From to To, in
// radians in (-pi, pi].
func computeAngle(points []landmark.Point3D, d schema.Derivation, s *schema.Schema) (Value, error) {
	from, err := resolvePoint(points, d.From, s)
	if err != nil {
		return Value{}, err
	}
	to, err := resolvePoint(points, d.To, s)
	if err != nil {
		return Value{}, err
	}
	return Scalar(math.Atan2(to.Y-from.Y, to.X-from.X)), nil
}

func applyNormalize(raw float64, n *schema.Normalize) float64 {
	if n == nil || n.Max == n.Min {
		return raw
	}
	scaled := (raw - n.Min) / (n.Max - n.Min) * n.OutputMax
	return math.Max(0, math.Min(n.OutputMax, scaled))
}

// computeDistance returns the 3D Euclidean distance between From and To,
// optionally rescaled and clamped to [0, outputMax].
func computeDistance(points []landmark.Point3D, d schema.Derivation, s *schema.Schema) (Value, error) {
	from, err := resolvePoint(points, d.From, s)
	if err != nil {
		return Value{}, err
	}
	to, err := resolvePoint(points, d.To, s)
	if err != nil {
		return Value{}, err
	}
	return Scalar(applyNormalize(landmark.Distance3D(from, to), d.Normalize)), nil
}

// computeTriangleArea returns the shoelace-formula area of the triangle made
// by the three named points. The non-normalized path deliberately carries no
// floor clamp; tiny negative-looking results from floating point stay as
// computed.
func computeTriangleArea(points []landmark.Point3D, d schema.Derivation, s *schema.Schema) (Value, error) {
	if len(d.Points) != 3 {
		return Value{}, fmt.Errorf("triangleArea needs exactly 3 points, got %d", len(d.Points))
	}
	var tri [3]landmark.Point3D
	for i, name := range d.Points {
		p, err := resolvePoint(points, name, s)
		if err != nil {
			return Value{}, err
		}
		tri[i] = p
	}
	area := math.Abs(tri[0].X*(tri[1].Y-tri[2].Y)+
		tri[1].X*(tri[2].Y-tri[0].Y)+
		tri[2].X*(tri[0].Y-tri[1].Y)) / 2
	if d.Normalize != nil {
		return Scalar(applyNormalize(area, d.Normalize)), nil
	}
	return Scalar(area), nil
}

// computeComponent passes one raw coordinate through. An unknown component
// name yields 0.
func computeComponent(points []landmark.Point3D, d schema.Derivation, s *schema.Schema) (Value, error) {
	p, err := resolvePoint(points, d.Landmark, s)
	if err != nil {
		return Value{}, err
	}
	switch d.Component {
	case "x":
		return Scalar(p.X), nil
	case "y":
		return Scalar(p.Y), nil
	case "z":
		return Scalar(p.Z), nil
	}
	return Scalar(0), nil
}

// computeDotProduct returns the cosine of the angle between two 2D vectors,
// or 0 when either vector has zero length.
func computeDotProduct(points []landmark.Point3D, d schema.Derivation, s *schema.Schema) (Value, error) {
	resolve := func(fromName, toName string) (dx, dy float64, err error) {
		from, err := resolvePoint(points, fromName, s)
		if err != nil {
			return 0, 0, err
		}
		to, err := resolvePoint(points, toName, s)
		if err != nil {
			return 0, 0, err
		}
		return to.X - from.X, to.Y - from.Y, nil
	}

	ax, ay, err := resolve(d.From1, d.To1)
	if err != nil {
		return Value{}, err
	}
	bx, by, err := resolve(d.From2, d.To2)
	if err != nil {
		return Value{}, err
	}

	la := math.Hypot(ax, ay)
	lb := math.Hypot(bx, by)
	if la == 0 || lb == 0 {
		return Scalar(0), nil
	}
	return Scalar((ax*bx + ay*by) / (la * lb)), nil
}
