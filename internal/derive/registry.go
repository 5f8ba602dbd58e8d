package derive

import (
	"fmt"
	"sync"

	"github.com/ayusman/controldeck/internal/landmark"
	"github.com/ayusman/controldeck/internal/schema"
)

// Func computes one derivation result from a full landmark set.
type Func func(points []landmark.Point3D, d schema.Derivation, s *schema.Schema) (Value, error)

var builtins = map[string]Func{
	schema.TypeAverage:      computeAverage,
	schema.TypeAngle:        computeAngle,
	schema.TypeDistance:     computeDistance,
	schema.TypeTriangleArea: computeTriangleArea,
	schema.TypeComponent:    computeComponent,
	schema.TypeDotProduct:   computeDotProduct,
}

var (
	extMu      sync.RWMutex
	extensions = map[string]Func{}
)

// Register adds a custom derivation type. Built-in types cannot be
// overwritten; re-registering a custom type replaces it.
func Register(name string, fn Func) error {
	if fn == nil {
		return fmt.Errorf("derivation %q: nil function", name)
	}
	if _, ok := builtins[name]; ok {
		return fmt.Errorf("derivation %q collides with a built-in type", name)
	}
	extMu.Lock()
	defer extMu.Unlock()
	extensions[name] = fn
	return nil
}

func lookup(name string) (Func, bool) {
	if fn, ok := builtins[name]; ok {
		return fn, true
	}
	extMu.RLock()
	defer extMu.RUnlock()
	fn, ok := extensions[name]
	return fn, ok
}
