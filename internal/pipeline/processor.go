package pipeline

import (
	"fmt"
	"sync"

	"github.com/ayusman/controldeck/internal/schema"
)

// Processor is one transform stage. Implementations may hold private state
// across frames; Reset clears it. Names are used for pipeline lookup and
// debugging and should be unique within one pipeline by convention.
type Processor interface {
	Name() string
	Process(ctx Context) (Context, error)
	Reset()
}

// Factory builds a processor from its stage configuration.
type Factory func(cfg map[string]any, s *schema.Schema) (Processor, error)

// Built-in processor type names referenced by schema pipelines.
const (
	ProcessorExtract   = "extract"
	ProcessorCalibrate = "calibrate"
	ProcessorSmooth    = "smooth"
	ProcessorFlick     = "flick"
)

var procBuiltins = map[string]Factory{
	ProcessorExtract:   newExtract,
	ProcessorCalibrate: newCalibrate,
	ProcessorSmooth:    newSmooth,
	ProcessorFlick:     newFlick,
}

var (
	procMu  sync.RWMutex
	procExt = map[string]Factory{}
)

// RegisterProcessor adds a custom processor type usable from schema
// pipelines. Built-in types cannot be overwritten.
func RegisterProcessor(name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("processor %q: nil factory", name)
	}
	if _, ok := procBuiltins[name]; ok {
		return fmt.Errorf("processor %q collides with a built-in type", name)
	}
	procMu.Lock()
	defer procMu.Unlock()
	procExt[name] = f
	return nil
}

func lookupProcessor(name string) (Factory, bool) {
	if f, ok := procBuiltins[name]; ok {
		return f, true
	}
	procMu.RLock()
	defer procMu.RUnlock()
	f, ok := procExt[name]
	return f, ok
}

// floatOpt reads a float configuration value, tolerating JSON-decoded
// numbers of either kind. Missing or mistyped keys fall back to def.
func floatOpt(cfg map[string]any, key string, def float64) float64 {
	if cfg == nil {
		return def
	}
	switch v := cfg[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// stringOpt reads a string configuration value with a fallback.
func stringOpt(cfg map[string]any, key, def string) string {
	if cfg == nil {
		return def
	}
	if v, ok := cfg[key].(string); ok && v != "" {
		return v
	}
	return def
}
