package schema

import (
	"fmt"
	"sync"
)

// registry holds named schema templates. The default schema is registered
// at init; callers may register more at runtime. Last registration for a
// given name wins.
var (
	regMu    sync.RWMutex
	registry = map[string]*Schema{}
)

func init() {
	Register(DefaultName, Default())
}

// Register stores a schema template under the given name, replacing any
// previous registration for that name.
func Register(name string, s *Schema) {
	if s == nil {
		return
	}
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = s
}

// Lookup returns the schema registered under name.
func Lookup(name string) (*Schema, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("schema %q is not registered", name)
	}
	return s, nil
}

// Names returns the registered schema names.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
