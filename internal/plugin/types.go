// Package plugin provides subprocess consumer plugins: external programs
// that receive standardized control events over stdin and act on them.
package plugin

import (
	"encoding/json"

	"github.com/ayusman/controldeck/internal/event"
)

// Manifest describes a plugin's metadata and the topics it consumes.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Topics      []string        `json:"topics"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// WantsTopic reports whether the plugin subscribes to the given topic. An
// empty topic list subscribes to everything.
func (m *Manifest) WantsTopic(topic string) bool {
	if len(m.Topics) == 0 {
		return true
	}
	for _, t := range m.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Request is the JSON document sent to a plugin on stdin.
type Request struct {
	Event  event.Control   `json:"event"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Response is the JSON document a plugin writes to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
