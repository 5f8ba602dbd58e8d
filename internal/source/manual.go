package source

import (
	"sync"

	"github.com/ayusman/controldeck/internal/landmark"
)

// Manual is a source driven by explicit Push calls. Tests and embedding
// code use it to feed frames synchronously, the way a tracker callback
// would.
type Manual struct {
	emitter

	mu      sync.Mutex
	running bool
	frames  int64
	dropped int64
}

// NewManual creates an idle manual source.
func NewManual() *Manual {
	return &Manual{}
}

// Start marks the source running. Idempotent.
func (m *Manual) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = true
	return nil
}

// Stop marks the source stopped; subsequent pushes are dropped.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
}

// Push emits one frame synchronously to all listeners. Frames pushed while
// stopped are counted as dropped.
func (m *Manual) Push(frame *landmark.Frame) {
	m.mu.Lock()
	if !m.running {
		m.dropped++
		m.mu.Unlock()
		return
	}
	m.frames++
	m.mu.Unlock()
	m.emit(frame)
}

// OnData subscribes a frame callback.
func (m *Manual) OnData(fn func(*landmark.Frame)) func() {
	return m.subscribe(fn)
}

// IsRunning reports whether pushes are being forwarded.
func (m *Manual) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Stats reports push counters.
func (m *Manual) Stats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]any{
		"type":          "manual",
		"framesPushed":  m.frames,
		"framesDropped": m.dropped,
	}
}
