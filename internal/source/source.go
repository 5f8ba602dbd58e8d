// Package source provides landmark input providers. A source emits landmark
// frames to all subscribed callbacks; implementations wrap the available
// transports (synthetic generator, WebSocket tracker feed).
package source

import (
	"log"
	"sync"

	"github.com/ayusman/controldeck/internal/landmark"
)

// Source is a landmark frame provider.
type Source interface {
	// Start begins frame emission. It is idempotent and returns an error
	// when the underlying transport cannot be opened.
	Start() error

	// Stop halts emission immediately. Idempotent; no in-flight frame is
	// awaited.
	Stop()

	// OnData subscribes a callback for emitted frames and returns its
	// unsubscribe function.
	OnData(fn func(*landmark.Frame)) (unsubscribe func())

	// IsRunning reports whether the source is emitting.
	IsRunning() bool

	// Stats returns opaque source-reported statistics.
	Stats() map[string]any
}

// emitter implements listener bookkeeping shared by all sources. A panic in
// one callback is recovered and logged so one bad consumer cannot break the
// others.
type emitter struct {
	mu        sync.Mutex
	listeners map[int]func(*landmark.Frame)
	nextID    int
}

func (e *emitter) subscribe(fn func(*landmark.Frame)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[int]func(*landmark.Frame))
	}
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

func (e *emitter) emit(frame *landmark.Frame) {
	e.mu.Lock()
	fns := make([]func(*landmark.Frame), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		safeInvoke(fn, frame)
	}
}

func safeInvoke(fn func(*landmark.Frame), frame *landmark.Frame) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("source: listener panicked: %v", r)
		}
	}()
	fn(frame)
}
