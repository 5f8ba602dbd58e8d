package plugin

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/controldeck/internal/event"
	"github.com/ayusman/controldeck/internal/sink"
)

// Sink forwards trigger-type control events to discovered plugins whose
// manifest subscribes to the event's topic. Continuous channels are skipped:
// spawning a subprocess per frame would never keep up, and plugins exist to
// react to gestures, not to stream positions.
type Sink struct {
	manager  *Manager
	executor *Executor
	source   string
	device   string

	mu        sync.Mutex
	connected bool
}

// NewSink creates a plugin sink over the given manager. Plugins are
// executed with a 5 second timeout.
func NewSink(manager *Manager, source, device string) *Sink {
	return &Sink{
		manager:  manager,
		executor: NewExecutor(5000),
		source:   source,
		device:   device,
	}
}

// Connect discovers plugins and marks the sink active.
func (s *Sink) Connect() error {
	if err := s.manager.Discover(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	log.Printf("plugin sink: %d plugins discovered", len(s.manager.List()))
	return nil
}

// Disconnect stops forwarding.
func (s *Sink) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
}

// Emit dispatches a trigger event to every subscribed plugin. Execution is
// fire-and-forget on a separate goroutine so a slow plugin cannot stall the
// frame loop.
func (s *Sink) Emit(control string, value float64, topic string, extra sink.Extra) {
	if !s.IsConnected() || !extra.Trigger {
		return
	}

	ts := extra.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	ev := event.New(s.source, s.device, event.TypeTrigger, control, value, topic, ts)
	ev.Raw = extra.Raw
	ev.Calibrated = extra.Calibrated

	for _, p := range s.manager.List() {
		if !p.Manifest.WantsTopic(topic) {
			continue
		}
		go s.dispatch(p, ev)
	}
}

func (s *Sink) dispatch(p *Plugin, ev event.Control) {
	resp, err := s.executor.Execute(p, &Request{Event: ev, Config: p.Manifest.Config})
	if err != nil {
		log.Printf("plugin sink: %s: %v", p.Manifest.Name, err)
		return
	}
	if !resp.Success {
		log.Printf("plugin sink: %s reported failure: %s", p.Manifest.Name, resp.Error)
	}
}

// IsConnected reports whether the sink forwards events.
func (s *Sink) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
