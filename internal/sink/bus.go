package sink

import (
	"sync"
	"time"

	"github.com/ayusman/controldeck/internal/event"
)

// Bus is an in-process publish/subscribe channel for control events.
// Delivery is non-blocking: a subscriber whose buffer is full drops the
// incoming event rather than stalling the frame loop.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]*subscription
	nextID int
}

type subscription struct {
	topics map[string]bool // empty means all topics
	ch     chan event.Control
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]*subscription)}
}

// Subscribe returns a channel of events for the given topics (all topics
// when none are named) and an unsubscribe function. The channel is closed
// on unsubscribe.
func (b *Bus) Subscribe(buffer int, topics ...string) (<-chan event.Control, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	sub := &subscription{
		topics: make(map[string]bool, len(topics)),
		ch:     make(chan event.Control, buffer),
	}
	for _, t := range topics {
		sub.topics[t] = true
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	return sub.ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
	}
}

// Publish delivers an event to all matching subscribers, dropping it for
// any subscriber whose buffer is full.
func (b *Bus) Publish(ev event.Control) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if len(sub.topics) > 0 && !sub.topics[ev.Topic] {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Subscriber is behind; latency beats completeness here.
		}
	}
}

// BusSink publishes emitted controls onto a Bus as standardized control
// events. It is the default sink.
type BusSink struct {
	bus    *Bus
	source string
	device string

	mu        sync.Mutex
	connected bool
}

// NewBusSink creates a sink publishing to the given bus, stamping events
// with the source and device labels.
func NewBusSink(bus *Bus, source, device string) *BusSink {
	return &BusSink{bus: bus, source: source, device: device}
}

// Bus returns the underlying event bus so callers can subscribe.
func (s *BusSink) Bus() *Bus {
	return s.bus
}

// Connect marks the sink active.
func (s *BusSink) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return nil
}

// Disconnect stops publication.
func (s *BusSink) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
}

// Emit publishes a standardized control event.
func (s *BusSink) Emit(control string, value float64, topic string, extra Extra) {
	if !s.IsConnected() {
		return
	}
	typ := event.TypeContinuous
	if extra.Trigger {
		typ = event.TypeTrigger
	}
	ts := extra.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	ev := event.New(s.source, s.device, typ, control, value, topic, ts)
	ev.Raw = extra.Raw
	ev.Calibrated = extra.Calibrated
	s.bus.Publish(ev)
}

// IsConnected reports whether the sink is publishing.
func (s *BusSink) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
