package source

import (
	"math"
	"sync"
	"time"

	"github.com/ayusman/controldeck/internal/landmark"
)

// SyntheticConfig shapes the generated hand motion.
type SyntheticConfig struct {
	// Interval between frames.
	Interval time.Duration
	// PositionAmplitude is the radius of the circular hand path around the
	// image center, in normalized image units.
	PositionAmplitude float64
	// PositionHz is the frequency of the positional orbit.
	PositionHz float64
	// RotationAmplitude is the peak hand rotation in radians.
	RotationAmplitude float64
	// RotationHz is the frequency of the rotation oscillation.
	RotationHz float64
}

// DefaultSyntheticConfig returns a gentle orbit at 30 frames per second.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Interval:          33 * time.Millisecond,
		PositionAmplitude: 0.25,
		PositionHz:        0.2,
		RotationAmplitude: 0.4,
		RotationHz:        0.5,
	}
}

// Synthetic generates sine-pattern hand frames on a ticker. It is the
// default source: it needs no external tracker and produces a continuous,
// bounded motion trace suitable for development and testing.
type Synthetic struct {
	emitter
	config SyntheticConfig

	mu      sync.Mutex
	stopCh  chan struct{}
	started time.Time
	frames  int64
}

// NewSynthetic creates a synthetic source with the given configuration.
// Zero-valued fields fall back to the defaults.
func NewSynthetic(config SyntheticConfig) *Synthetic {
	def := DefaultSyntheticConfig()
	if config.Interval <= 0 {
		config.Interval = def.Interval
	}
	if config.PositionAmplitude == 0 {
		config.PositionAmplitude = def.PositionAmplitude
	}
	if config.PositionHz == 0 {
		config.PositionHz = def.PositionHz
	}
	if config.RotationAmplitude == 0 {
		config.RotationAmplitude = def.RotationAmplitude
	}
	if config.RotationHz == 0 {
		config.RotationHz = def.RotationHz
	}
	return &Synthetic{config: config}
}

// Start begins ticker-driven frame generation. Idempotent.
func (s *Synthetic) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return nil
	}
	s.stopCh = make(chan struct{})
	s.started = time.Now()
	go s.run(s.stopCh)
	return nil
}

func (s *Synthetic) run(stopCh chan struct{}) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			s.emit(s.frameAt(now.Sub(start).Seconds(), now.UnixMilli()))
			s.mu.Lock()
			s.frames++
			s.mu.Unlock()
		}
	}
}

// FrameAt returns the synthetic frame for elapsed seconds t. Exposed so
// tests can sample the motion deterministically without running the ticker.
func (s *Synthetic) FrameAt(t float64, ts int64) *landmark.Frame {
	return s.frameAt(t, ts)
}

func (s *Synthetic) frameAt(t float64, ts int64) *landmark.Frame {
	cx := 0.5 + s.config.PositionAmplitude*math.Sin(2*math.Pi*s.config.PositionHz*t)
	cy := 0.5 + s.config.PositionAmplitude*math.Cos(2*math.Pi*s.config.PositionHz*t)
	theta := s.config.RotationAmplitude * math.Sin(2*math.Pi*s.config.RotationHz*t)
	frame := landmark.PosedHand(cx, cy, theta, ts)
	frame.Stats = map[string]any{"generator": "synthetic"}
	return frame
}

// Stop halts generation. Idempotent.
func (s *Synthetic) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
}

// OnData subscribes a frame callback.
func (s *Synthetic) OnData(fn func(*landmark.Frame)) func() {
	return s.subscribe(fn)
}

// IsRunning reports whether the ticker loop is active.
func (s *Synthetic) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCh != nil
}

// Stats reports generator statistics.
func (s *Synthetic) Stats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"type":          "synthetic",
		"framesEmitted": s.frames,
		"intervalMs":    s.config.Interval.Milliseconds(),
	}
}
