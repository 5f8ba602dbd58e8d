package source

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/controldeck/internal/landmark"
)

func TestManual_PushDelivery(t *testing.T) {
	src := NewManual()
	if err := src.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var got []*landmark.Frame
	unsubscribe := src.OnData(func(f *landmark.Frame) {
		got = append(got, f)
	})

	src.Push(landmark.NeutralHand(1))
	src.Push(landmark.NeutralHand(2))

	if len(got) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(got))
	}

	unsubscribe()
	src.Push(landmark.NeutralHand(3))
	if len(got) != 2 {
		t.Error("expected no delivery after unsubscribe")
	}
}

func TestManual_StoppedDropsFrames(t *testing.T) {
	src := NewManual()

	delivered := 0
	src.OnData(func(f *landmark.Frame) { delivered++ })

	src.Push(landmark.NeutralHand(1)) // not started yet
	src.Start()
	src.Push(landmark.NeutralHand(2))
	src.Stop()
	src.Push(landmark.NeutralHand(3))

	if delivered != 1 {
		t.Errorf("expected exactly 1 delivered frame, got %d", delivered)
	}

	stats := src.Stats()
	if stats["framesDropped"].(int64) != 2 {
		t.Errorf("expected 2 dropped frames, got %v", stats["framesDropped"])
	}
}

func TestEmitter_ListenerPanicIsolation(t *testing.T) {
	src := NewManual()
	src.Start()

	healthy := 0
	src.OnData(func(f *landmark.Frame) { panic("bad listener") })
	src.OnData(func(f *landmark.Frame) { healthy++ })

	src.Push(landmark.NeutralHand(1))

	if healthy != 1 {
		t.Error("expected the healthy listener to run despite a panicking sibling")
	}
}

func TestSynthetic_FramesAreComplete(t *testing.T) {
	src := NewSynthetic(DefaultSyntheticConfig())

	for i := 0; i < 100; i++ {
		frame := src.FrameAt(float64(i)*0.033, int64(i))
		if !frame.Valid() {
			t.Fatalf("frame %d has %d landmarks", i, len(frame.Points))
		}
		for j, p := range frame.Points {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
				t.Fatalf("frame %d landmark %d contains NaN", i, j)
			}
			if p.X < -0.5 || p.X > 1.5 || p.Y < -0.5 || p.Y > 1.5 {
				t.Fatalf("frame %d landmark %d out of plausible bounds: %+v", i, j, p)
			}
		}
	}
}

func TestSynthetic_StartStopIdempotent(t *testing.T) {
	src := NewSynthetic(SyntheticConfig{Interval: time.Millisecond})

	if err := src.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := src.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if !src.IsRunning() {
		t.Error("expected source to be running")
	}

	src.Stop()
	src.Stop()
	if src.IsRunning() {
		t.Error("expected source to be stopped")
	}
}

func TestSynthetic_EmitsOnTicker(t *testing.T) {
	src := NewSynthetic(SyntheticConfig{Interval: time.Millisecond})

	frameCh := make(chan *landmark.Frame, 64)
	src.OnData(func(f *landmark.Frame) {
		select {
		case frameCh <- f:
		default:
		}
	})

	src.Start()
	defer src.Stop()

	select {
	case f := <-frameCh:
		if !f.Valid() {
			t.Errorf("expected a full frame, got %d landmarks", len(f.Points))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a synthetic frame")
	}
}
