package adapter

import (
	"fmt"

	"github.com/ayusman/controldeck/internal/calibration"
	"github.com/ayusman/controldeck/internal/pipeline"
)

// Calibration returns a copy of the adapter's calibration profile.
func (a *Adapter) Calibration() *calibration.Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calib.Clone()
}

// SetCalibration replaces the adapter's calibration profile.
func (a *Adapter) SetCalibration(p *calibration.Profile) {
	if p == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calib = p.Clone()
}

// ExportCalibration serializes the current profile to JSON.
func (a *Adapter) ExportCalibration() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calib.Export()
}

// ImportCalibration replaces the profile from a JSON export. On any parse
// failure the existing calibration is left untouched.
func (a *Adapter) ImportCalibration(data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calib.Import(data)
}

// CaptureReferencePoint records the smooth stage's current raw rotation as
// the named reference point, with the fixed assumed capture variance.
func (a *Adapter) CaptureReferencePoint(point string) error {
	stage := a.pipe.Stage(pipeline.ProcessorSmooth)
	reader, ok := stage.(pipeline.ThetaReader)
	if !ok {
		return fmt.Errorf("pipeline has no smooth stage to capture from")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.calib.Reference[point] = calibration.ReferencePoint{
		RawRotation: reader.Theta(),
		Variance:    calibration.CaptureVariance,
	}
	return nil
}

// ResetCalibration clears captured reference points, keeping tuning.
func (a *Adapter) ResetCalibration() {
	a.mu.Lock()
	defer a.mu.Unlock()
	tuning := a.calib.Tuning
	a.calib = calibration.Default()
	a.calib.Tuning = tuning
}

// ValidateCalibration scores the current profile's quality.
func (a *Adapter) ValidateCalibration() calibration.Validation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calib.Validate()
}

// Tuning returns the current tuning parameters.
func (a *Adapter) Tuning() calibration.Tuning {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calib.Tuning
}

// SetTuning replaces tuning independently of captured reference points.
func (a *Adapter) SetTuning(t calibration.Tuning) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calib.Tuning = t
}

// ResetTuning restores default tuning, keeping reference points.
func (a *Adapter) ResetTuning() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calib.Tuning = calibration.Default().Tuning
}

// Stats is the adapter's processing report.
type Stats struct {
	FramesProcessed int64          `json:"framesProcessed"`
	FramesValid     int64          `json:"framesValid"`
	DetectionRate   float64        `json:"detectionRate"`
	LastFrameAt     int64          `json:"lastFrameAt"`
	Source          map[string]any `json:"source,omitempty"`
}

// Stats reports frame counters, the detection rate and source statistics.
func (a *Adapter) Stats() Stats {
	a.mu.Lock()
	s := Stats{
		FramesProcessed: a.frames,
		FramesValid:     a.validFrames,
		LastFrameAt:     a.lastFrameAt,
	}
	a.mu.Unlock()

	if s.FramesProcessed > 0 {
		s.DetectionRate = float64(s.FramesValid) / float64(s.FramesProcessed)
	}
	s.Source = a.src.Stats()
	return s
}
