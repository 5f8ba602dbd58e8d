package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/controldeck/internal/adapter"
	"github.com/ayusman/controldeck/internal/calibration"
	"github.com/ayusman/controldeck/internal/landmark"
	"github.com/ayusman/controldeck/internal/source"
)

func newTestServer(t *testing.T) (*Server, *adapter.Adapter, *source.Manual) {
	t.Helper()
	src := source.NewManual()
	a := adapter.NewBuilder().WithSource(src).Build()
	if err := a.Start(); err != nil {
		t.Fatalf("adapter start: %v", err)
	}
	t.Cleanup(a.Stop)
	return New(Config{Adapter: a}), a, src
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]any
	decodeBody(t, w, &resp)
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %v", resp["status"])
	}

	if w := doRequest(t, s, http.MethodPost, "/api/health", nil); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST, got %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	s, _, src := newTestServer(t)

	src.Push(landmark.NeutralHand(1))
	src.Push(&landmark.Frame{Points: nil, Timestamp: 2})

	w := doRequest(t, s, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats adapter.Stats
	decodeBody(t, w, &stats)
	if stats.FramesProcessed != 2 {
		t.Errorf("expected 2 processed frames, got %d", stats.FramesProcessed)
	}
	if stats.FramesValid != 1 {
		t.Errorf("expected 1 valid frame, got %d", stats.FramesValid)
	}
}

func TestCalibration_GetPutDelete(t *testing.T) {
	s, a, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/calibration", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET expected 200, got %d", w.Code)
	}

	profile := calibration.Default()
	profile.Reference[calibration.Center] = calibration.ReferencePoint{RawRotation: 0.1, Variance: 0.01}
	profile.Tuning.Reverse = true
	body, _ := json.Marshal(profile)

	w = doRequest(t, s, http.MethodPut, "/api/calibration", body)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT expected 200, got %d", w.Code)
	}
	if !a.Tuning().Reverse {
		t.Error("expected PUT to install the new profile")
	}

	w = doRequest(t, s, http.MethodDelete, "/api/calibration", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE expected 200, got %d", w.Code)
	}
	if len(a.Calibration().Reference) != 0 {
		t.Error("expected DELETE to clear reference points")
	}
	if !a.Tuning().Reverse {
		t.Error("expected DELETE to keep tuning")
	}

	if w := doRequest(t, s, http.MethodPatch, "/api/calibration", nil); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for PATCH, got %d", w.Code)
	}
}

func TestCalibration_PutInvalidBody(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodPut, "/api/calibration", []byte("{broken"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCalibration_ExportImport(t *testing.T) {
	s, a, _ := newTestServer(t)

	profile := calibration.Default()
	profile.Reference[calibration.Pronate] = calibration.ReferencePoint{RawRotation: 0.5, Variance: 0.02}
	a.SetCalibration(profile)

	w := doRequest(t, s, http.MethodGet, "/api/calibration/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export expected 200, got %d", w.Code)
	}
	exported := w.Body.Bytes()

	a.ResetCalibration()
	if len(a.Calibration().Reference) != 0 {
		t.Fatal("expected reset before import")
	}

	w = doRequest(t, s, http.MethodPost, "/api/calibration/import", exported)
	if w.Code != http.StatusOK {
		t.Fatalf("import expected 200, got %d", w.Code)
	}
	if got := a.Calibration().Reference[calibration.Pronate].RawRotation; got != 0.5 {
		t.Errorf("expected imported pronate rotation 0.5, got %v", got)
	}

	w = doRequest(t, s, http.MethodPost, "/api/calibration/import", []byte("not json"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed import, got %d", w.Code)
	}
}

func TestCalibration_Validate(t *testing.T) {
	s, a, _ := newTestServer(t)

	profile := calibration.Default()
	profile.Reference[calibration.Supinate] = calibration.ReferencePoint{RawRotation: -0.6, Variance: 0.01}
	profile.Reference[calibration.Pronate] = calibration.ReferencePoint{RawRotation: 0.6, Variance: 0.01}
	a.SetCalibration(profile)

	w := doRequest(t, s, http.MethodGet, "/api/calibration/validate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var v calibration.Validation
	decodeBody(t, w, &v)
	if v.Quality != 1.0 {
		t.Errorf("expected quality 1.0 for a symmetric wide range, got %v", v.Quality)
	}
}

func TestCalibration_Capture(t *testing.T) {
	s, a, src := newTestServer(t)

	for i := 0; i < 100; i++ {
		src.Push(landmark.PosedHand(0.5, 0.5, 0.2, int64(i)))
	}

	w := doRequest(t, s, http.MethodPost, "/api/calibration/capture?point=pronate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if _, ok := a.Calibration().Reference[calibration.Pronate]; !ok {
		t.Error("expected a captured pronate reference point")
	}

	w = doRequest(t, s, http.MethodPost, "/api/calibration/capture?point=sideways", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown reference point, got %d", w.Code)
	}

	w = doRequest(t, s, http.MethodGet, "/api/calibration/capture?point=center", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET capture, got %d", w.Code)
	}
}

func TestCalibration_UnknownSubPath(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/calibration/bogus", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestTuning(t *testing.T) {
	s, a, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/api/tuning", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET expected 200, got %d", w.Code)
	}

	tun := a.Tuning()
	tun.Sensitivity.Left = 1.5
	body, _ := json.Marshal(tun)

	w = doRequest(t, s, http.MethodPut, "/api/tuning", body)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT expected 200, got %d", w.Code)
	}
	if a.Tuning().Sensitivity.Left != 1.5 {
		t.Error("expected PUT to update tuning")
	}

	w = doRequest(t, s, http.MethodDelete, "/api/tuning", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE expected 200, got %d", w.Code)
	}
	if a.Tuning().Sensitivity.Left != 1.0 {
		t.Error("expected DELETE to restore default tuning")
	}

	w = doRequest(t, s, http.MethodPut, "/api/tuning", []byte("nope"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed tuning body, got %d", w.Code)
	}
}

func TestRoutesAbsentWithoutAdapter(t *testing.T) {
	s := New(Config{})

	if w := doRequest(t, s, http.MethodGet, "/api/health", nil); w.Code != http.StatusOK {
		t.Errorf("expected health to stay available, got %d", w.Code)
	}
	w := doRequest(t, s, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for stats without an adapter, got %d", w.Code)
	}
}

func TestEventsEndpointRequiresUpgrade(t *testing.T) {
	src := source.NewManual()
	a := adapter.NewBuilder().WithSource(src).Build()
	s := New(Config{Adapter: a, Hub: nil})

	w := doRequest(t, s, http.MethodGet, "/api/events", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 when no hub is configured, got %d", w.Code)
	}
}
