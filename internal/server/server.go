// Package server provides the HTTP API over a running adapter: calibration
// and tuning management, processing statistics and a live control-event
// WebSocket.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ayusman/controldeck/internal/adapter"
	"github.com/ayusman/controldeck/internal/calibration"
	"github.com/ayusman/controldeck/internal/sink"
)

// Config holds the server configuration.
type Config struct {
	Adapter *adapter.Adapter
	// Hub, when set, serves the live control-event WebSocket. It should
	// also be attached to the adapter as a sink.
	Hub *sink.Hub
}

// Server is the HTTP API for one adapter.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Adapter != nil {
		s.mux.HandleFunc("/api/stats", s.handleStats)
		s.mux.Handle("/api/calibration", &calibrationHandler{adapter: s.config.Adapter})
		s.mux.Handle("/api/calibration/", &calibrationHandler{adapter: s.config.Adapter})
		s.mux.Handle("/api/tuning", &tuningHandler{adapter: s.config.Adapter})
	}

	if s.config.Hub != nil {
		s.mux.Handle("/api/events", &eventsHandler{hub: s.config.Hub})
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"uptimeSeconds": int64(time.Since(s.start).Seconds()),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.config.Adapter.Stats())
}

// calibrationHandler routes /api/calibration and its sub-actions.
type calibrationHandler struct {
	adapter *adapter.Adapter
}

func (h *calibrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/calibration":
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, h.adapter.Calibration())
		case http.MethodPut:
			h.put(w, r)
		case http.MethodDelete:
			h.adapter.ResetCalibration()
			writeJSON(w, http.StatusOK, h.adapter.Calibration())
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "/api/calibration/export":
		h.export(w, r)
	case "/api/calibration/import":
		h.importProfile(w, r)
	case "/api/calibration/validate":
		h.validate(w, r)
	case "/api/calibration/capture":
		h.capture(w, r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *calibrationHandler) put(w http.ResponseWriter, r *http.Request) {
	var profile calibration.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.adapter.SetCalibration(&profile)
	writeJSON(w, http.StatusOK, h.adapter.Calibration())
}

func (h *calibrationHandler) export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := h.adapter.ExportCalibration()
	if err != nil {
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *calibrationHandler) importProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.adapter.ImportCalibration(data); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.adapter.Calibration())
}

func (h *calibrationHandler) validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.adapter.ValidateCalibration())
}

func (h *calibrationHandler) capture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	point := r.URL.Query().Get("point")
	switch point {
	case calibration.Center, calibration.Supinate, calibration.Pronate:
	default:
		http.Error(w, "Unknown reference point", http.StatusBadRequest)
		return
	}
	if err := h.adapter.CaptureReferencePoint(point); err != nil {
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.adapter.Calibration())
}

// tuningHandler manages the tuning sub-object independent of reference
// points.
type tuningHandler struct {
	adapter *adapter.Adapter
}

func (h *tuningHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.adapter.Tuning())
	case http.MethodPut:
		var t calibration.Tuning
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		h.adapter.SetTuning(t)
		writeJSON(w, http.StatusOK, h.adapter.Tuning())
	case http.MethodDelete:
		h.adapter.ResetTuning()
		writeJSON(w, http.StatusOK, h.adapter.Tuning())
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
