package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	pluginDir := filepath.Join(dir, name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()

	writeManifest(t, tmpDir, "logger", `{
		"name": "flick-logger",
		"version": "1.0.0",
		"executable": "flick-logger",
		"topics": ["gesture"]
	}`)
	writeManifest(t, tmpDir, "broken", `{not json`)

	m := NewManager(tmpDir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(m.List()) != 1 {
		t.Fatalf("expected 1 plugin (broken manifest skipped), got %d", len(m.List()))
	}

	p, err := m.Get("flick-logger")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Executable != filepath.Join(tmpDir, "logger", "flick-logger") {
		t.Errorf("unexpected executable path: %s", p.Executable)
	}
}

func TestManager_GetNotFound(t *testing.T) {
	m := NewManager(t.TempDir())
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if _, err := m.Get("missing"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestManager_MissingDirectoryIsNotAnError(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := m.Discover(); err != nil {
		t.Errorf("Discover() on a missing directory should succeed, got %v", err)
	}
	if len(m.List()) != 0 {
		t.Errorf("expected no plugins, got %d", len(m.List()))
	}
}

func TestManifest_WantsTopic(t *testing.T) {
	m := &Manifest{Topics: []string{"gesture"}}
	if !m.WantsTopic("gesture") {
		t.Error("expected subscribed topic to match")
	}
	if m.WantsTopic("paddle") {
		t.Error("expected unsubscribed topic to be rejected")
	}

	all := &Manifest{}
	if !all.WantsTopic("anything") {
		t.Error("expected empty topic list to subscribe to everything")
	}
}
