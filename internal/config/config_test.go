package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Errorf("backend url = %q", cfg.BackendURL)
	}
	if cfg.RequestTimeout != 90*time.Second {
		t.Errorf("timeout = %v", cfg.RequestTimeout)
	}
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "studymate.yaml")
	body := "backend_url: http://backend:9000\nrequest_timeout: 15s\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "http://backend:9000" {
		t.Errorf("backend url = %q", cfg.BackendURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("timeout = %v", cfg.RequestTimeout)
	}
	if cfg.ExportFormat != "txt" {
		t.Errorf("export format default lost: %q", cfg.ExportFormat)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "studymate.yaml")
	if err := os.WriteFile(path, []byte("request_timeout: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("bad duration accepted")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("backend_url: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed file accepted")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "studymate.yaml")
	cfg := Default()
	cfg.SpeechCommand = "say"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SpeechCommand != "say" {
		t.Errorf("speech command = %q", loaded.SpeechCommand)
	}
}
