package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Verbose {
		t.Error("expected verbose=false by default")
	}
	if cfg.Device.Path != "" {
		t.Errorf("expected empty device path, got %s", cfg.Device.Path)
	}
	if cfg.Output.Name == "" {
		t.Error("expected a default output device name")
	}
	if cfg.Window.PollIntervalMs != 300 {
		t.Errorf("expected poll interval 300ms, got %d", cfg.Window.PollIntervalMs)
	}
	if len(cfg.Mappings) != 0 {
		t.Errorf("expected no startup mappings by default, got %d", len(cfg.Mappings))
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Window.PollIntervalMs != 300 {
		t.Errorf("expected default poll interval, got %d", cfg.Window.PollIntervalMs)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
verbose = true
script = "/etc/keymapd/startup.km"

[device]
path = "/dev/input/event5"

[output]
name = "my virtual keyboard"

[window]
poll_interval_ms = 100

[[mapping]]
from = "ctrl+j"
to = "down"

[[mapping]]
from = "ctrl+k"
to = "up"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Verbose {
		t.Error("expected verbose=true")
	}
	if cfg.Script != "/etc/keymapd/startup.km" {
		t.Errorf("expected script path, got %s", cfg.Script)
	}
	if cfg.Device.Path != "/dev/input/event5" {
		t.Errorf("expected /dev/input/event5, got %s", cfg.Device.Path)
	}
	if cfg.Output.Name != "my virtual keyboard" {
		t.Errorf("expected custom output name, got %s", cfg.Output.Name)
	}
	if cfg.Window.PollIntervalMs != 100 {
		t.Errorf("expected 100, got %d", cfg.Window.PollIntervalMs)
	}
	if len(cfg.Mappings) != 2 {
		t.Fatalf("expected 2 startup mappings, got %d", len(cfg.Mappings))
	}
	if cfg.Mappings[0].From != "ctrl+j" || cfg.Mappings[0].To != "down" {
		t.Errorf("unexpected first mapping: %+v", cfg.Mappings[0])
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Verbose = true
	cfg.Mappings = append(cfg.Mappings, StartupMapping{From: "a", To: "b"})

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}

	if !loaded.Verbose {
		t.Error("expected verbose preserved")
	}
	if len(loaded.Mappings) != 1 || loaded.Mappings[0].From != "a" {
		t.Errorf("expected mapping round-tripped, got %+v", loaded.Mappings)
	}
	if loaded.Window.PollIntervalMs != 300 {
		t.Errorf("expected default poll interval preserved, got %d", loaded.Window.PollIntervalMs)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.toml")

	cfg := Default()
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed to create nested dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist at %s: %v", path, err)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[device]
path = "/dev/input/event2"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Device.Path != "/dev/input/event2" {
		t.Errorf("expected /dev/input/event2, got %s", cfg.Device.Path)
	}
	// Non-overridden values should remain defaults.
	if cfg.Window.PollIntervalMs != 300 {
		t.Errorf("expected default poll interval preserved, got %d", cfg.Window.PollIntervalMs)
	}
	if cfg.Output.Name == "" {
		t.Error("expected default output name preserved")
	}
}
