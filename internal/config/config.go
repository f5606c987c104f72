// Package config loads and saves keymapd's TOML configuration, in the
// same shape as the teacher's internal/config.go: a default-populated
// struct, an atomic temp-file-then-rename Save, and a DefaultPath under
// the user's config directory.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DeviceConfig selects which physical keyboard the engine grabs.
type DeviceConfig struct {
	// Path is an explicit /dev/input/eventN path. Empty means
	// auto-detect the first device that looks like a keyboard.
	Path string `toml:"path"`
}

// OutputConfig names the synthetic uinput device the engine creates.
type OutputConfig struct {
	Name string `toml:"name"`
}

// WindowConfig controls the Window-Scope Arbiter's focus poller.
type WindowConfig struct {
	PollIntervalMs int `toml:"poll_interval_ms"`
}

// StartupMapping is one from/to pair loaded without the script
// language, for mappings that don't need window-scoping or a lambda.
// Equivalent to a bare top-level `map(from, to)` call (spec.md §6).
type StartupMapping struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Config is the top-level keymapd configuration.
type Config struct {
	Verbose  bool             `toml:"verbose"`
	Script   string           `toml:"script"`
	Device   DeviceConfig     `toml:"device"`
	Output   OutputConfig     `toml:"output"`
	Window   WindowConfig     `toml:"window"`
	Mappings []StartupMapping `toml:"mapping"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		Verbose: false,
		Script:  "",
		Device:  DeviceConfig{Path: ""},
		Output:  OutputConfig{Name: "keymapd virtual keyboard"},
		Window:  WindowConfig{PollIntervalMs: 300},
	}
}

// DefaultPath returns the default config file path
// (~/.config/keymapd/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "keymapd", "config.toml")
}

// Save writes cfg as TOML to path, creating parent directories if
// needed. The write is atomic: data is written to a temporary file and
// renamed into place so a crash mid-write cannot corrupt the existing
// config.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".keymapd-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. If the file does not exist, it
// returns the default config without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
