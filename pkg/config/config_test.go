package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/slotboard/slotboard/pkg/editor"
	"github.com/slotboard/slotboard/pkg/errors"
)

func TestValidateAndSetDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	// The gesture package owns the editor defaults; config mirrors them.
	if cfg.Editor.PixelsPerUnit != editor.DefaultPixelsPerUnit {
		t.Errorf("pixels_per_unit = %v", cfg.Editor.PixelsPerUnit)
	}
	if cfg.Editor.MinHeight != editor.DefaultMinHeight {
		t.Errorf("min_height = %v", cfg.Editor.MinHeight)
	}
	if cfg.Editor.DirectionRatio != editor.DefaultDirectionRatio {
		t.Errorf("direction_ratio = %v", cfg.Editor.DirectionRatio)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Debounce().Milliseconds() != DefaultDebounceMS {
		t.Errorf("debounce = %v", cfg.Debounce())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative sensitivity", func(c *Config) { c.Editor.PixelsPerUnit = -1 }},
		{"ratio above one", func(c *Config) { c.Editor.DirectionRatio = 1.5 }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "etcd" }},
		{"mongo without uri", func(c *Config) { c.Storage.Backend = "mongo" }},
		{"negative debounce", func(c *Config) { c.Sync.DebounceMS = -10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			tt.mutate(&cfg)
			err := cfg.ValidateAndSetDefaults()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slotboard.toml")
	content := `
[editor]
pixels_per_unit = 30
direction_ratio = 0.7

[sync]
debounce_ms = 200

[storage]
backend = "memory"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Editor.PixelsPerUnit != 30 {
		t.Errorf("pixels_per_unit = %v, want file value", cfg.Editor.PixelsPerUnit)
	}
	if cfg.Editor.DirectionRatio != 0.7 {
		t.Errorf("direction_ratio = %v", cfg.Editor.DirectionRatio)
	}
	if cfg.Sync.DebounceMS != 200 {
		t.Errorf("debounce_ms = %d", cfg.Sync.DebounceMS)
	}
	// Unset fields still get defaults.
	if cfg.Editor.MinHeight != DefaultMinHeight {
		t.Errorf("min_height = %v, want default", cfg.Editor.MinHeight)
	}
	if cfg.Server.Addr != DefaultListenAddr {
		t.Errorf("addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	// A path the user named must exist; only the implicit lookup may
	// fall back to defaults.
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}
