// Package config loads the slotboard.toml configuration file and applies
// defaults. Flags override file values; the file overrides built-ins.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/slotboard/slotboard/pkg/editor"
	"github.com/slotboard/slotboard/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPixelsPerUnit is the horizontal resize sensitivity: pixels of
	// pointer travel per grid unit. The gesture package owns the value.
	DefaultPixelsPerUnit = editor.DefaultPixelsPerUnit

	// DefaultMinHeight is the smallest committed slot height in pixels.
	DefaultMinHeight = editor.DefaultMinHeight

	// DefaultDirectionRatio is the drag classifier's dominance threshold.
	DefaultDirectionRatio = editor.DefaultDirectionRatio

	// DefaultDebounceMS is the save debounce window in milliseconds.
	DefaultDebounceMS = 500

	// DefaultBackend selects document persistence when none is configured.
	DefaultBackend = "file"

	// DefaultListenAddr is the serve command's bind address.
	DefaultListenAddr = ":8470"
)

// Default viewport pixel widths, used by the editor's viewport switcher.
const (
	DefaultMobileWidth  = 390
	DefaultTabletWidth  = 820
	DefaultDesktopWidth = 1280
)

// Config is the decoded slotboard.toml.
type Config struct {
	Editor  Editor  `toml:"editor"`
	Sync    Sync    `toml:"sync"`
	Storage Storage `toml:"storage"`
	Server  Server  `toml:"server"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Editor tunes gesture behavior.
type Editor struct {
	// PixelsPerUnit is the horizontal resize sensitivity.
	PixelsPerUnit float64 `toml:"pixels_per_unit"`

	// MinHeight is the smallest committed slot height in pixels.
	MinHeight float64 `toml:"min_height"`

	// DirectionRatio is the drag classifier's dominance threshold in (0, 1].
	DirectionRatio float64 `toml:"direction_ratio"`

	// Viewport widths in pixels.
	MobileWidth  int `toml:"mobile_width"`
	TabletWidth  int `toml:"tablet_width"`
	DesktopWidth int `toml:"desktop_width"`
}

// Sync tunes the debounced save path.
type Sync struct {
	// DebounceMS is the save window in milliseconds.
	DebounceMS int `toml:"debounce_ms"`
}

// Storage selects and configures the document backend.
type Storage struct {
	// Backend is one of "memory", "file", "mongo".
	Backend string `toml:"backend"`

	// Dir is the file backend's layout directory ("" means the default
	// under the user config dir).
	Dir string `toml:"dir"`

	// MongoURI, MongoDatabase, MongoCollection configure the mongo backend.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	// RedisAddr enables cross-context invalidation when non-empty.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Server configures the serve command.
type Server struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`
}

// Load reads the config file at path. An empty path tries
// ./slotboard.toml and then ~/.config/slotboard/slotboard.toml; a missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	}

	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile() string {
	if _, err := os.Stat("slotboard.toml"); err == nil {
		return "slotboard.toml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".config", "slotboard", "slotboard.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// ValidateAndSetDefaults checks field ranges and fills in defaults.
// It is idempotent and safe to call multiple times.
func (c *Config) ValidateAndSetDefaults() error {
	if c.validated {
		return nil
	}

	if c.Editor.PixelsPerUnit == 0 {
		c.Editor.PixelsPerUnit = DefaultPixelsPerUnit
	}
	if c.Editor.PixelsPerUnit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "editor.pixels_per_unit must be positive, got %v", c.Editor.PixelsPerUnit)
	}

	if c.Editor.MinHeight == 0 {
		c.Editor.MinHeight = DefaultMinHeight
	}
	if c.Editor.MinHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "editor.min_height must be positive, got %v", c.Editor.MinHeight)
	}

	if c.Editor.DirectionRatio == 0 {
		c.Editor.DirectionRatio = DefaultDirectionRatio
	}
	if c.Editor.DirectionRatio < 0 || c.Editor.DirectionRatio > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "editor.direction_ratio must be in (0, 1], got %v", c.Editor.DirectionRatio)
	}

	if c.Editor.MobileWidth == 0 {
		c.Editor.MobileWidth = DefaultMobileWidth
	}
	if c.Editor.TabletWidth == 0 {
		c.Editor.TabletWidth = DefaultTabletWidth
	}
	if c.Editor.DesktopWidth == 0 {
		c.Editor.DesktopWidth = DefaultDesktopWidth
	}

	if c.Sync.DebounceMS == 0 {
		c.Sync.DebounceMS = DefaultDebounceMS
	}
	if c.Sync.DebounceMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "sync.debounce_ms must be positive, got %d", c.Sync.DebounceMS)
	}

	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = DefaultBackend
	case "memory", "file", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "storage.backend must be memory, file, or mongo, got %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "mongo" && c.Storage.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "storage.mongo_uri is required for the mongo backend")
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultListenAddr
	}

	c.validated = true
	return nil
}

// Debounce returns the sync window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Sync.DebounceMS) * time.Millisecond
}
