// Package config provides YAML-based configuration loading for the dungeon
// explorer and its servers.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

// DungeonConfig contains all configuration for the explorer.
type DungeonConfig struct {
	Dungeon    DungeonSection    `yaml:"dungeon"`
	Screen     ScreenSection     `yaml:"screen"`
	Camera     CameraSection     `yaml:"camera"`
	Visibility VisibilitySection `yaml:"visibility"`
	Collision  CollisionSection  `yaml:"collision"`
	Storage    StorageSection    `yaml:"storage"`
	Server     ServerSection     `yaml:"server"`
}

// DungeonSection defines grid generation parameters.
type DungeonSection struct {
	RoomSize int   `yaml:"room_size"`
	Seed     int64 `yaml:"seed"`
	Frames   int   `yaml:"frames"` // Atlas frames renderers cycle through
}

// ScreenSection is the pixel size the viewport margins derive from.
type ScreenSection struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CameraSection defines camera movement.
type CameraSection struct {
	Speed  float64 `yaml:"speed"` // World units per update tick
	StartX float64 `yaml:"start_x"`
	StartY float64 `yaml:"start_y"`
}

// VisibilitySection tunes visibility culling.
type VisibilitySection struct {
	StrictBounds bool `yaml:"strict_bounds"`
}

// CollisionSection tunes collision queries.
type CollisionSection struct {
	Mode    string `yaml:"mode"` // "legacy" or "sat"
	Indexed bool   `yaml:"indexed"`
}

// StorageSection configures the session store.
type StorageSection struct {
	DSN string `yaml:"dsn"` // SQLite path or postgres:// URL
}

// ServerSection configures the SSH and HTTP servers.
type ServerSection struct {
	SSHAddr            string `yaml:"ssh_addr"`
	HTTPAddr           string `yaml:"http_addr"`
	HostKey            string `yaml:"host_key"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// IdleTimeout returns the SSH idle timeout as a duration.
func (s ServerSection) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}

// Validate checks values that cannot be repaired by clamping.
// Room size is not checked: the dungeon clamps it.
func (c *DungeonConfig) Validate() error {
	if _, err := dungeon.ParseCollisionMode(c.Collision.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("config: screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Camera.Speed < 0 {
		return fmt.Errorf("config: camera speed must not be negative, got %v", c.Camera.Speed)
	}
	if c.Dungeon.Frames < 0 {
		return fmt.Errorf("config: frames must not be negative, got %d", c.Dungeon.Frames)
	}
	return nil
}

// NewDungeon builds and generates the configured dungeon.
func (c *DungeonConfig) NewDungeon(logger *log.Logger) *dungeon.Dungeon {
	d := dungeon.New(c.Dungeon.RoomSize, dungeon.WithLogger(logger))
	if d.BelowMinimum() && logger != nil {
		logger.Warn("room size below minimum is not enforced",
			"size", d.Size(), "minimum", dungeon.MinRoomSize)
	}
	return d
}

// Viewport returns the culling viewport for the configured screen.
func (c *DungeonConfig) Viewport() dungeon.Viewport {
	v := dungeon.NewViewport(c.Screen.Width, c.Screen.Height)
	v.StrictBounds = c.Visibility.StrictBounds
	return v
}

// Collider returns a collider for d using the configured mode.
// Call Validate first; an invalid mode falls back to legacy.
func (c *DungeonConfig) Collider(d *dungeon.Dungeon) *dungeon.Collider {
	mode, err := dungeon.ParseCollisionMode(c.Collision.Mode)
	if err != nil {
		mode = dungeon.CollideLegacy
	}
	return dungeon.NewCollider(d, mode, c.Collision.Indexed)
}

// ScreenPreset names a common screen size.
type ScreenPreset string

const (
	ScreenVGA  ScreenPreset = "vga"
	ScreenSVGA ScreenPreset = "svga"
	ScreenHD   ScreenPreset = "hd"
)

// ApplyScreenPreset sets the screen size for a preset. Unknown presets leave
// the config unchanged and return false.
func ApplyScreenPreset(cfg *DungeonConfig, preset ScreenPreset) bool {
	switch preset {
	case ScreenVGA:
		cfg.Screen = ScreenSection{Width: 640, Height: 480}
	case ScreenSVGA:
		cfg.Screen = ScreenSection{Width: 800, Height: 600}
	case ScreenHD:
		cfg.Screen = ScreenSection{Width: 1280, Height: 720}
	default:
		return false
	}
	return true
}
