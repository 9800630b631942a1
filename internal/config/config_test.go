package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultDungeonConfig()
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != DefaultDungeonConfig() {
		t.Errorf("embedded defaults %+v differ from hardcoded %+v", cfg, DefaultDungeonConfig())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `
dungeon:
  room_size: 200
  seed: 7
collision:
  mode: sat
  indexed: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Dungeon.RoomSize != 200 || cfg.Dungeon.Seed != 7 {
		t.Errorf("dungeon section = %+v", cfg.Dungeon)
	}
	// Missing keys keep their defaults
	if cfg.Screen.Width != 640 || cfg.Camera.Speed != dungeon.DefaultCameraSpeed {
		t.Errorf("defaults lost: screen %+v camera %+v", cfg.Screen, cfg.Camera)
	}

	d := cfg.NewDungeon(nil)
	if d.Size() != dungeon.MaxRoomSize {
		t.Errorf("room size should clamp to %d, got %d", dungeon.MaxRoomSize, d.Size())
	}
	if cfg.Collider(d).Mode() != dungeon.CollideSAT {
		t.Errorf("Collider().Mode() = %q, expected sat", cfg.Collider(d).Mode())
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("collision:\n  mode: octree\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load() should reject an unknown collision mode")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DungeonConfig)
		wantErr bool
	}{
		{"defaults", func(*DungeonConfig) {}, false},
		{"zero screen", func(c *DungeonConfig) { c.Screen.Width = 0 }, true},
		{"negative speed", func(c *DungeonConfig) { c.Camera.Speed = -1 }, true},
		{"negative frames", func(c *DungeonConfig) { c.Dungeon.Frames = -1 }, true},
		{"bad mode", func(c *DungeonConfig) { c.Collision.Mode = "x" }, true},
		{"tiny room is allowed", func(c *DungeonConfig) { c.Dungeon.RoomSize = 1 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultDungeonConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestViewportFromScreen(t *testing.T) {
	cfg := DefaultDungeonConfig()
	ApplyScreenPreset(&cfg, ScreenHD)
	cfg.Visibility.StrictBounds = true

	v := cfg.Viewport()
	if v.TilesX != 10 || v.TilesY != 5 || !v.StrictBounds {
		t.Errorf("Viewport() = %+v", v)
	}
}

func TestApplyScreenPreset(t *testing.T) {
	cfg := DefaultDungeonConfig()
	if ApplyScreenPreset(&cfg, "cga") {
		t.Error("unknown preset should not apply")
	}
	if cfg.Screen.Width != 640 {
		t.Error("unknown preset should leave the screen unchanged")
	}
	if !ApplyScreenPreset(&cfg, ScreenSVGA) || cfg.Screen.Width != 800 || cfg.Screen.Height != 600 {
		t.Errorf("svga preset gave %+v", cfg.Screen)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dungeon.yaml")
	cfg := DefaultDungeonConfig()
	cfg.Dungeon.Seed = 99

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded != cfg {
		t.Errorf("loaded %+v, expected %+v", loaded, cfg)
	}
}

func TestIdleTimeout(t *testing.T) {
	s := ServerSection{IdleTimeoutMinutes: 2}
	if s.IdleTimeout().Minutes() != 2 {
		t.Errorf("IdleTimeout() = %v", s.IdleTimeout())
	}
}
