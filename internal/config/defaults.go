package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

//go:embed defaults/dungeon.yaml
var defaultDungeonYAML []byte

// DefaultDungeonConfig returns the hardcoded default configuration.
func DefaultDungeonConfig() DungeonConfig {
	return DungeonConfig{
		Dungeon: DungeonSection{
			RoomSize: dungeon.DefaultRoomSize,
			Seed:     dungeon.DefaultSeed,
			Frames:   4,
		},
		Screen: ScreenSection{
			Width:  dungeon.DefaultScreenWidth,
			Height: dungeon.DefaultScreenHeight,
		},
		Camera: CameraSection{
			Speed: dungeon.DefaultCameraSpeed,
		},
		Collision: CollisionSection{
			Mode: string(dungeon.CollideLegacy),
		},
		Storage: StorageSection{
			DSN: "~/.dungeon/sessions.db",
		},
		Server: ServerSection{
			SSHAddr:            ":23234",
			HTTPAddr:           ":8080",
			IdleTimeoutMinutes: 30,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultDungeonYAML
}
