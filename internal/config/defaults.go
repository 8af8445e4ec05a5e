package config

import (
	_ "embed"
)

//go:embed defaults/rocket.yaml
var defaultRocketYAML []byte

// DefaultRocketConfig returns the hardcoded default configuration.
// It mirrors defaults/rocket.yaml and is used if the embedded file fails to parse.
func DefaultRocketConfig() RocketConfig {
	return RocketConfig{
		Playfield: PlayfieldConfig{
			Width:  800,
			Height: 600,
		},
		Craft: CraftConfig{
			StartX: 0,
			StartY: 0,
			Width:  60,
			Height: 24,
			Step:   7,
		},
		Hazards: HazardConfig{
			Max:            20,
			Interval:       10,
			Width:          40,
			Height:         12,
			SpeedMin:       5,
			SpeedMax:       25,
			SpawnMinOffset: 20,
			SpawnMaxOffset: 400,
		},
		Decorations: DecorationConfig{
			Max:            6,
			Interval:       25,
			Width:          90,
			Height:         36,
			Speed:          5,
			SpawnMinOffset: 20,
			SpawnMaxOffset: 450,
		},
		Render: RenderConfig{
			FPS: 27,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRocketYAML
}
