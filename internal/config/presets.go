package config

import "fmt"

// DifficultyPreset represents a named set of spawn cadences and caps.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	// DifficultyGym reproduces the training environment cadence: a spawn
	// attempt for both kinds on every tick, bounded only by the caps.
	DifficultyGym DifficultyPreset = "gym"
	// DifficultyClassic reproduces the interactive game cadence: a missile
	// every 2000ms and a cloud every 1100ms at 30 frames per second.
	DifficultyClassic DifficultyPreset = "classic"
)

// Presets lists every known preset in display order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyGym, DifficultyClassic}
}

// ParsePreset converts a flag value into a preset. Empty means no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return "", nil
	}
	for _, p := range Presets() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty preset %q", s)
}

// ApplyPreset modifies the config based on a difficulty preset.
// Presets only touch spawn cadence, caps and pacing, never geometry.
func ApplyPreset(cfg *RocketConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Hazards.Max = 8
		cfg.Hazards.Interval = 20
		cfg.Hazards.SpeedMax = 15
	case DifficultyNormal:
		// Defaults
	case DifficultyHard:
		cfg.Hazards.Max = 30
		cfg.Hazards.Interval = 4
	case DifficultyGym:
		cfg.Hazards.Max = 20
		cfg.Hazards.Interval = 1
		cfg.Decorations.Max = 6
		cfg.Decorations.Interval = 1
	case DifficultyClassic:
		cfg.Hazards.Interval = 60
		cfg.Decorations.Interval = 33
		cfg.Render.FPS = 30
	}
}
