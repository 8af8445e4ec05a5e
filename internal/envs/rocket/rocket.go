// Package rocket registers the craft-avoidance environment variants.
// Import it for side effects:
//
//	import _ "github.com/vovakirdan/skyrocket/internal/envs/rocket"
package rocket

import (
	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/registry"
)

// Environment IDs.
const (
	ID        = "rocket"
	GymID     = "rocket-gym"
	ClassicID = "rocket-classic"
)

func init() {
	registry.Register(registry.EnvInfo{
		ID:          ID,
		Title:       "Skyrocket",
		Description: "Configured playfield, caps and spawn cadence",
	}, func(base config.RocketConfig) config.RocketConfig {
		return base
	})

	registry.Register(registry.EnvInfo{
		ID:          GymID,
		Title:       "Skyrocket (gym)",
		Description: "Training cadence: a spawn attempt every tick",
	}, withPreset(config.DifficultyGym))

	registry.Register(registry.EnvInfo{
		ID:          ClassicID,
		Title:       "Skyrocket (classic)",
		Description: "Arcade cadence at 30 fps",
	}, withPreset(config.DifficultyClassic))
}

func withPreset(p config.DifficultyPreset) registry.Factory {
	return func(base config.RocketConfig) config.RocketConfig {
		config.ApplyPreset(&base, p)
		return base
	}
}
