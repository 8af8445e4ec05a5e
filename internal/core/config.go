package core

// RuntimeConfig contains driver-side settings passed to a session.
// The simulation's own constants live in config.RocketConfig.
type RuntimeConfig struct {
	ScreenW int   // Terminal width in characters
	ScreenH int   // Terminal height in characters
	FPS     int   // Frames per second for interactive pacing
	Seed    int64 // RNG seed for deterministic episodes
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		FPS:     27,
		Seed:    0, // 0 means use current time in platform layer
	}
}
