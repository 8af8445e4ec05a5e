// Package config provides YAML/TOML-based environment configuration loading
// and difficulty presets for the rocket environment.
package config

import (
	"errors"
	"fmt"
)

// RocketConfig contains all constants of a rocket environment.
// Values are fixed at construction; an episode never reconfigures them.
type RocketConfig struct {
	Playfield   PlayfieldConfig  `yaml:"playfield" toml:"playfield" json:"playfield"`
	Craft       CraftConfig      `yaml:"craft" toml:"craft" json:"craft"`
	Hazards     HazardConfig     `yaml:"hazards" toml:"hazards" json:"hazards"`
	Decorations DecorationConfig `yaml:"decorations" toml:"decorations" json:"decorations"`
	Render      RenderConfig     `yaml:"render" toml:"render" json:"render"`
}

// PlayfieldConfig defines the fixed playfield size in pixels.
type PlayfieldConfig struct {
	Width  int `yaml:"width" toml:"width" json:"width"`
	Height int `yaml:"height" toml:"height" json:"height"`
}

// CraftConfig defines the player-controlled craft.
type CraftConfig struct {
	StartX int `yaml:"start_x" toml:"start_x" json:"start_x"` // Left edge at reset
	StartY int `yaml:"start_y" toml:"start_y" json:"start_y"` // Top edge at reset
	Width  int `yaml:"width" toml:"width" json:"width"`
	Height int `yaml:"height" toml:"height" json:"height"`
	Step   int `yaml:"step" toml:"step" json:"step"` // Pixels moved per action
}

// HazardConfig defines missile spawning and motion.
type HazardConfig struct {
	Max      int `yaml:"max" toml:"max" json:"max"`                // Live hazard cap (observation slots)
	Interval int `yaml:"interval" toml:"interval" json:"interval"` // Ticks between spawns, <= 0 disables
	Width    int `yaml:"width" toml:"width" json:"width"`
	Height   int `yaml:"height" toml:"height" json:"height"`
	SpeedMin int `yaml:"speed_min" toml:"speed_min" json:"speed_min"`
	SpeedMax int `yaml:"speed_max" toml:"speed_max" json:"speed_max"`
	// Spawn center x is drawn from [width+SpawnMinOffset, width+SpawnMaxOffset].
	SpawnMinOffset int `yaml:"spawn_min_offset" toml:"spawn_min_offset" json:"spawn_min_offset"`
	SpawnMaxOffset int `yaml:"spawn_max_offset" toml:"spawn_max_offset" json:"spawn_max_offset"`
}

// DecorationConfig defines cloud spawning and motion.
type DecorationConfig struct {
	Max            int `yaml:"max" toml:"max" json:"max"`
	Interval       int `yaml:"interval" toml:"interval" json:"interval"`
	Width          int `yaml:"width" toml:"width" json:"width"`
	Height         int `yaml:"height" toml:"height" json:"height"`
	Speed          int `yaml:"speed" toml:"speed" json:"speed"`
	SpawnMinOffset int `yaml:"spawn_min_offset" toml:"spawn_min_offset" json:"spawn_min_offset"`
	SpawnMaxOffset int `yaml:"spawn_max_offset" toml:"spawn_max_offset" json:"spawn_max_offset"`
}

// RenderConfig defines render-side pacing.
type RenderConfig struct {
	FPS int `yaml:"fps" toml:"fps" json:"fps"` // Target frames per second for Render, 0 disables pacing
}

// ObservationSize returns the length of the observation vector.
func (c RocketConfig) ObservationSize() int {
	return 2*c.Hazards.Max + 2
}

// ErrInvalidConfig is returned by Validate for unusable configurations.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks that the configuration describes a usable environment.
func (c RocketConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Playfield.Width > 0 && c.Playfield.Height > 0,
		"playfield must be positive, got %dx%d", c.Playfield.Width, c.Playfield.Height)
	check(c.Craft.Width > 0 && c.Craft.Height > 0,
		"craft size must be positive, got %dx%d", c.Craft.Width, c.Craft.Height)
	check(c.Craft.Width <= c.Playfield.Width && c.Craft.Height <= c.Playfield.Height,
		"craft %dx%d does not fit playfield", c.Craft.Width, c.Craft.Height)
	check(c.Craft.Step > 0, "craft step must be positive, got %d", c.Craft.Step)
	check(c.Hazards.Max >= 0, "hazards.max must not be negative, got %d", c.Hazards.Max)
	check(c.Hazards.Width > 0 && c.Hazards.Height > 0,
		"hazard size must be positive, got %dx%d", c.Hazards.Width, c.Hazards.Height)
	check(c.Hazards.SpeedMin >= 0 && c.Hazards.SpeedMin <= c.Hazards.SpeedMax,
		"hazard speed range [%d,%d] is invalid", c.Hazards.SpeedMin, c.Hazards.SpeedMax)
	check(c.Hazards.SpawnMinOffset <= c.Hazards.SpawnMaxOffset,
		"hazard spawn offsets [%d,%d] are inverted", c.Hazards.SpawnMinOffset, c.Hazards.SpawnMaxOffset)
	check(c.Decorations.Max >= 0, "decorations.max must not be negative, got %d", c.Decorations.Max)
	check(c.Decorations.Width > 0 && c.Decorations.Height > 0,
		"decoration size must be positive, got %dx%d", c.Decorations.Width, c.Decorations.Height)
	check(c.Decorations.Speed >= 0, "decoration speed must not be negative, got %d", c.Decorations.Speed)
	check(c.Decorations.SpawnMinOffset <= c.Decorations.SpawnMaxOffset,
		"decoration spawn offsets [%d,%d] are inverted", c.Decorations.SpawnMinOffset, c.Decorations.SpawnMaxOffset)
	check(c.Render.FPS >= 0, "render.fps must not be negative, got %d", c.Render.FPS)

	return errors.Join(errs...)
}
