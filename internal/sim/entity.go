// Package sim implements the rocket avoidance environment: a craft steered by
// discrete actions must dodge missiles flying in from the right while clouds
// drift across the background.
//
// The package is pure simulation. It never draws, sleeps only inside Render's
// optional frame pacing, and keeps no package-level mutable state, so any
// number of Env values can run side by side.
package sim

import (
	"math/rand"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
)

// Kind tags an entity and selects its motion rule.
type Kind uint8

const (
	KindCraft      Kind = iota // player-controlled, moved by actions and clamped
	KindHazard                 // missile, moves left at its own speed, collides
	KindDecoration             // cloud, moves left at a fixed speed, cosmetic
)

// String returns the kind name used in logs, draw lists and the wire protocol.
func (k Kind) String() string {
	switch k {
	case KindCraft:
		return "craft"
	case KindHazard:
		return "hazard"
	case KindDecoration:
		return "decoration"
	default:
		return "unknown"
	}
}

// Entity is a movable rectangular body. All variants share one value type;
// Kind selects the motion rule so the per-tick loop runs over plain slices.
type Entity struct {
	Kind  Kind
	Rect  core.Rect
	Speed int // Leftward pixels per tick; unused for the craft
}

// Position returns the entity's (left, top) corner.
func (e Entity) Position() (int, int) {
	return e.Rect.X, e.Rect.Y
}

// offLeft reports whether the entity has fully exited the left edge.
func (e Entity) offLeft() bool {
	return e.Rect.Right() < 0
}

// advance applies the autonomous motion rule. The craft does not move on its own.
func (e *Entity) advance() {
	switch e.Kind {
	case KindHazard, KindDecoration:
		e.Rect = Move(e.Rect, -e.Speed, 0)
	}
}

// Move translates a bounding box by (dx, dy) with no bounds checking.
// Bounds enforcement is the caller's job and differs by kind: the craft is
// clamped, hazards and decorations are culled.
func Move(r core.Rect, dx, dy int) core.Rect {
	return r.Translate(dx, dy)
}

// moveCraft applies an action to the craft and clamps it to the playfield.
func moveCraft(r core.Rect, a core.Action, step, width, height int) core.Rect {
	dx, dy := a.Delta()
	return clampCraft(Move(r, dx*step, dy*step), width, height)
}

// clampCraft keeps the craft inside [0,width] x [0,height]. The vertical
// trigger is inclusive at the top and bottom edges while the horizontal one
// is strict; the resulting positions are identical either way.
func clampCraft(r core.Rect, width, height int) core.Rect {
	if r.X < 0 {
		r.X = 0
	} else if r.Right() > width {
		r = r.WithRight(width)
	}
	if r.Y <= 0 {
		r.Y = 0
	} else if r.Bottom() >= height {
		r = r.WithBottom(height)
	}
	return r
}

// spawner creates hazards and decorations just beyond the right edge.
// Every random draw goes through rng so an episode is a pure function of
// the seed and the action sequence.
type spawner struct {
	cfg *config.RocketConfig
	rng *rand.Rand
}

func (s spawner) hazard() Entity {
	w, h := s.cfg.Playfield.Width, s.cfg.Playfield.Height
	hc := s.cfg.Hazards
	// Draw order is fixed (vertical, horizontal, speed); recordings depend on it.
	cy := s.randInt(0, h)
	cx := s.randInt(w+hc.SpawnMinOffset, w+hc.SpawnMaxOffset)
	return Entity{
		Kind:  KindHazard,
		Rect:  core.NewRectCentered(cx, cy, hc.Width, hc.Height),
		Speed: s.randInt(hc.SpeedMin, hc.SpeedMax),
	}
}

func (s spawner) decoration() Entity {
	w, h := s.cfg.Playfield.Width, s.cfg.Playfield.Height
	dc := s.cfg.Decorations
	cx := s.randInt(w+dc.SpawnMinOffset, w+dc.SpawnMaxOffset)
	cy := s.randInt(0, h)
	return Entity{
		Kind:  KindDecoration,
		Rect:  core.NewRectCentered(cx, cy, dc.Width, dc.Height),
		Speed: dc.Speed,
	}
}

// randInt returns a uniform integer in [lo, hi].
func (s spawner) randInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}
