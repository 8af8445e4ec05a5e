package sim

import (
	"fmt"

	"github.com/vovakirdan/skyrocket/internal/core"
)

// Pool holds the live hazards and decorations in two contiguous arenas.
// Order within an arena is insertion order; it is stable within a tick but
// carries no meaning.
type Pool struct {
	hazards        []Entity
	decorations    []Entity
	maxHazards     int
	maxDecorations int
}

// NewPool creates an empty pool with the given per-kind caps.
// Arena storage is allocated up front and reused across episodes.
func NewPool(maxHazards, maxDecorations int) *Pool {
	return &Pool{
		hazards:        make([]Entity, 0, maxHazards),
		decorations:    make([]Entity, 0, maxDecorations),
		maxHazards:     maxHazards,
		maxDecorations: maxDecorations,
	}
}

// Admit adds the entity if its kind is strictly below the cap.
// A full pool drops the entity silently; the return value only reports
// whether it was stored. Crafts never belong to the pool.
func (p *Pool) Admit(e Entity) bool {
	switch e.Kind {
	case KindHazard:
		if len(p.hazards) >= p.maxHazards {
			return false
		}
		p.hazards = append(p.hazards, e)
		return true
	case KindDecoration:
		if len(p.decorations) >= p.maxDecorations {
			return false
		}
		p.decorations = append(p.decorations, e)
		return true
	default:
		return false
	}
}

// Update moves every entity by its own rule and removes the ones whose right
// edge went past the left border, in one pass per arena.
func (p *Pool) Update() {
	p.hazards = advanceAndCull(p.hazards)
	p.decorations = advanceAndCull(p.decorations)
}

func advanceAndCull(arena []Entity) []Entity {
	live := arena[:0]
	for i := range arena {
		e := arena[i]
		e.advance()
		if e.offLeft() {
			continue
		}
		live = append(live, e)
	}
	// Zero the tail so culled entities leave nothing behind in the backing array.
	clear(arena[len(live):])
	return live
}

// CollidesWith reports whether any hazard's bounding box intersects r.
// Decorations never collide.
func (p *Pool) CollidesWith(r core.Rect) bool {
	for i := range p.hazards {
		if p.hazards[i].Rect.Intersects(r) {
			return true
		}
	}
	return false
}

// Hazards returns the live hazards. The slice aliases pool storage and is
// only valid until the next mutation; callers must not modify it.
func (p *Pool) Hazards() []Entity {
	return p.hazards
}

// Decorations returns the live decorations with the same aliasing rules as Hazards.
func (p *Pool) Decorations() []Entity {
	return p.decorations
}

// Len returns the number of live entities of the given kind.
func (p *Pool) Len(k Kind) int {
	switch k {
	case KindHazard:
		return len(p.hazards)
	case KindDecoration:
		return len(p.decorations)
	default:
		return 0
	}
}

// Cap returns the configured capacity for the given kind.
func (p *Pool) Cap(k Kind) int {
	switch k {
	case KindHazard:
		return p.maxHazards
	case KindDecoration:
		return p.maxDecorations
	default:
		return 0
	}
}

// Clear removes every entity, keeping the arenas' storage.
func (p *Pool) Clear() {
	clear(p.hazards)
	clear(p.decorations)
	p.hazards = p.hazards[:0]
	p.decorations = p.decorations[:0]
}

// Check verifies the capacity invariant.
func (p *Pool) Check() error {
	if n := len(p.hazards); n > p.maxHazards {
		return fmt.Errorf("sim: %d live hazards exceed cap %d: %w", n, p.maxHazards, ErrInternalConsistency)
	}
	if n := len(p.decorations); n > p.maxDecorations {
		return fmt.Errorf("sim: %d live decorations exceed cap %d: %w", n, p.maxDecorations, ErrInternalConsistency)
	}
	return nil
}
