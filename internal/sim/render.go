package sim

import (
	"time"

	"github.com/vovakirdan/skyrocket/internal/core"
)

// DrawItem is one entity in a draw list.
type DrawItem struct {
	Kind Kind
	Rect core.Rect
}

// DrawList is everything a renderer needs for one frame.
// Items are ordered back to front: decorations, hazards, then the craft.
type DrawList struct {
	Width  int // Playfield width
	Height int // Playfield height
	Tick   uint64
	Score  int // Ticks survived in the current episode
	Over   bool
	Items  []DrawItem
}

// Renderer consumes draw lists. Implementations live outside this package
// (terminal renderer, replay viewer, test recorders).
type Renderer interface {
	Draw(DrawList) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(DrawList) error

// Draw calls f(dl).
func (f RendererFunc) Draw(dl DrawList) error {
	return f(dl)
}

// Pacer limits the rate of Render calls to a target frame rate.
// A zero-FPS pacer never waits.
type Pacer struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

// NewPacer creates a pacer for the given frame rate. fps <= 0 disables pacing.
func NewPacer(fps int) *Pacer {
	p := &Pacer{now: time.Now, sleep: time.Sleep}
	if fps > 0 {
		p.interval = time.Second / time.Duration(fps)
	}
	return p
}

// Wait blocks until at least one frame interval has passed since the
// previous Wait and returns how long it slept.
func (p *Pacer) Wait() time.Duration {
	if p == nil || p.interval <= 0 {
		return 0
	}
	now := p.now()
	var slept time.Duration
	if !p.last.IsZero() {
		if d := p.interval - now.Sub(p.last); d > 0 {
			p.sleep(d)
			slept = d
			now = now.Add(d)
		}
	}
	p.last = now
	return slept
}
