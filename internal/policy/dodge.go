package policy

import (
	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

// Dodge moves the craft vertically away from the nearest hazard that is
// ahead of it and on a collision course. With nothing threatening it holds
// position.
type Dodge struct {
	craftW, craftH   int
	hazardW, hazardH int
	height           int
	// Lookahead is how far ahead of the craft's nose a hazard counts as a threat.
	Lookahead int
	// Margin widens the craft's vertical band when checking for threats.
	Margin int
}

// NewDodge creates a dodging policy for the given geometry.
func NewDodge(cfg config.RocketConfig) *Dodge {
	return &Dodge{
		craftW:    cfg.Craft.Width,
		craftH:    cfg.Craft.Height,
		hazardW:   cfg.Hazards.Width,
		hazardH:   cfg.Hazards.Height,
		height:    cfg.Playfield.Height,
		Lookahead: 250,
		Margin:    cfg.Craft.Step * 2,
	}
}

func (p *Dodge) Name() string { return "dodge" }

func (p *Dodge) Act(obs sim.Observation) (core.Action, error) {
	cx, cy := obs.Craft()
	craft := core.NewRect(int(cx), int(cy), p.craftW, p.craftH)
	band := core.NewRect(craft.X, craft.Y-p.Margin, craft.W+p.Lookahead, craft.H+2*p.Margin)

	var threat core.Rect
	found := false
	for i := 0; i < obs.Slots(); i++ {
		hx, hy := obs.Hazard(i)
		// Live hazards fill the leading slots; the first zero slot ends them.
		if hx == 0 && hy == 0 {
			break
		}
		h := core.NewRect(int(hx), int(hy), p.hazardW, p.hazardH)
		if !h.Intersects(band) {
			continue
		}
		if !found || h.X < threat.X {
			threat, found = h, true
		}
	}
	if !found {
		return core.ActionNoop, nil
	}

	_, craftMid := craft.Center()
	_, threatMid := threat.Center()
	up := threatMid >= craftMid
	switch {
	case up && craft.Y <= 0:
		up = false
	case !up && craft.Bottom() >= p.height:
		up = true
	}
	if up {
		return core.ActionUp, nil
	}
	return core.ActionDown, nil
}
