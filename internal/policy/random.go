package policy

import (
	"math/rand"

	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

// Random picks uniformly among all actions.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random policy with its own seeded source.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (p *Random) Name() string { return "random" }

func (p *Random) Act(sim.Observation) (core.Action, error) {
	return core.Action(p.rng.Intn(core.ActionCount)), nil
}
