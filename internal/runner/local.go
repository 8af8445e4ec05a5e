package runner

import (
	"context"

	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

// Local adapts an in-process environment to the runner's Env interface.
type Local struct {
	Env *sim.Env
}

// Reset reseeds the environment and starts a new episode.
func (l Local) Reset(_ context.Context, seed int64) (sim.Observation, error) {
	l.Env.Seed(seed)
	return l.Env.Reset(), nil
}

// Step forwards to the environment.
func (l Local) Step(_ context.Context, a core.Action) (sim.StepResult, error) {
	return l.Env.Step(a)
}

// Render forwards to the environment.
func (l Local) Render() error {
	return l.Env.Render()
}
