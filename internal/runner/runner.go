// Package runner drives environments with a policy for a number of episodes,
// collecting per-episode results and feeding optional recorders.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/policy"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

// Env is the episodic interface the runner drives. Local environments are
// wrapped with Local; the websocket client implements it directly.
type Env interface {
	Reset(ctx context.Context, seed int64) (sim.Observation, error)
	Step(ctx context.Context, a core.Action) (sim.StepResult, error)
}

// Renderer is implemented by environments that can draw themselves.
type Renderer interface {
	Render() error
}

// Recorder receives every step of every episode.
type Recorder interface {
	BeginEpisode(id uuid.UUID, seed int64) error
	RecordStep(tick uint64, a core.Action, res sim.StepResult) error
	EndEpisode(r Result) error
}

// Options configures a run.
type Options struct {
	EnvID    string
	Episodes int   // Number of episodes, at least 1
	MaxSteps int   // Per-episode step cap, 0 means run to the terminal tick
	Seed     int64 // Episode i is seeded with Seed+i
	Render   bool  // Render after every step if the env supports it

	Recorder  Recorder
	OnEpisode func(Result) error // Called after each finished episode
	Logger    *log.Logger
}

// Result summarizes one episode.
type Result struct {
	ID        uuid.UUID
	EnvID     string
	Policy    string
	Episode   int
	Steps     int
	Reward    float64
	Terminal  bool // Ended by collision
	Truncated bool // Stopped by MaxSteps
	Seed      int64
	Duration  time.Duration
}

// Run executes the configured episodes. On cancellation or error it returns
// the results of the episodes that completed along with the error.
func Run(ctx context.Context, env Env, p policy.Policy, opts Options) ([]Result, error) {
	if opts.Episodes <= 0 {
		opts.Episodes = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	results := make([]Result, 0, opts.Episodes)
	for ep := 0; ep < opts.Episodes; ep++ {
		res, err := runEpisode(ctx, env, p, opts, ep)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		logger.Info("episode finished",
			"episode", res.Episode,
			"steps", res.Steps,
			"reward", res.Reward,
			"terminal", res.Terminal,
			"truncated", res.Truncated,
			"duration", res.Duration.Round(time.Millisecond),
		)
		if opts.OnEpisode != nil {
			if err := opts.OnEpisode(res); err != nil {
				return results, fmt.Errorf("runner: episode %d sink: %w", ep, err)
			}
		}
	}
	return results, nil
}

func runEpisode(ctx context.Context, env Env, p policy.Policy, opts Options, ep int) (Result, error) {
	res := Result{
		ID:      uuid.New(),
		EnvID:   opts.EnvID,
		Policy:  p.Name(),
		Episode: ep,
		Seed:    opts.Seed + int64(ep),
	}
	start := time.Now()

	obs, err := env.Reset(ctx, res.Seed)
	if err != nil {
		return res, fmt.Errorf("runner: episode %d reset: %w", ep, err)
	}
	if opts.Recorder != nil {
		if err := opts.Recorder.BeginEpisode(res.ID, res.Seed); err != nil {
			return res, fmt.Errorf("runner: episode %d record: %w", ep, err)
		}
	}
	renderer, _ := env.(Renderer)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if opts.MaxSteps > 0 && res.Steps >= opts.MaxSteps {
			res.Truncated = true
			break
		}

		a, err := p.Act(obs)
		if err != nil {
			return res, fmt.Errorf("runner: episode %d step %d: %w", ep, res.Steps, err)
		}
		step, err := env.Step(ctx, a)
		if err != nil {
			return res, fmt.Errorf("runner: episode %d step %d: %w", ep, res.Steps, err)
		}
		res.Steps++
		res.Reward += step.Reward
		obs = step.Observation

		if opts.Recorder != nil {
			if err := opts.Recorder.RecordStep(uint64(res.Steps), a, step); err != nil {
				return res, fmt.Errorf("runner: episode %d record: %w", ep, err)
			}
		}
		if opts.Render && renderer != nil {
			if err := renderer.Render(); err != nil && !errors.Is(err, sim.ErrClosed) {
				return res, fmt.Errorf("runner: render: %w", err)
			}
		}
		if step.Terminal {
			res.Terminal = true
			break
		}
	}

	res.Duration = time.Since(start)
	if opts.Recorder != nil {
		if err := opts.Recorder.EndEpisode(res); err != nil {
			return res, fmt.Errorf("runner: episode %d record: %w", ep, err)
		}
	}
	return res, nil
}
