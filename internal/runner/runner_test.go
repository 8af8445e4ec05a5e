package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/policy"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

func newLocal(t *testing.T, mutate func(*config.RocketConfig)) Local {
	t.Helper()
	cfg := config.DefaultRocketConfig()
	cfg.Render.FPS = 0
	if mutate != nil {
		mutate(&cfg)
	}
	env, err := sim.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return Local{Env: env}
}

type countingRecorder struct {
	begins, steps, ends int
	lastTick            uint64
}

func (r *countingRecorder) BeginEpisode(uuid.UUID, int64) error { r.begins++; return nil }
func (r *countingRecorder) RecordStep(tick uint64, _ core.Action, _ sim.StepResult) error {
	r.steps++
	r.lastTick = tick
	return nil
}
func (r *countingRecorder) EndEpisode(Result) error { r.ends++; return nil }

func TestRunTruncates(t *testing.T) {
	env := newLocal(t, func(c *config.RocketConfig) { c.Hazards.Interval = 0 })
	rec := &countingRecorder{}

	results, err := Run(context.Background(), env, policy.NewRandom(1), Options{
		Episodes: 3,
		MaxSteps: 50,
		Seed:     10,
		Recorder: rec,
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, expected 3", len(results))
	}
	for i, r := range results {
		if r.Steps != 50 || !r.Truncated || r.Terminal {
			t.Errorf("episode %d: steps=%d truncated=%v terminal=%v", i, r.Steps, r.Truncated, r.Terminal)
		}
		if r.Reward != 50 {
			t.Errorf("episode %d: reward = %v, expected 50", i, r.Reward)
		}
		if r.Seed != 10+int64(i) || r.Episode != i {
			t.Errorf("episode %d: seed=%d episode=%d", i, r.Seed, r.Episode)
		}
		if r.ID == uuid.Nil || r.Policy != "random" {
			t.Errorf("episode %d: id=%v policy=%q", i, r.ID, r.Policy)
		}
	}
	if rec.begins != 3 || rec.ends != 3 || rec.steps != 150 || rec.lastTick != 50 {
		t.Errorf("recorder saw %d/%d/%d (last tick %d)", rec.begins, rec.steps, rec.ends, rec.lastTick)
	}
}

func TestRunStopsAtTerminal(t *testing.T) {
	env := newLocal(t, func(c *config.RocketConfig) {
		config.ApplyPreset(c, config.DifficultyGym)
	})

	var sunk []Result
	results, err := Run(context.Background(), env, policy.NewRandom(3), Options{
		Episodes:  2,
		Seed:      1,
		OnEpisode: func(r Result) error { sunk = append(sunk, r); return nil },
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	for i, r := range results {
		if !r.Terminal || r.Truncated {
			t.Errorf("episode %d: terminal=%v truncated=%v", i, r.Terminal, r.Truncated)
		}
		if r.Reward != float64(r.Steps) {
			t.Errorf("episode %d: reward %v != steps %d", i, r.Reward, r.Steps)
		}
	}
	if len(sunk) != len(results) {
		t.Errorf("OnEpisode called %d times, expected %d", len(sunk), len(results))
	}
}

func TestRunIsReproducible(t *testing.T) {
	run := func() []Result {
		env := newLocal(t, func(c *config.RocketConfig) {
			config.ApplyPreset(c, config.DifficultyGym)
		})
		res, err := Run(context.Background(), env, policy.NewRandom(9), Options{Episodes: 3, Seed: 77})
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	a, b := run(), run()
	for i := range a {
		if a[i].Steps != b[i].Steps {
			t.Errorf("episode %d: %d vs %d steps with the same seeds", i, a[i].Steps, b[i].Steps)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	env := newLocal(t, func(c *config.RocketConfig) { c.Hazards.Interval = 0 })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, env, policy.NewRandom(1), Options{Episodes: 2})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results from a cancelled run", len(results))
	}
}

type failingPolicy struct{}

func (failingPolicy) Name() string { return "fail" }
func (failingPolicy) Act(sim.Observation) (core.Action, error) {
	return core.ActionNoop, errors.New("no idea")
}

func TestRunPolicyError(t *testing.T) {
	env := newLocal(t, nil)
	if _, err := Run(context.Background(), env, failingPolicy{}, Options{}); err == nil {
		t.Error("Run() should surface policy errors")
	}
}

func TestRunSinkError(t *testing.T) {
	env := newLocal(t, func(c *config.RocketConfig) { c.Hazards.Interval = 0 })
	boom := errors.New("disk full")
	results, err := Run(context.Background(), env, policy.NewRandom(1), Options{
		Episodes:  3,
		MaxSteps:  5,
		OnEpisode: func(Result) error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, expected sink error", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, expected the first episode only", len(results))
	}
}
