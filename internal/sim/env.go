package sim

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
)

// Phase is the environment's lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota // constructed, Reset not called yet
	PhaseReady                      // reset, no step taken
	PhaseRunning                    // at least one step taken, not terminal
	PhaseTerminated                 // craft collided; only Reset is valid
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseReady:
		return "ready"
	case PhaseRunning:
		return "running"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// StepResult is returned by Step after each tick.
type StepResult struct {
	Observation Observation
	Reward      float64
	Terminal    bool
	Info        map[string]any
}

// Env is one rocket environment. It is owned by a single driver and is not
// safe for concurrent use; run independent Env values for parallel episodes.
type Env struct {
	cfg       config.RocketConfig
	rng       *rand.Rand
	spawn     spawner
	scheduler *Scheduler
	pool      *Pool
	encoder   Encoder
	renderer  Renderer
	pacer     *Pacer

	craft      core.Rect
	craftAlive bool
	phase      Phase
	tick       uint64
	fault      error // sticky internal-consistency failure
	closed     bool
}

// Option configures an Env at construction.
type Option func(*Env)

// WithSeed seeds the environment's random source.
func WithSeed(seed int64) Option {
	return func(e *Env) {
		e.Seed(seed)
	}
}

// WithRenderer attaches the renderer used by Render.
func WithRenderer(r Renderer) Option {
	return func(e *Env) {
		e.renderer = r
	}
}

// WithPacer replaces the frame pacer derived from the render config.
func WithPacer(p *Pacer) Option {
	return func(e *Env) {
		e.pacer = p
	}
}

// New creates an environment from a validated configuration.
// The environment must be Reset before the first Step.
func New(cfg config.RocketConfig, opts ...Option) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	e := &Env{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(0)),
		scheduler: NewScheduler(cfg.Hazards.Interval, cfg.Decorations.Interval),
		pool:      NewPool(cfg.Hazards.Max, cfg.Decorations.Max),
		encoder:   NewEncoder(cfg.Hazards.Max),
		pacer:     NewPacer(cfg.Render.FPS),
	}
	e.spawn = spawner{cfg: &e.cfg, rng: e.rng}

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Seed reseeds the random source used for spawn positions and speeds.
// Seeding before Reset makes the following episode reproducible.
func (e *Env) Seed(seed int64) {
	e.rng.Seed(seed)
}

// Reset discards the current episode and starts a new one: the craft returns
// to its start position, the pool empties, the scheduler counters and the
// terminal flag clear. It always succeeds.
func (e *Env) Reset() Observation {
	c := e.cfg.Craft
	e.craft = clampCraft(core.NewRect(c.StartX, c.StartY, c.Width, c.Height), e.cfg.Playfield.Width, e.cfg.Playfield.Height)
	e.craftAlive = true
	e.pool.Clear()
	e.scheduler.Reset()
	e.tick = 0
	e.fault = nil
	e.phase = PhaseReady

	obs, err := e.encoder.Encode(e.craft, e.pool.Hazards())
	if err != nil {
		// An empty pool always fits.
		panic(err)
	}
	return obs
}

// Step advances the episode by one tick.
//
// Order: spawn decision and admission, craft move and clamp, pool motion and
// culling, collision check, reward, observation. The reward is 1 for every
// tick, including the one that ends the episode. Invalid actions and steps on
// a finished episode are rejected before any state changes.
func (e *Env) Step(a core.Action) (StepResult, error) {
	switch {
	case e.fault != nil:
		return StepResult{}, e.fault
	case e.phase == PhaseUninitialized:
		return StepResult{}, fmt.Errorf("sim: step before reset: %w", ErrNotReset)
	case e.phase == PhaseTerminated:
		return StepResult{}, fmt.Errorf("sim: episode ended at tick %d, call Reset: %w", e.tick, ErrStepAfterTerminal)
	case !a.Valid():
		return StepResult{}, fmt.Errorf("sim: action %d not in action space: %w", int(a), ErrInvalidAction)
	}

	// (1) spawn
	due := e.scheduler.Tick()
	if due.Hazard {
		e.pool.Admit(e.spawn.hazard())
	}
	if due.Decoration {
		e.pool.Admit(e.spawn.decoration())
	}

	// (2) craft
	e.craft = moveCraft(e.craft, a, e.cfg.Craft.Step, e.cfg.Playfield.Width, e.cfg.Playfield.Height)

	// (3) pool
	e.pool.Update()
	if err := e.pool.Check(); err != nil {
		e.fault = err
		return StepResult{}, err
	}

	// (4) collision
	e.tick++
	e.phase = PhaseRunning
	if e.pool.CollidesWith(e.craft) {
		e.craftAlive = false
		e.phase = PhaseTerminated
	}

	// (5)-(7)
	obs, err := e.encoder.Encode(e.craft, e.pool.Hazards())
	if err != nil {
		e.fault = err
		return StepResult{}, err
	}
	return StepResult{
		Observation: obs,
		Reward:      1,
		Terminal:    e.phase == PhaseTerminated,
		Info:        map[string]any{},
	}, nil
}

// Inject admits an externally constructed hazard or decoration through the
// pool's normal cap policy. Drivers use it to script scenarios.
func (e *Env) Inject(ent Entity) bool {
	if e.phase == PhaseUninitialized || e.phase == PhaseTerminated {
		return false
	}
	return e.pool.Admit(ent)
}

// DrawList returns the current frame description without mutating state.
func (e *Env) DrawList() DrawList {
	dl := DrawList{
		Width:  e.cfg.Playfield.Width,
		Height: e.cfg.Playfield.Height,
		Tick:   e.tick,
		Score:  int(e.tick),
		Over:   e.phase == PhaseTerminated,
		Items:  make([]DrawItem, 0, e.pool.Len(KindHazard)+e.pool.Len(KindDecoration)+1),
	}
	for _, d := range e.pool.Decorations() {
		dl.Items = append(dl.Items, DrawItem{Kind: d.Kind, Rect: d.Rect})
	}
	for _, h := range e.pool.Hazards() {
		dl.Items = append(dl.Items, DrawItem{Kind: h.Kind, Rect: h.Rect})
	}
	if e.craftAlive && e.phase != PhaseUninitialized {
		dl.Items = append(dl.Items, DrawItem{Kind: KindCraft, Rect: e.craft})
	}
	return dl
}

// Render hands the current draw list to the renderer and then waits for the
// configured frame interval. Without a renderer only the pacing happens.
func (e *Env) Render() error {
	if e.closed {
		return ErrClosed
	}
	if e.renderer != nil {
		if err := e.renderer.Draw(e.DrawList()); err != nil {
			return fmt.Errorf("sim: render: %w", err)
		}
	}
	e.pacer.Wait()
	return nil
}

// Close releases the renderer if it holds resources. Close is a single-use
// teardown: calling it again returns ErrClosed.
func (e *Env) Close() error {
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	r := e.renderer
	e.renderer = nil
	if c, ok := r.(io.Closer); ok {
		if err := c.Close(); err != nil && !errors.Is(err, ErrClosed) {
			return fmt.Errorf("sim: close renderer: %w", err)
		}
	}
	return nil
}

// Phase returns the lifecycle state.
func (e *Env) Phase() Phase {
	return e.phase
}

// Tick returns the number of steps taken in the current episode.
func (e *Env) Tick() uint64 {
	return e.tick
}

// Craft returns the craft entity and whether it is still alive.
// A removed craft keeps its last position.
func (e *Env) Craft() (Entity, bool) {
	return Entity{Kind: KindCraft, Rect: e.craft}, e.craftAlive
}

// Pool exposes the live entity pool for inspection.
func (e *Env) Pool() *Pool {
	return e.pool
}

// Scheduler exposes the spawn scheduler for inspection.
func (e *Env) Scheduler() *Scheduler {
	return e.scheduler
}

// Config returns the environment's configuration.
func (e *Env) Config() config.RocketConfig {
	return e.cfg
}

// ObservationSize returns the observation length, 2*max_hazards + 2.
func (e *Env) ObservationSize() int {
	return e.encoder.Size()
}

// ActionCount returns the size of the discrete action space.
func (e *Env) ActionCount() int {
	return core.ActionCount
}
