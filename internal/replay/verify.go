package replay

import (
	"fmt"

	"github.com/vovakirdan/skyrocket/internal/sim"
)

// Verify re-simulates the recording from its header and actions and checks
// that every step reproduces the recorded reward and terminal flag.
func Verify(rep *Replay) error {
	p, err := NewPlayer(rep)
	if err != nil {
		return err
	}
	for !p.Done() {
		if _, err := p.Next(); err != nil {
			return err
		}
	}
	return nil
}

// Player steps a fresh environment through a recording one frame at a time.
// The replay viewer renders its Env after every Next.
type Player struct {
	rep *Replay
	env *sim.Env
	pos int
}

// NewPlayer builds the recorded environment and resets it with the recorded
// seed. Extra options (a renderer, for example) are passed to sim.New.
func NewPlayer(rep *Replay, opts ...sim.Option) (*Player, error) {
	env, err := sim.New(rep.Header.Config, append([]sim.Option{sim.WithSeed(rep.Header.Seed)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	env.Reset()
	return &Player{rep: rep, env: env}, nil
}

// Env returns the environment being replayed.
func (p *Player) Env() *sim.Env {
	return p.env
}

// Pos returns the number of frames already applied.
func (p *Player) Pos() int {
	return p.pos
}

// Done reports whether every frame has been applied.
func (p *Player) Done() bool {
	return p.pos >= len(p.rep.Frames)
}

// Next applies the next recorded action and checks the outcome.
func (p *Player) Next() (sim.StepResult, error) {
	if p.Done() {
		return sim.StepResult{}, fmt.Errorf("replay: no frames left")
	}
	fr := p.rep.Frames[p.pos]
	res, err := p.env.Step(fr.Action)
	if err != nil {
		return res, fmt.Errorf("%w at tick %d: %v", ErrMismatch, fr.Tick, err)
	}
	p.pos++
	if res.Terminal != fr.Terminal || res.Reward != fr.Reward {
		return res, fmt.Errorf("%w at tick %d: terminal=%v reward=%v, recorded terminal=%v reward=%v",
			ErrMismatch, fr.Tick, res.Terminal, res.Reward, fr.Terminal, fr.Reward)
	}
	return res, nil
}

// Rewind restarts playback from the first frame.
func (p *Player) Rewind() {
	p.env.Seed(p.rep.Header.Seed)
	p.env.Reset()
	p.pos = 0
}
