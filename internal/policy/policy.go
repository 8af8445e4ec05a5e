// Package policy provides action-selection strategies for driving an
// environment: a seeded random baseline, a dodging heuristic and Lua scripts.
package policy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

// ErrUnknownPolicy is returned by New for an unrecognized name.
var ErrUnknownPolicy = errors.New("policy: unknown policy")

// Policy chooses the next action from an observation.
type Policy interface {
	Name() string
	Act(obs sim.Observation) (core.Action, error)
}

// Options configures policy construction.
type Options struct {
	Seed   int64               // Random source seed
	Script string              // Lua script path, required by "lua"
	Config config.RocketConfig // Geometry used by heuristics
}

// Names lists the policies New understands.
func Names() []string {
	names := []string{"random", "dodge", "lua"}
	sort.Strings(names)
	return names
}

// New builds a policy by name.
func New(name string, opts Options) (Policy, error) {
	switch name {
	case "random":
		return NewRandom(opts.Seed), nil
	case "dodge":
		return NewDodge(opts.Config), nil
	case "lua":
		if opts.Script == "" {
			return nil, errors.New("policy: lua policy needs a script path")
		}
		return NewLuaFile(opts.Script, opts.Config)
	default:
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownPolicy, name, Names())
	}
}
