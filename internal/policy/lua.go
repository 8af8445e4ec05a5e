package policy

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

// Lua runs a script that defines a global act(obs) function returning an
// action number. The observation is passed as a table:
//
//	obs.craft   = {x = ..., y = ...}
//	obs.hazards = { {x = ..., y = ...}, ... }   -- live hazards only
//	obs.raw     = { ... }                       -- the full vector, 1-based
//
// Globals WIDTH, HEIGHT, CRAFT_W, CRAFT_H, HAZARD_W, HAZARD_H and the
// action constants NOOP, UP, DOWN, LEFT, RIGHT are set before the script runs.
// A Lua policy owns a VM and is not safe for concurrent use.
type Lua struct {
	vm   *lua.LState
	name string
}

// NewLuaFile loads a policy script from disk.
func NewLuaFile(path string, cfg config.RocketConfig) (*Lua, error) {
	p := newLua("lua:"+path, cfg)
	if err := p.vm.DoFile(path); err != nil {
		p.vm.Close()
		return nil, fmt.Errorf("policy: load %s: %w", path, err)
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewLuaString loads a policy from source text.
func NewLuaString(src string, cfg config.RocketConfig) (*Lua, error) {
	p := newLua("lua", cfg)
	if err := p.vm.DoString(src); err != nil {
		p.vm.Close()
		return nil, fmt.Errorf("policy: load script: %w", err)
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	return p, nil
}

func newLua(name string, cfg config.RocketConfig) *Lua {
	vm := lua.NewState()
	globals := map[string]int{
		"WIDTH":    cfg.Playfield.Width,
		"HEIGHT":   cfg.Playfield.Height,
		"CRAFT_W":  cfg.Craft.Width,
		"CRAFT_H":  cfg.Craft.Height,
		"HAZARD_W": cfg.Hazards.Width,
		"HAZARD_H": cfg.Hazards.Height,
		"NOOP":     int(core.ActionNoop),
		"UP":       int(core.ActionUp),
		"DOWN":     int(core.ActionDown),
		"LEFT":     int(core.ActionLeft),
		"RIGHT":    int(core.ActionRight),
	}
	for k, v := range globals {
		vm.SetGlobal(k, lua.LNumber(v))
	}
	return &Lua{vm: vm, name: name}
}

func (p *Lua) check() error {
	if p.vm.GetGlobal("act").Type() != lua.LTFunction {
		p.vm.Close()
		return errors.New("policy: script does not define act(obs)")
	}
	return nil
}

func (p *Lua) Name() string { return p.name }

func (p *Lua) Act(obs sim.Observation) (core.Action, error) {
	if err := p.vm.CallByParam(lua.P{
		Fn:      p.vm.GetGlobal("act"),
		NRet:    1,
		Protect: true,
	}, p.table(obs)); err != nil {
		return core.ActionNoop, fmt.Errorf("policy: act: %w", err)
	}
	ret := p.vm.Get(-1)
	p.vm.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return core.ActionNoop, fmt.Errorf("policy: act returned %s, expected a number", ret.Type())
	}
	a := core.Action(int(n))
	if !a.Valid() || lua.LNumber(int(n)) != n {
		return core.ActionNoop, fmt.Errorf("policy: act returned %v: %w", n, sim.ErrInvalidAction)
	}
	return a, nil
}

func (p *Lua) table(obs sim.Observation) *lua.LTable {
	t := p.vm.NewTable()

	x, y := obs.Craft()
	craft := p.vm.NewTable()
	craft.RawSetString("x", lua.LNumber(x))
	craft.RawSetString("y", lua.LNumber(y))
	t.RawSetString("craft", craft)

	hazards := p.vm.NewTable()
	for i := 0; i < obs.Slots(); i++ {
		hx, hy := obs.Hazard(i)
		if hx == 0 && hy == 0 {
			break
		}
		h := p.vm.NewTable()
		h.RawSetString("x", lua.LNumber(hx))
		h.RawSetString("y", lua.LNumber(hy))
		hazards.Append(h)
	}
	t.RawSetString("hazards", hazards)

	raw := p.vm.NewTable()
	for _, v := range obs {
		raw.Append(lua.LNumber(v))
	}
	t.RawSetString("raw", raw)
	return t
}

// Close releases the Lua VM.
func (p *Lua) Close() error {
	p.vm.Close()
	return nil
}
