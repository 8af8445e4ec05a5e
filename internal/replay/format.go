// Package replay records episodes as zstd-compressed JSON lines and plays
// them back. A file holds one episode: a header line followed by one frame
// per step. Because the environment is deterministic given its seed, the
// actions alone reproduce the episode.
package replay

import (
	"errors"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
)

// Version is the current file format version.
const Version = 1

// Ext is the file extension used for recordings.
const Ext = ".jsonl.zst"

var (
	// ErrBadReplay is returned for malformed or unsupported recordings.
	ErrBadReplay = errors.New("replay: malformed recording")
	// ErrMismatch is returned by Verify when re-simulation diverges.
	ErrMismatch = errors.New("replay: simulation diverged from recording")
)

// Header is the first line of a recording.
type Header struct {
	Version int                 `json:"version"`
	ID      string              `json:"id,omitempty"`
	EnvID   string              `json:"env_id"`
	Policy  string              `json:"policy,omitempty"`
	Seed    int64               `json:"seed"`
	Config  config.RocketConfig `json:"config"`
}

// Frame is one recorded step.
type Frame struct {
	Tick     uint64      `json:"tick"`
	Action   core.Action `json:"action"`
	Reward   float64     `json:"reward"`
	Terminal bool        `json:"terminal,omitempty"`
}

// Replay is a fully decoded recording.
type Replay struct {
	Header Header
	Frames []Frame
}

// Steps returns the number of recorded steps.
func (r *Replay) Steps() int {
	return len(r.Frames)
}

// Terminal reports whether the recorded episode ended in a collision.
func (r *Replay) Terminal() bool {
	return len(r.Frames) > 0 && r.Frames[len(r.Frames)-1].Terminal
}
