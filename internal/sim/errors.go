package sim

import "errors"

var (
	// ErrInvalidAction is returned by Step for an action outside {0,1,2,3,4}.
	// No state is mutated.
	ErrInvalidAction = errors.New("invalid action")

	// ErrStepAfterTerminal is returned by Step once the episode has ended.
	// Call Reset to start a new episode.
	ErrStepAfterTerminal = errors.New("step after terminal")

	// ErrNotReset is returned by Step before the first Reset.
	ErrNotReset = errors.New("environment not reset")

	// ErrInternalConsistency marks a broken invariant (observation size,
	// pool capacity). It is fatal for the episode and never masked.
	ErrInternalConsistency = errors.New("internal consistency violation")

	// ErrClosed is returned by Render and Close after Close.
	ErrClosed = errors.New("environment closed")
)
