// Package ws exposes environments over a websocket so that remote drivers
// (training loops in other processes or languages) can reset and step them.
// Each connection owns one environment; messages are JSON objects with a
// "type" field and every request gets exactly one response.
package ws

import (
	"errors"

	"github.com/vovakirdan/skyrocket/internal/sim"
)

// Request types.
const (
	TypeReset = "reset"
	TypeStep  = "step"
	TypeSpec  = "spec"
	TypeClose = "close"
)

// Response types.
const (
	TypeObs    = "obs"
	TypeError  = "error"
	TypeClosed = "closed"
)

// Error codes carried in error responses.
const (
	ErrCodeBadRequest        = "E_BAD_REQUEST"
	ErrCodeInvalidAction     = "E_INVALID_ACTION"
	ErrCodeStepAfterTerminal = "E_STEP_AFTER_TERMINAL"
	ErrCodeNotReset          = "E_NOT_RESET"
	ErrCodeInternal          = "E_INTERNAL"
)

// Request is a client message.
type Request struct {
	Type   string `json:"type"`
	Action *int   `json:"action,omitempty"` // step only
	Seed   *int64 `json:"seed,omitempty"`   // reset only, omitted keeps the current random stream
}

// Response is a server message.
type Response struct {
	Type        string         `json:"type"`
	Observation []float64      `json:"observation,omitempty"`
	Reward      float64        `json:"reward,omitempty"`
	Terminal    bool           `json:"terminal,omitempty"`
	Tick        uint64         `json:"tick,omitempty"`
	Info        map[string]any `json:"info,omitempty"`
	Spec        *Spec          `json:"spec,omitempty"`
	Code        string         `json:"code,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// Spec describes the environment served on a connection.
type Spec struct {
	EnvID           string `json:"env_id"`
	ObservationSize int    `json:"observation_size"`
	ActionCount     int    `json:"action_count"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	MaxHazards      int    `json:"max_hazards"`
}

// codeFor maps environment errors to wire codes.
func codeFor(err error) string {
	switch {
	case errors.Is(err, sim.ErrInvalidAction):
		return ErrCodeInvalidAction
	case errors.Is(err, sim.ErrStepAfterTerminal):
		return ErrCodeStepAfterTerminal
	case errors.Is(err, sim.ErrNotReset):
		return ErrCodeNotReset
	default:
		return ErrCodeInternal
	}
}

// RemoteError is an error response received by the client.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return "ws: remote " + e.Code + ": " + e.Message
}

// Unwrap maps wire codes back to the environment's sentinel errors so callers
// can use errors.Is on remote failures.
func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case ErrCodeInvalidAction:
		return sim.ErrInvalidAction
	case ErrCodeStepAfterTerminal:
		return sim.ErrStepAfterTerminal
	case ErrCodeNotReset:
		return sim.ErrNotReset
	case ErrCodeInternal:
		return sim.ErrInternalConsistency
	default:
		return nil
	}
}
