package core

import "fmt"

// Action is a discrete control input for the craft.
// The action space is the closed set {0,1,2,3,4}.
type Action int

const (
	ActionNoop  Action = iota // keep position
	ActionUp                  // move up one step
	ActionDown                // move down one step
	ActionLeft                // move left one step
	ActionRight               // move right one step
)

// ActionCount is the size of the discrete action space.
const ActionCount = 5

// Valid reports whether the action belongs to the action space.
func (a Action) Valid() bool {
	return a >= ActionNoop && a <= ActionRight
}

// Delta returns the unit displacement for the action.
// Invalid actions yield (0, 0); callers validate first.
func (a Action) Delta() (dx, dy int) {
	switch a {
	case ActionUp:
		return 0, -1
	case ActionDown:
		return 0, 1
	case ActionLeft:
		return -1, 0
	case ActionRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNoop:
		return "Noop"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction converts an integer from an external driver into an Action.
// It performs no validation; use Valid.
func ParseAction(n int) Action {
	return Action(n)
}
