package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/skyrocket/internal/core"
)

// PlayKeyMap defines the key bindings for interactive play.
type PlayKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Pause   key.Binding
	Restart key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Pause, k.Restart, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/w", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/s", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/a", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/d", "right")),
		Pause:   key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Control is a non-movement command derived from input.
type Control int

const (
	ControlNone Control = iota
	ControlPause
	ControlRestart
	ControlBack
	ControlQuit
)

// MapKey translates a key message to a craft action or a control.
// Unbound keys map to (ActionNoop, ControlNone).
func (k PlayKeyMap) MapKey(msg tea.KeyMsg) (core.Action, Control) {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionNoop, ControlQuit
	case key.Matches(msg, k.Back):
		return core.ActionNoop, ControlBack
	case key.Matches(msg, k.Pause):
		return core.ActionNoop, ControlPause
	case key.Matches(msg, k.Restart):
		return core.ActionNoop, ControlRestart
	case key.Matches(msg, k.Up):
		return core.ActionUp, ControlNone
	case key.Matches(msg, k.Down):
		return core.ActionDown, ControlNone
	case key.Matches(msg, k.Left):
		return core.ActionLeft, ControlNone
	case key.Matches(msg, k.Right):
		return core.ActionRight, ControlNone
	}
	return core.ActionNoop, ControlNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionScores
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionScores
	}
	return MenuActionNone
}
