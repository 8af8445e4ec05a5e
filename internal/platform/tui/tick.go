// Package tui provides the Bubble Tea front end: interactive play, replay
// viewing, score boards and the SSH server that hosts them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultFPS is used when a config disables render pacing.
const defaultFPS = 27

// TickMsg is sent to trigger one simulation step.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick after one frame.
// The terminal loop owns frame pacing, so environments it drives are built
// with a disabled sim pacer.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = defaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
