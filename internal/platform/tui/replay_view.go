package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/replay"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

const maxReplaySpeed = 16

// ReplayKeyMap defines the key bindings for the replay viewer.
type ReplayKeyMap struct {
	Pause  key.Binding
	Faster key.Binding
	Slower key.Binding
	Rewind key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Faster, k.Slower, k.Rewind, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ReplayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultReplayKeyMap returns default key bindings.
func DefaultReplayKeyMap() ReplayKeyMap {
	return ReplayKeyMap{
		Pause:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Faster: key.NewBinding(key.WithKeys("+", "=", "right"), key.WithHelp("+", "faster")),
		Slower: key.NewBinding(key.WithKeys("-", "left"), key.WithHelp("-", "slower")),
		Rewind: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rewind")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ReplayModel plays a recording back through a fresh environment.
type ReplayModel struct {
	rep      *replay.Replay
	player   *replay.Player
	renderer *ScreenRenderer
	keys     ReplayKeyMap
	help     help.Model
	fps      int
	speed    int // Steps per frame
	paused   bool
	err      error
	quitting bool
}

// NewReplayModel prepares a viewer for the recording.
func NewReplayModel(rep *replay.Replay, cfg core.RuntimeConfig) (ReplayModel, error) {
	renderer := NewScreenRenderer(cfg.ScreenW, max(cfg.ScreenH-1, 1))
	player, err := replay.NewPlayer(rep, sim.WithRenderer(renderer), sim.WithPacer(sim.NewPacer(0)))
	if err != nil {
		return ReplayModel{}, err
	}
	fps := rep.Header.Config.Render.FPS
	if fps <= 0 {
		fps = cfg.FPS
	}
	return ReplayModel{
		rep:      rep,
		player:   player,
		renderer: renderer,
		keys:     DefaultReplayKeyMap(),
		help:     help.New(),
		fps:      fps,
		speed:    1,
	}, nil
}

// Init starts playback.
func (m ReplayModel) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages.
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Faster):
			m.speed = min(m.speed*2, maxReplaySpeed)
		case key.Matches(msg, m.keys.Slower):
			m.speed = max(m.speed/2, 1)
		case key.Matches(msg, m.keys.Rewind):
			m.player.Rewind()
			m.err = nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.renderer.Screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused && m.err == nil {
			for i := 0; i < m.speed && !m.player.Done(); i++ {
				if _, err := m.player.Next(); err != nil {
					m.err = err
					break
				}
			}
		}
		return m, tickCmd(m.fps)
	}
	return m, nil
}

// View renders the current frame.
func (m ReplayModel) View() string {
	if m.quitting {
		return ""
	}

	status := fmt.Sprintf("REPLAY %d/%d x%d", m.player.Pos(), m.rep.Steps(), m.speed)
	switch {
	case m.err != nil:
		status += "  " + m.err.Error()
	case m.paused:
		status += "  PAUSED"
	case m.player.Done():
		status += "  END"
	}
	m.renderer.Status = status
	//nolint:errcheck // Render only fails after Close
	m.player.Env().Render()

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.renderer.Screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// RunReplay opens the replay viewer.
func RunReplay(rep *replay.Replay, cfg core.RuntimeConfig) error {
	model, err := NewReplayModel(rep, cfg)
	if err != nil {
		return err
	}
	defer model.player.Env().Close()

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
