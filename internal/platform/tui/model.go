package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/registry"
	"github.com/vovakirdan/skyrocket/internal/sim"
	"github.com/vovakirdan/skyrocket/internal/storage"
)

// PlayModel is the Bubble Tea model for flying the craft by hand.
// Key presses set the action for the next tick; with no key held the craft
// stays put, as with a Noop action.
type PlayModel struct {
	env      *sim.Env
	envID    string
	renderer *ScreenRenderer
	store    *storage.Store
	player   string
	config   core.RuntimeConfig
	fps      int
	keys     PlayKeyMap
	help     help.Model

	pending    core.Action
	paused     bool
	scoreSaved bool
	quitting   bool
	backToMenu bool
}

// NewPlayModel builds the environment and a model that drives it.
// A zero seed in cfg is replaced with the current time.
func NewPlayModel(envID string, base config.RocketConfig, store *storage.Store, player string, cfg core.RuntimeConfig) (PlayModel, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	renderer := NewScreenRenderer(cfg.ScreenW, max(cfg.ScreenH-1, 1))
	env, err := registry.Create(envID, base,
		sim.WithSeed(cfg.Seed),
		sim.WithRenderer(renderer),
		sim.WithPacer(sim.NewPacer(0)),
	)
	if err != nil {
		return PlayModel{}, err
	}
	env.Reset()

	fps := env.Config().Render.FPS
	if fps <= 0 {
		fps = cfg.FPS
	}
	return PlayModel{
		env:      env,
		envID:    envID,
		renderer: renderer,
		store:    store,
		player:   player,
		config:   cfg,
		fps:      fps,
		keys:     DefaultPlayKeyMap(),
		help:     help.New(),
	}, nil
}

// Init starts the tick loop.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.renderer.Screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, ctrl := m.keys.MapKey(msg)
	over := m.env.Phase() == sim.PhaseTerminated
	switch ctrl {
	case ControlQuit:
		m.quitting = true
		return m, tea.Quit
	case ControlBack:
		if over || m.paused {
			m.backToMenu = true
			return m, tea.Quit
		}
	case ControlPause:
		if !over {
			m.paused = !m.paused
		}
	case ControlRestart:
		if over {
			m.restart()
		}
	case ControlNone:
		if action != core.ActionNoop {
			m.pending = action
		}
	}
	return m, nil
}

// restart starts a fresh episode with a new seed.
func (m *PlayModel) restart() {
	m.config.Seed = time.Now().UnixNano()
	m.env.Seed(m.config.Seed)
	m.env.Reset()
	m.pending = core.ActionNoop
	m.paused = false
	m.scoreSaved = false
}

// handleTick advances the simulation by one step.
func (m PlayModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	if m.paused || m.env.Phase() == sim.PhaseTerminated {
		return m, tickCmd(m.fps)
	}

	res, err := m.env.Step(m.pending)
	m.pending = core.ActionNoop
	if err != nil {
		m.quitting = true
		return m, tea.Quit
	}

	if res.Terminal && !m.scoreSaved {
		if score := int(m.env.Tick()); score > 0 && m.store != nil {
			//nolint:errcheck // Best-effort save, play continues regardless
			m.store.SaveScore(m.envID, m.player, score)
		}
		m.scoreSaved = true
	}
	return m, tickCmd(m.fps)
}

// saveScreenshot saves the current screen to a text file.
func (m *PlayModel) saveScreenshot() {
	//nolint:errcheck // Render only fails after Close
	m.env.Render()

	dir := filepath.Join(os.Getenv("HOME"), ".skyrocket", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.envID, time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save
	os.WriteFile(filepath.Join(dir, filename), []byte(m.renderer.Screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.renderer.Status = m.envID
	if m.paused {
		m.renderer.Status = "PAUSED"
	}
	//nolint:errcheck // Render only fails after Close
	m.env.Render()

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.renderer.Screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Env returns the environment being played.
func (m PlayModel) Env() *sim.Env {
	return m.env
}

// IsQuitting returns true if the user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested to go back to the menu.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// Close releases the environment.
func (m PlayModel) Close() error {
	return m.env.Close()
}

// Run starts an interactive session for one environment.
// Returns true if the user asked to go back to the menu.
func Run(envID string, base config.RocketConfig, store *storage.Store, player string, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model, err := NewPlayModel(envID, base, store, player, cfg)
	if err != nil {
		return false, err
	}
	defer model.Close()

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	if m, ok := finalModel.(PlayModel); ok {
		return m.BackToMenu(), nil
	}
	return false, nil
}
