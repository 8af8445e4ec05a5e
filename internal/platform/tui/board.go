package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/skyrocket/internal/registry"
	"github.com/vovakirdan/skyrocket/internal/storage"
)

// Board layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the environment sidebar
	sidebarWidth       = 24  // Width of the environment sidebar
	maxRows            = 100 // Max rows to load
)

// BoardMode selects what the board lists.
type BoardMode int

const (
	BoardScores   BoardMode = iota // Human play scores
	BoardEpisodes                  // Runner episodes
)

func (m BoardMode) String() string {
	if m == BoardEpisodes {
		return "EPISODES"
	}
	return "HIGH SCORES"
}

// BoardKeyMap defines the key bindings for the board.
type BoardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextEnv key.Binding
	PrevEnv key.Binding
	Mode    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextEnv, k.PrevEnv, k.Mode, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextEnv, k.PrevEnv},
		{k.Mode, k.Back, k.Quit},
	}
}

// DefaultBoardKeyMap returns default key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		NextEnv: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next env")),
		PrevEnv: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev env")),
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "scores/episodes")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// BoardModel lists human high scores or runner episodes per environment.
type BoardModel struct {
	envs        []registry.EnvInfo
	envCursor   int
	mode        BoardMode
	store       *storage.Store
	rows        []table.Row
	table       table.Model
	help        help.Model
	keys        BoardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewBoardModel creates a board starting in the given mode.
func NewBoardModel(store *storage.Store, mode BoardMode, width, height int) BoardModel {
	m := BoardModel{
		envs:        registry.List(),
		mode:        mode,
		store:       store,
		keys:        DefaultBoardKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *BoardModel) columns() []table.Column {
	if m.mode == BoardEpisodes {
		return []table.Column{
			{Title: "#", Width: 4},
			{Title: "Steps", Width: 8},
			{Title: "Policy", Width: 10},
			{Title: "Seed", Width: 10},
			{Title: "Outcome", Width: 10},
			{Title: "When", Width: 14},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Player", Width: 12},
		{Title: "When", Width: 14},
	}
}

// createTable creates a table sized for the current window.
func (m *BoardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load fills the table for the selected environment and mode.
func (m *BoardModel) load() {
	m.rows = nil
	if m.store != nil && len(m.envs) > 0 {
		envID := m.envs[m.envCursor].ID
		if m.mode == BoardEpisodes {
			m.rows = m.episodeRows(envID)
		} else {
			m.rows = m.scoreRows(envID)
		}
	}
	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func (m *BoardModel) scoreRows(envID string) []table.Row {
	scores, err := m.store.TopScores(envID, maxRows)
	if err != nil {
		return nil
	}
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		player := s.Player
		if player == "" {
			player = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			humanize.Comma(int64(s.Score)),
			player,
			humanize.Time(s.CreatedAt),
		}
	}
	return rows
}

func (m *BoardModel) episodeRows(envID string) []table.Row {
	episodes, err := m.store.RecentEpisodes(envID, maxRows)
	if err != nil {
		return nil
	}
	rows := make([]table.Row, len(episodes))
	for i, e := range episodes {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			humanize.Comma(int64(e.Steps)),
			e.Policy,
			fmt.Sprintf("%d", e.Seed),
			outcome(e.Terminal, e.Truncated),
			humanize.Time(e.CreatedAt),
		}
	}
	return rows
}

func outcome(terminal, truncated bool) string {
	switch {
	case terminal:
		return "collision"
	case truncated:
		return "truncated"
	default:
		return "stopped"
	}
}

// Init initializes the board model.
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the board.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextEnv):
			if len(m.envs) > 0 {
				m.envCursor = (m.envCursor + 1) % len(m.envs)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevEnv):
			if len(m.envs) > 0 {
				m.envCursor = (m.envCursor - 1 + len(m.envs)) % len(m.envs)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Mode):
			if m.mode == BoardScores {
				m.mode = BoardEpisodes
			} else {
				m.mode = BoardScores
			}
			m.table = m.createTable()
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the board.
func (m BoardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := m.mode.String()
	if len(m.envs) > 0 {
		title = fmt.Sprintf("%s - %s", m.mode, m.envs[m.envCursor].Title)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", panel.Render(m.renderTableContent())))
	} else {
		current := ""
		if len(m.envs) > 0 {
			current = m.envs[m.envCursor].ID
		}
		b.WriteString(centerText(fmt.Sprintf("< %s >", current), m.width))
		b.WriteString("\n\n")
		b.WriteString(panel.Render(m.renderTableContent()))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderSidebar renders the environment list.
func (m BoardModel) renderSidebar() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString("Environments\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")
	for i, e := range m.envs {
		cursor := "  "
		line := lipgloss.NewStyle()
		if i == m.envCursor {
			cursor = "> "
			line = line.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := e.ID
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sb.WriteString(line.Render(cursor + name))
		sb.WriteString("\n")
	}
	return style.Render(sb.String())
}

// renderTableContent renders the table or an empty message.
func (m BoardModel) renderTableContent() string {
	if len(m.rows) == 0 {
		msg := "No scores recorded yet.\nFly a round to set one!"
		if m.mode == BoardEpisodes {
			msg = "No episodes recorded yet.\nUse `skyrocket run` to add some."
		}
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render(msg)
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m BoardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m BoardModel) IsQuitting() bool {
	return m.quitting
}

// RunBoard runs the board screen.
// Returns true if the user wants to go back to the menu, false if quitting.
func RunBoard(store *storage.Store, mode BoardMode, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewBoardModel(store, mode, width, height), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(BoardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
