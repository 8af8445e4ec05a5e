package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	_ "github.com/vovakirdan/skyrocket/internal/envs/rocket"
	"github.com/vovakirdan/skyrocket/internal/sim"
	"github.com/vovakirdan/skyrocket/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1}
}

func TestScaleRect(t *testing.T) {
	tests := []struct {
		name string
		in   core.Rect
		want core.Rect
	}{
		{"craft at origin", core.NewRect(0, 0, 60, 24), core.NewRect(0, 0, 6, 1)},
		{"sub-cell entity still visible", core.NewRect(10, 10, 1, 1), core.NewRect(1, 0, 1, 1)},
		{"whole playfield", core.NewRect(0, 0, 800, 600), core.NewRect(0, 0, 80, 23)},
		{"past the right edge", core.NewRect(790, 0, 40, 12), core.NewRect(79, 0, 4, 1)},
		{"past the left edge", core.NewRect(-30, 0, 40, 12), core.NewRect(-3, 0, 4, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scaleRect(tt.in, 800, 600, 80, 23); got != tt.want {
				t.Errorf("scaleRect(%v) = %v, expected %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestScreenRendererDraw(t *testing.T) {
	r := NewScreenRenderer(80, 24)
	err := r.Draw(sim.DrawList{
		Width:  800,
		Height: 600,
		Score:  42,
		Items: []sim.DrawItem{
			{Kind: sim.KindDecoration, Rect: core.NewRect(400, 300, 90, 36)},
			{Kind: sim.KindHazard, Rect: core.NewRect(200, 0, 40, 12)},
			{Kind: sim.KindCraft, Rect: core.NewRect(0, 0, 60, 24)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	cells := []struct {
		name  string
		x, y  int
		rune  rune
		color core.Color
	}{
		{"craft body", 1, 0, '█', core.ColorCraft},
		{"craft nose", 5, 0, '▶', core.ColorCraftNose},
		{"missile nose", 20, 0, '<', core.ColorMissileNose},
		{"missile body", 21, 0, '=', core.ColorMissile},
		{"cloud", 41, 11, '░', core.ColorCloud},
	}
	for _, c := range cells {
		got := r.Screen.GetCell(c.x, c.y)
		if got.Rune != c.rune || got.Color != c.color {
			t.Errorf("%s at (%d,%d) = %q/%v, expected %q/%v", c.name, c.x, c.y, got.Rune, got.Color, c.rune, c.color)
		}
	}
	if row := r.Screen.Row(23); !strings.Contains(row, "Score: 42") {
		t.Errorf("status line = %q, expected score", row)
	}
	if strings.Contains(r.Screen.String(), "GAME OVER") {
		t.Error("GAME OVER banner shown for a running episode")
	}
}

func TestScreenRendererGameOver(t *testing.T) {
	r := NewScreenRenderer(80, 24)
	r.Status = "rocket"
	if err := r.Draw(sim.DrawList{Width: 800, Height: 600, Over: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(r.Screen.String(), "GAME OVER") {
		t.Error("expected GAME OVER banner")
	}
	if row := r.Screen.Row(23); !strings.Contains(row, "rocket") {
		t.Errorf("status line = %q, expected status text", row)
	}
}

func TestScreenRendererTinyScreen(t *testing.T) {
	r := NewScreenRenderer(10, 1)
	dl := sim.DrawList{Width: 800, Height: 600, Items: []sim.DrawItem{{Kind: sim.KindCraft, Rect: core.NewRect(0, 0, 60, 24)}}}
	if err := r.Draw(dl); err != nil {
		t.Errorf("Draw() on a one-row screen = %v", err)
	}
}

func TestMapKey(t *testing.T) {
	keys := DefaultPlayKeyMap()
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		ctrl   Control
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, ControlNone},
		{"w", runes("w"), core.ActionUp, ControlNone},
		{"j", runes("j"), core.ActionDown, ControlNone},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, ControlNone},
		{"d", runes("d"), core.ActionRight, ControlNone},
		{"space pauses", tea.KeyMsg{Type: tea.KeySpace}, core.ActionNoop, ControlPause},
		{"r", runes("r"), core.ActionNoop, ControlRestart},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionNoop, ControlBack},
		{"q", runes("q"), core.ActionNoop, ControlQuit},
		{"unbound", runes("x"), core.ActionNoop, ControlNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, c := keys.MapKey(tt.msg)
			if a != tt.action || c != tt.ctrl {
				t.Errorf("MapKey(%s) = (%v, %v), expected (%v, %v)", tt.msg, a, c, tt.action, tt.ctrl)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runes("j"), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScores},
		{runes("q"), MenuActionQuit},
		{runes("z"), MenuActionNone},
	}
	for _, tt := range tests {
		if got := MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%s) = %v, expected %v", tt.msg, got, tt.want)
		}
	}
}

func newTestPlay(t *testing.T, store *storage.Store) PlayModel {
	t.Helper()
	m, err := NewPlayModel("rocket", config.DefaultRocketConfig(), store, "tester", testRuntime())
	if err != nil {
		t.Fatalf("NewPlayModel() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func update(t *testing.T, m tea.Model, msgs ...tea.Msg) (tea.Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func TestPlayModelStepsOnTick(t *testing.T) {
	m := newTestPlay(t, nil)
	step := m.Env().Config().Craft.Step

	next, _ := update(t, m, runes("s"), TickMsg{})
	pm := next.(PlayModel)
	craft, _ := pm.Env().Craft()
	if pm.Env().Tick() != 1 || craft.Rect.Y != step {
		t.Fatalf("after down+tick: tick=%d y=%d, expected 1 and %d", pm.Env().Tick(), craft.Rect.Y, step)
	}

	// The pending action is consumed by one tick.
	next, _ = update(t, pm, TickMsg{})
	pm = next.(PlayModel)
	craft, _ = pm.Env().Craft()
	if pm.Env().Tick() != 2 || craft.Rect.Y != step {
		t.Errorf("after idle tick: tick=%d y=%d, expected 2 and %d", pm.Env().Tick(), craft.Rect.Y, step)
	}
}

func TestPlayModelPause(t *testing.T) {
	m := newTestPlay(t, nil)
	next, _ := update(t, m, runes("p"), TickMsg{}, TickMsg{})
	pm := next.(PlayModel)
	if pm.Env().Tick() != 0 {
		t.Errorf("paused model stepped to tick %d", pm.Env().Tick())
	}
	if !strings.Contains(pm.View(), "PAUSED") {
		t.Error("paused view should say PAUSED")
	}

	next, _ = update(t, pm, runes("p"), TickMsg{})
	if tick := next.(PlayModel).Env().Tick(); tick != 1 {
		t.Errorf("resumed model tick = %d, expected 1", tick)
	}
}

func TestPlayModelBack(t *testing.T) {
	m := newTestPlay(t, nil)

	next, _ := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if next.(PlayModel).BackToMenu() {
		t.Fatal("back should be ignored while flying")
	}

	next, cmd := update(t, next, runes("p"), tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(PlayModel).BackToMenu() {
		t.Error("back should be accepted while paused")
	}
	if cmd == nil {
		t.Error("back should end the program")
	}
}

func TestPlayModelCollisionSavesScoreAndRestarts(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m := newTestPlay(t, store)
	next, _ := update(t, m, TickMsg{}, TickMsg{})
	pm := next.(PlayModel)

	craft, _ := pm.Env().Craft()
	if !pm.Env().Inject(sim.Entity{Kind: sim.KindHazard, Rect: craft.Rect}) {
		t.Fatal("Inject() failed")
	}
	next, _ = update(t, pm, TickMsg{}, TickMsg{})
	pm = next.(PlayModel)
	if pm.Env().Phase() != sim.PhaseTerminated {
		t.Fatalf("phase = %v, expected terminated", pm.Env().Phase())
	}

	scores, err := store.TopScores("rocket", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].Score != 3 || scores[0].Player != "tester" {
		t.Errorf("scores = %+v, expected one score of 3 by tester", scores)
	}

	next, _ = update(t, pm, runes("r"))
	pm = next.(PlayModel)
	if pm.Env().Phase() == sim.PhaseTerminated || pm.Env().Tick() != 0 {
		t.Errorf("after restart: phase=%v tick=%d", pm.Env().Phase(), pm.Env().Tick())
	}
}

func TestMenuModel(t *testing.T) {
	m := NewMenuModel(nil, testRuntime())
	if len(m.items) < 3 {
		t.Fatalf("menu lists %d envs, expected the rocket variants", len(m.items))
	}

	next, _ := update(t, m, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	mm := next.(MenuModel)
	if mm.Selected() == nil || mm.Selected().ID != m.items[1].ID {
		t.Errorf("Selected() = %v, expected %s", mm.Selected(), m.items[1].ID)
	}

	next, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}, tea.KeyMsg{Type: tea.KeyTab})
	mm = next.(MenuModel)
	if !mm.WantsBoard() {
		t.Error("tab should open the board")
	}
	if cfg := mm.Config(); cfg.ScreenW != 100 || cfg.ScreenH != 30 {
		t.Errorf("Config() = %+v, expected resized", cfg)
	}
}

func TestBoardModel(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, err := store.SaveScore("rocket", "alice", 120); err != nil {
		t.Fatal(err)
	}

	m := NewBoardModel(store, BoardScores, 100, 30)
	if len(m.rows) != 1 {
		t.Fatalf("score rows = %d, expected 1", len(m.rows))
	}

	next, _ := update(t, m, runes("m"))
	bm := next.(BoardModel)
	if bm.mode != BoardEpisodes || len(bm.rows) != 0 {
		t.Errorf("after mode toggle: mode=%v rows=%d", bm.mode, len(bm.rows))
	}

	next, _ = update(t, bm, tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(BoardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestSessionModelFlow(t *testing.T) {
	m := NewSessionModel(nil, config.DefaultRocketConfig(), testRuntime(), "alice")

	next, _ := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sm := next.(SessionModel)
	if sm.view != viewPlay || sm.play == nil {
		t.Fatalf("view = %v, expected play", sm.view)
	}

	next, _ = update(t, sm, TickMsg{}, runes("p"), tea.KeyMsg{Type: tea.KeyEsc})
	sm = next.(SessionModel)
	if sm.view != viewMenu || sm.play != nil {
		t.Fatalf("view = %v, expected menu after back", sm.view)
	}

	next, _ = update(t, sm, tea.KeyMsg{Type: tea.KeyTab})
	sm = next.(SessionModel)
	if sm.view != viewBoard {
		t.Fatalf("view = %v, expected board", sm.view)
	}

	next, _ = update(t, sm, tea.KeyMsg{Type: tea.KeyEsc}, runes("q"))
	sm = next.(SessionModel)
	if !sm.quitting {
		t.Error("q in the menu should end the session")
	}
	if sm.View() != "" {
		t.Error("quitting session should render nothing")
	}
}
