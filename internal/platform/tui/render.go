package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

// colorStyles maps palette roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorCraft:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorCraftNose:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorMissile:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorMissileNose: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorCloud:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color
			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// ScreenRenderer paints draw lists onto a character screen. The playfield is
// scaled to fill every row but the last, which holds the status line.
// It implements sim.Renderer.
type ScreenRenderer struct {
	Screen *core.Screen
	// Status is appended to the score on the status line.
	Status string
}

var _ sim.Renderer = (*ScreenRenderer)(nil)

// NewScreenRenderer creates a renderer with its own screen buffer.
func NewScreenRenderer(width, height int) *ScreenRenderer {
	return &ScreenRenderer{Screen: core.NewScreen(width, height)}
}

// Draw paints one frame.
func (r *ScreenRenderer) Draw(dl sim.DrawList) error {
	s := r.Screen
	s.Clear()
	rows := s.Height() - 1
	if rows <= 0 || s.Width() <= 0 || dl.Width <= 0 || dl.Height <= 0 {
		return nil
	}

	for _, item := range dl.Items {
		cells := scaleRect(item.Rect, dl.Width, dl.Height, s.Width(), rows)
		switch item.Kind {
		case sim.KindDecoration:
			s.DrawRect(cells, '░', core.ColorCloud)
		case sim.KindHazard:
			s.DrawRect(cells, '=', core.ColorMissile)
			s.SetCell(cells.X, cells.Y, '<', core.ColorMissileNose)
		case sim.KindCraft:
			s.DrawRect(cells, '█', core.ColorCraft)
			s.SetCell(cells.Right()-1, cells.Y+cells.H/2, '▶', core.ColorCraftNose)
		}
	}

	status := fmt.Sprintf(" Score: %d", dl.Score)
	if r.Status != "" {
		status += "  " + r.Status
	}
	s.DrawText(0, rows, status)
	if dl.Over {
		s.DrawTextCentered(rows/2, " GAME OVER | R: restart  Q: quit ")
	}
	return nil
}

// scaleRect maps a playfield rectangle onto a cols x rows grid. Every
// visible entity covers at least one cell.
func scaleRect(r core.Rect, width, height, cols, rows int) core.Rect {
	x0 := floorDiv(r.X*cols, width)
	y0 := floorDiv(r.Y*rows, height)
	x1 := ceilDiv(r.Right()*cols, width)
	y1 := ceilDiv(r.Bottom()*rows, height)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
