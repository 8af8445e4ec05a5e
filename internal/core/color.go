package core

// Color represents a foreground color for a screen cell.
// Renderers map each value to a terminal color.
type Color uint8

// Palette roles for scene elements.
const (
	ColorDefault Color = iota
	ColorCraft
	ColorCraftNose
	ColorMissile
	ColorMissileNose
	ColorCloud
)
