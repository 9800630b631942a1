package core

// Color represents a foreground color for a screen cell.
type Color uint8

const (
	ColorDefault Color = iota
	ColorWhite
	ColorGray
	ColorDarkGray
	ColorStone
	ColorSand
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
)

// FloorShades runs from dark to light; renderers index it with noise.
var FloorShades = []Color{ColorDarkGray, ColorStone, ColorGray, ColorSand, ColorWhite}

// ShadeFor maps a noise sample in roughly [-1, 1] onto FloorShades.
func ShadeFor(n float64) Color {
	i := int((n + 1) / 2 * float64(len(FloorShades)))
	return FloorShades[Clamp(i, 0, len(FloorShades)-1)]
}
