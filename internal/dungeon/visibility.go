package dungeon

import (
	"math"

	"github.com/vovakirdan/tui-dungeon/internal/core"
)

// Default screen size in pixels the viewport margins derive from.
const (
	DefaultScreenWidth  = 640
	DefaultScreenHeight = 480
)

// Viewport describes the window of grid cells considered visible around a
// camera. TilesX and TilesY are half-viewport margins in tiles.
type Viewport struct {
	TilesX int
	TilesY int

	// StrictBounds drops window cells whose column or row is outside the grid.
	// Off by default: only the linear id is range-checked, so a cell off the
	// left or right edge aliases onto a tile of a neighbouring row.
	StrictBounds bool
}

// NewViewport derives the half-viewport margins from a screen size in pixels.
func NewViewport(screenWidth, screenHeight int) Viewport {
	return Viewport{
		TilesX: screenWidth / (core.TileSize * 2),
		TilesY: screenHeight / (core.TileSize * 2),
	}
}

// DefaultViewport is the viewport for a 640x480 screen: 5 by 3 tiles.
func DefaultViewport() Viewport {
	return NewViewport(DefaultScreenWidth, DefaultScreenHeight)
}

// Window returns the size of the scanned window in cells. It is one cell
// larger than the screen on every edge, plus one extra row, so tiles do not
// pop in at the borders.
func (v Viewport) Window() (cols, rows int) {
	return 2*v.TilesX + 3, 2*v.TilesY + 4
}

// Anchor returns the grid cell at the window's logical origin for a camera
// position. The scan starts one cell before it on both axes.
func (v Viewport) Anchor(camX, camY float64) (firstX, firstY int) {
	firstX = int(math.Floor(camX/core.TileSize)) - v.TilesX
	firstY = int(math.Floor(camY/core.TileSize)) - v.TilesY
	return firstX, firstY
}

// Visible returns the tiles of d inside the window around (camX, camY), in
// row-major window order. Cost depends on the window size only.
func (v Viewport) Visible(d *Dungeon, camX, camY float64) []Tile {
	tiles := d.snapshot()
	width, height := d.Width(), d.Height()
	firstX, firstY := v.Anchor(camX, camY)
	cols, rows := v.Window()

	out := make([]Tile, 0, cols*rows)
	for j := -1; j < rows-1; j++ {
		for i := -1; i < cols-1; i++ {
			x := firstX + i
			y := firstY + j

			if v.StrictBounds && (x < 0 || x >= width || y < 0 || y >= height) {
				continue
			}

			z := TileID(x, y, width)
			if z >= 0 && z < len(tiles) {
				out = append(out, tiles[z])
			}
		}
	}
	return out
}

// VisibleTiles returns the visible tiles for a camera position using the
// default 640x480 viewport.
func (d *Dungeon) VisibleTiles(camX, camY float64) []Tile {
	return DefaultViewport().Visible(d, camX, camY)
}
