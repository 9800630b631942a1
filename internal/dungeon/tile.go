package dungeon

import "github.com/vovakirdan/tui-dungeon/internal/core"

// Colour is an RGBA display colour. Logic never reads it.
type Colour struct {
	R, G, B, A float32
}

// White is the default tile colour.
var White = Colour{R: 1, G: 1, B: 1, A: 1}

// Tile is one cell of the dungeon grid.
type Tile struct {
	ID     uint32 `json:"id"`
	Col    int    `json:"col"`
	Row    int    `json:"row"`
	Colour Colour `json:"-"`
}

// TileID maps grid coordinates to a linear tile id: id = row*width + col.
// Generation, culling and the collision index all address tiles through it.
// No bounds checks: callers range-check the result.
func TileID(col, row, width int) int {
	return row*width + col
}

// TileCoord is the inverse of TileID for in-range ids.
func TileCoord(id, width int) (col, row int) {
	return id % width, id / width
}

// WorldPos returns the world-space centre of the tile.
func (t Tile) WorldPos() (float64, float64) {
	return float64(t.Col * core.TileSize), float64(t.Row * core.TileSize)
}

// Box returns the tile's own 1x1 box.
func (t Tile) Box() core.Box2d {
	return core.TileBox(t.Col, t.Row)
}

// FrameIndex picks the texture-atlas frame for a tile id. Returns 0 when
// there are no frames.
func FrameIndex(id uint32, totalFrames int) int {
	if totalFrames <= 0 {
		return 0
	}
	return int(id % uint32(totalFrames))
}
