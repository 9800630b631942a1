package dungeon

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-dungeon/internal/core"
)

// CollisionMode selects the box test used by collision queries.
type CollisionMode string

const (
	// CollideLegacy uses core.Intersects, the four-edge approximation.
	CollideLegacy CollisionMode = "legacy"
	// CollideSAT uses core.Overlaps, the separating-axis test.
	CollideSAT CollisionMode = "sat"
)

// ParseCollisionMode parses a mode name. The empty string means legacy.
func ParseCollisionMode(s string) (CollisionMode, error) {
	switch CollisionMode(s) {
	case "", CollideLegacy:
		return CollideLegacy, nil
	case CollideSAT:
		return CollideSAT, nil
	}
	return "", fmt.Errorf("dungeon: unknown collision mode %q", s)
}

func (m CollisionMode) test() func(a, b core.Box2d) bool {
	if m == CollideSAT {
		return core.Overlaps
	}
	return core.Intersects
}

// Collider answers "does this rectangle hit any tile" for a dungeon.
type Collider struct {
	d       *Dungeon
	mode    CollisionMode
	test    func(a, b core.Box2d) bool
	indexed bool
}

// NewCollider creates a collider. With indexed set, candidates are looked up
// by tile id from the query bounds instead of scanning every tile; answers are
// identical to the scan.
func NewCollider(d *Dungeon, mode CollisionMode, indexed bool) *Collider {
	return &Collider{
		d:       d,
		mode:    mode,
		test:    mode.test(),
		indexed: indexed,
	}
}

// Mode returns the box test in use.
func (c *Collider) Mode() CollisionMode {
	return c.mode
}

// Check reports whether a box centred on (x, y) spanning sizeX by sizeY tiles
// hits any tile.
func (c *Collider) Check(x, y float64, sizeX, sizeY int) bool {
	q := core.MakeBox(x, y, sizeX, sizeY)
	tiles := c.d.snapshot()

	if c.indexed && q.Left <= q.Right && q.Bottom <= q.Top {
		return c.checkIndexed(q, tiles)
	}

	for _, t := range tiles {
		if c.test(q, t.Box()) {
			return true
		}
	}
	return false
}

// checkIndexed tests only tiles that can possibly hit q. Every hit under
// either test needs inclusive vertical overlap and a tile right edge at or
// past q's left edge. The legacy test also hits tiles anywhere to the right,
// so for it the column range runs to the grid edge.
func (c *Collider) checkIndexed(q core.Box2d, tiles []Tile) bool {
	width, height := c.d.Width(), c.d.Height()
	if width == 0 || height <= 0 || len(tiles) == 0 {
		return false
	}

	const half = core.TileSize / 2
	// One cell of slack on each side absorbs float rounding.
	r0 := core.Clamp(int(math.Ceil((q.Bottom-half)/core.TileSize))-1, 0, height-1)
	r1 := core.Clamp(int(math.Floor((q.Top+half)/core.TileSize))+1, 0, height-1)
	c0 := core.Clamp(int(math.Ceil((q.Left-half)/core.TileSize))-1, 0, width-1)
	c1 := width - 1
	if c.mode == CollideSAT {
		c1 = core.Clamp(int(math.Floor((q.Right+half)/core.TileSize))+1, 0, width-1)
	}

	// A clamp pulled an out-of-range span onto the edge row or column; the
	// test below rejects those tiles, so no early exit is needed.
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			id := TileID(col, row, width)
			if id >= len(tiles) {
				return false
			}
			if c.test(q, tiles[id].Box()) {
				return true
			}
		}
	}
	return false
}

// CheckCollision reports whether a box centred on (x, y) spanning sizeX by
// sizeY tiles overlaps any tile, scanning every tile with the legacy test.
func (d *Dungeon) CheckCollision(x, y float64, sizeX, sizeY int) bool {
	return NewCollider(d, CollideLegacy, false).Check(x, y, sizeX, sizeY)
}
