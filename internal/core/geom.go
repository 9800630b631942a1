// Package core provides fundamental types and utilities for the dungeon explorer.
// It contains no external dependencies (especially no Bubble Tea) to keep the
// geometry pure and testable.
package core

// TileSize is the edge length of one tile in world units.
const TileSize = 64

// Box2d is an axis-aligned bounding box in world units.
// Y grows upwards: Bottom <= Top for a well-formed box.
type Box2d struct {
	Left   float64
	Right  float64
	Bottom float64
	Top    float64
}

// MakeBox returns a box centred on (centerX, centerY) spanning tilesX tiles
// horizontally and tilesY tiles vertically. Tile counts are not validated.
func MakeBox(centerX, centerY float64, tilesX, tilesY int) Box2d {
	halfW := float64(tilesX) * TileSize / 2
	halfH := float64(tilesY) * TileSize / 2
	return Box2d{
		Left:   centerX - halfW,
		Right:  centerX + halfW,
		Bottom: centerY - halfH,
		Top:    centerY + halfH,
	}
}

// TileBox returns the 1x1 tile box of the grid cell (col, row), centred on
// the cell's world position (col*TileSize, row*TileSize).
func TileBox(col, row int) Box2d {
	return MakeBox(float64(col*TileSize), float64(row*TileSize), 1, 1)
}

// Contains reports whether inner lies entirely within outer. Bounds are inclusive,
// so a box contains itself.
func Contains(outer, inner Box2d) bool {
	return inner.Bottom >= outer.Bottom && inner.Top <= outer.Top &&
		inner.Left >= outer.Left && inner.Right <= outer.Right
}

// Intersects is the legacy overlap test: containment either way, or one of four
// edge cases. It is NOT a complete AABB test. A box crossing a (wider on one
// axis, narrower on the other) is missed, and any b lying entirely right of a
// whose bottom edge falls inside a's vertical span is reported as a hit.
// Movement blocking was tuned against this exact shape, so it stays as is;
// use Overlaps for the full test.
func Intersects(a, b Box2d) bool {
	if Contains(a, b) || Contains(b, a) {
		return true
	}

	// b starts at or right of a's right edge, b's bottom inside a
	if (b.Left >= a.Right && a.Right <= b.Right) && (b.Bottom >= a.Bottom && a.Top >= b.Bottom) {
		return true
	}

	// b's left edge inside a, a's bottom inside b
	if (b.Left >= a.Left && a.Right >= b.Left) && (b.Top >= a.Bottom && a.Bottom >= b.Bottom) {
		return true
	}

	// b's right edge inside a, b's top inside a
	if (b.Right >= a.Left && b.Right <= a.Right) && (b.Top >= a.Bottom && b.Top <= a.Top) {
		return true
	}

	// b's right edge inside a, b's bottom inside a
	if (b.Right >= a.Left && b.Right <= a.Right) && (b.Bottom >= a.Bottom && b.Bottom <= a.Top) {
		return true
	}

	return false
}

// Overlaps is the standard separating-axis test. Touching edges count as overlap.
func Overlaps(a, b Box2d) bool {
	return !(a.Right < b.Left || a.Left > b.Right || a.Top < b.Bottom || a.Bottom > b.Top)
}

// Rect is an integer rectangle in screen cells, used for the map frame.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
