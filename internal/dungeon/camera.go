package dungeon

// DefaultCameraSpeed is the camera speed in world units per update tick.
const DefaultCameraSpeed = 20.0

// Camera is the focal point of the explorer. It is owned by the render loop;
// the dungeon only reads its position.
type Camera struct {
	X, Y  float64
	dirty bool
}

// NewCamera creates a camera at (x, y). It starts dirty so the first frame
// computes visible tiles.
func NewCamera(x, y float64) *Camera {
	return &Camera{X: x, Y: y, dirty: true}
}

// Move shifts the camera by (dx, dy) * speed * delta. The move is rejected
// unless the new position stays within [0, maxDim] on both axes. The same
// bound is used for X and Y even though the grid is one row shorter than it
// is wide. Returns whether the camera moved.
func (c *Camera) Move(dx, dy int, speed, delta, maxDim float64) bool {
	newX := c.X + float64(dx)*speed*delta
	newY := c.Y + float64(dy)*speed*delta

	if newX < 0 || newY < 0 || newX > maxDim || newY > maxDim {
		return false
	}

	c.X = newX
	c.Y = newY
	c.dirty = true
	return true
}

// Dirty reports whether the camera moved since the last ClearDirty.
func (c *Camera) Dirty() bool {
	return c.dirty
}

// MarkDirty forces the next frame to recompute visible tiles.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// ClearDirty is called by the render loop after recomputing visible tiles.
func (c *Camera) ClearDirty() {
	c.dirty = false
}
