// Package dungeon builds the tile grid and answers visibility and collision
// queries against it. The grid is built by Generate and read-only afterwards;
// regeneration publishes a fresh grid so readers never see a partial one.
package dungeon

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/telemetry"
)

const (
	// MinRoomSize is the intended smallest room. New does not enforce it;
	// see BelowMinimum.
	MinRoomSize = 3
	// MaxRoomSize is the largest room; bigger requests are clamped.
	MaxRoomSize = 128
	// DefaultRoomSize is used when no size is configured.
	DefaultRoomSize = 16

	// Portal counts for multi-room connectivity. Not implemented.
	MinConnectedness     = 1
	MaxConnectedness     = 8
	DefaultConnectedness = 1

	// DefaultSeed is the seed GenerateDefault uses.
	DefaultSeed int64 = 13375
)

// Perlin parameters. The noise only shades tiles for renderers.
const (
	noiseAlpha  = 2
	noiseBeta   = 2
	noiseOctave = 3
	noiseScale  = 0.15
)

// ErrInvalidSize is returned by NewStrict for non-positive room sizes.
var ErrInvalidSize = errors.New("dungeon: room size must be positive")

// grid is one published generation.
type grid struct {
	tiles []Tile
	seed  int64
	noise *perlin.Perlin
}

// Dungeon owns the tile grid for one room.
type Dungeon struct {
	size   int
	grid   atomic.Pointer[grid]
	logger *log.Logger
}

// Option configures a Dungeon.
type Option func(*Dungeon)

// WithLogger sets the logger used for generation messages.
func WithLogger(l *log.Logger) Option {
	return func(d *Dungeon) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates an empty dungeon. Sizes above MaxRoomSize are clamped; sizes
// below 1 become 1. Sizes below MinRoomSize are accepted as is.
func New(size int, opts ...Option) *Dungeon {
	d := &Dungeon{
		size:   core.Clamp(size, 1, MaxRoomSize),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.grid.Store(&grid{})
	return d
}

// NewStrict is New but rejects non-positive sizes with ErrInvalidSize.
// Large sizes are still clamped.
func NewStrict(size int, opts ...Option) (*Dungeon, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return New(size, opts...), nil
}

// Size returns the effective room size: the grid width in tiles.
func (d *Dungeon) Size() int {
	return d.size
}

// Width returns the grid width in tiles.
func (d *Dungeon) Width() int {
	return d.size
}

// Height returns the grid height in tiles, one less than the width.
func (d *Dungeon) Height() int {
	return d.size - 1
}

// BelowMinimum reports whether the room is smaller than MinRoomSize.
func (d *Dungeon) BelowMinimum() bool {
	return d.size < MinRoomSize
}

// Generate rebuilds the grid for seed. The previous grid is replaced, never
// appended to. Tiles are laid out row-major with sequential ids from 0.
func (d *Dungeon) Generate(ctx context.Context, seed int64) *Dungeon {
	_, span := telemetry.Tracer("dungeon").Start(ctx, "dungeon.generate")
	defer span.End()

	start := time.Now()
	d.logger.Debug("generating dungeon", "size", d.size, "seed", seed)

	width, height := d.Width(), d.Height()
	g := &grid{
		tiles: make([]Tile, 0, width*height),
		seed:  seed,
		noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed),
	}

	var id uint32
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			g.tiles = append(g.tiles, Tile{ID: id, Col: col, Row: row, Colour: White})
			id++
		}
	}

	d.grid.Store(g)

	span.SetAttributes(
		attribute.Int("dungeon.size", d.size),
		attribute.Int64("dungeon.seed", seed),
		attribute.Int("dungeon.tile_count", len(g.tiles)),
		attribute.Int64("dungeon.generation_ms", time.Since(start).Milliseconds()),
	)
	d.logger.Debug("finished generating dungeon", "size", d.size, "tiles", len(g.tiles))

	return d
}

// GenerateDefault generates with DefaultSeed.
func (d *Dungeon) GenerateDefault(ctx context.Context) *Dungeon {
	return d.Generate(ctx, DefaultSeed)
}

// Seed returns the seed of the current grid.
func (d *Dungeon) Seed() int64 {
	return d.grid.Load().seed
}

// Len returns the number of tiles in the current grid.
func (d *Dungeon) Len() int {
	return len(d.grid.Load().tiles)
}

// Tiles returns a copy of the current grid.
func (d *Dungeon) Tiles() []Tile {
	tiles := d.grid.Load().tiles
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	return out
}

// Tile returns the tile with the given id.
func (d *Dungeon) Tile(id int) (Tile, bool) {
	tiles := d.grid.Load().tiles
	if id < 0 || id >= len(tiles) {
		return Tile{}, false
	}
	return tiles[id], true
}

// MaxDimension returns the world-space extent usable for clamping camera
// movement: (width-1) * TileSize.
func (d *Dungeon) MaxDimension() float64 {
	return float64((d.size - 1) * core.TileSize)
}

// Noise samples the generation noise at a tile. Returns 0 before the first
// Generate. It has no effect on tile placement.
func (d *Dungeon) Noise(col, row int) float64 {
	g := d.grid.Load()
	if g.noise == nil {
		return 0
	}
	return g.noise.Noise2D(float64(col)*noiseScale, float64(row)*noiseScale)
}

// snapshot returns the current tile slice without copying. Callers must not
// modify it.
func (d *Dungeon) snapshot() []Tile {
	return d.grid.Load().tiles
}
