// Package grid owns the mutable tile matrix used during generation and its
// partitioning into disjoint worker regions. Once generation completes the
// matrix is frozen into an immutable world.World and the grid is discarded.
package grid

import (
	"errors"
	"fmt"

	"gridforge.dev/internal/world"
)

// ErrInvalidDimension is returned when a requested grid is smaller than the
// 100-cell minimum in either dimension. Dimensions are never clamped.
var ErrInvalidDimension = errors.New("grid: dimension below minimum")

// Grid is the tile matrix under construction. It is only shared across
// goroutines through disjoint Regions, so it carries no locks.
type Grid struct {
	width  uint32
	height uint32
	tiles  []world.Tile // row-major
	// kindSet distinguishes "never assigned" from "assigned the zero kind"
	// so the exclusivity rule can tell first writes from overwrites.
	kindSet []bool
}

// New creates a fully-zeroed grid. Either dimension below
// world.MinDimension fails with ErrInvalidDimension.
func New(width, height uint32) (*Grid, error) {
	if width < world.MinDimension || height < world.MinDimension {
		return nil, fmt.Errorf("%w: %dx%d (minimum %d)", ErrInvalidDimension, width, height, world.MinDimension)
	}
	return &Grid{
		width:   width,
		height:  height,
		tiles:   make([]world.Tile, int(width)*int(height)),
		kindSet: make([]bool, int(width)*int(height)),
	}, nil
}

// Width returns the grid width in cells.
func (g *Grid) Width() uint32 { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() uint32 { return g.height }

// Contains reports whether (x, y) is inside the grid.
func (g *Grid) Contains(x, y uint32) bool {
	return x < g.width && y < g.height
}

// Get returns the tile at (x, y). Out-of-bounds reads return a zero tile.
func (g *Grid) Get(x, y uint32) world.Tile {
	if !g.Contains(x, y) {
		return world.Tile{}
	}
	return g.tiles[y*g.width+x]
}

// SetKind assigns the terrain kind at (x, y) and marks it assigned.
// Out-of-bounds writes are dropped.
func (g *Grid) SetKind(x, y uint32, k world.TileKind) {
	if !g.Contains(x, y) {
		return
	}
	i := y*g.width + x
	g.tiles[i].Kind = k
	g.kindSet[i] = true
}

// SetContent places content at (x, y). Out-of-bounds writes are dropped.
func (g *Grid) SetContent(x, y uint32, c world.ContentKind) {
	if !g.Contains(x, y) {
		return
	}
	i := y*g.width + x
	g.tiles[i].Content = c
	g.tiles[i].HasContent = true
}

// KindAssigned reports whether a tile-kind stage has written (x, y).
func (g *Grid) KindAssigned(x, y uint32) bool {
	return g.Contains(x, y) && g.kindSet[y*g.width+x]
}

// CellIndex returns the row-major index of (x, y). Used to derive per-cell
// random draws that do not depend on partition layout.
func (g *Grid) CellIndex(x, y uint32) uint64 {
	return uint64(y)*uint64(g.width) + uint64(x)
}

// Freeze hands the finished matrix off as an immutable World. The grid must
// not be used afterwards.
func (g *Grid) Freeze() *world.World {
	w := world.NewWorld(g.width, g.height, g.tiles)
	g.tiles = nil
	return w
}

// Region is a disjoint rectangular subset of the grid assigned to one
// worker for one stage. X1/Y1 are exclusive.
type Region struct {
	Index          int
	X0, Y0, X1, Y1 uint32
}

// Contains reports whether (x, y) falls inside the region.
func (r Region) Contains(x, y uint32) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Area returns the number of cells covered by the region.
func (r Region) Area() uint64 {
	return uint64(r.X1-r.X0) * uint64(r.Y1-r.Y0)
}

// SplitInto divides the grid into n disjoint horizontal bands covering
// every cell exactly once, balanced by area via largest-remainder row
// distribution. Bands keep spreading stages contiguous within a region.
// If n exceeds the row count it is reduced to it.
func (g *Grid) SplitInto(n int) []Region {
	if n < 1 {
		n = 1
	}
	if uint32(n) > g.height {
		n = int(g.height)
	}

	base := g.height / uint32(n)
	extra := g.height % uint32(n)

	regions := make([]Region, n)
	var y uint32
	for i := 0; i < n; i++ {
		rows := base
		if uint32(i) < extra {
			rows++
		}
		regions[i] = Region{
			Index: i,
			X0:    0,
			Y0:    y,
			X1:    g.width,
			Y1:    y + rows,
		}
		y += rows
	}
	return regions
}
