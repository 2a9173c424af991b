package generation

import (
	"gridforge.dev/internal/grid"
	"gridforge.dev/internal/world"
)

// Checker validates placement candidates for one stage on one region.
// A rejected candidate is not an error; the stage just spends an attempt.
//
// Checks run in order: target-kind exclusivity, terrain prerequisite, then
// minimum spacing. The spacing scan stays inside the worker's own region:
// partitions are seam-blind so that a stage's output depends only on its
// own region, which is what makes parallel runs reproducible.
type Checker struct {
	stage  *Stage
	g      *grid.Grid
	region grid.Region
}

// NewChecker creates the checker a worker uses for one stage/region pair.
func NewChecker(stage *Stage, g *grid.Grid, region grid.Region) *Checker {
	return &Checker{stage: stage, g: g, region: region}
}

// Allow reports whether the stage may write its target into (x, y).
func (c *Checker) Allow(x, y uint32) bool {
	if !c.region.Contains(x, y) {
		return false
	}
	tile := c.g.Get(x, y)

	if c.stage.IsContent {
		if tile.HasContent && !c.stage.Overwrite {
			return false
		}
		if !c.allowedBase(tile.Kind) {
			return false
		}
		if c.stage.MinSpacing > 0 && c.tooClose(x, y) {
			return false
		}
		return true
	}

	if c.g.KindAssigned(x, y) && !c.stage.Overwrite {
		return false
	}
	return true
}

// allowedBase applies the prerequisite rule: the declared kind set when the
// stage has one, otherwise the terrain's hold matrix.
func (c *Checker) allowedBase(kind world.TileKind) bool {
	if len(c.stage.RequiresKind) == 0 {
		return kind.CanHold(c.stage.Content)
	}
	for _, k := range c.stage.RequiresKind {
		if k == kind {
			return true
		}
	}
	return false
}

// tooClose scans the Chebyshev neighborhood, clipped to the region, for an
// existing instance of the same content kind.
func (c *Checker) tooClose(x, y uint32) bool {
	d := uint32(c.stage.MinSpacing)

	x0, y0 := c.region.X0, c.region.Y0
	if x >= x0+d {
		x0 = x - d
	}
	if y >= y0+d {
		y0 = y - d
	}
	x1 := min32(c.region.X1, x+d+1)
	y1 := min32(c.region.Y1, y+d+1)

	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			if cx == x && cy == y {
				continue
			}
			t := c.g.Get(cx, cy)
			if t.HasContent && t.Content == c.stage.Content {
				return true
			}
		}
	}
	return false
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
