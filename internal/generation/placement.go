package generation

import (
	"fmt"
	"math"

	"gridforge.dev/internal/grid"
)

// applyUniform picks region cells uniformly without replacement until the
// quota is reached or the attempt budget runs out.
func (s *Stage) applyUniform(g *grid.Grid, region grid.Region, quota uint32, checker *Checker, stream *Stream, report *Report) error {
	if quota == 0 {
		return nil
	}
	budget := attemptBudget(quota, s.MaxAttempts)
	w := int(region.X1 - region.X0)
	h := int(region.Y1 - region.Y0)
	if w <= 0 || h <= 0 {
		return s.unsatisfiable(region, 0, quota)
	}

	seen := make(map[uint64]struct{})
	for report.Placed < quota && report.Attempts < budget {
		report.Attempts++
		x := region.X0 + uint32(stream.Intn(w))
		y := region.Y0 + uint32(stream.Intn(h))

		idx := g.CellIndex(x, y)
		if _, dup := seen[idx]; dup {
			report.Rejected++
			continue
		}
		seen[idx] = struct{}{}

		if !checker.Allow(x, y) {
			report.Rejected++
			continue
		}
		s.place(g, x, y)
		report.Placed++
	}

	if report.Placed < quota {
		return s.unsatisfiable(region, report.Placed, quota)
	}
	return nil
}

// applyDensity sweeps the region in row-major order; each cell is included
// with probability derived from the stage density and the cell's own
// deterministic draw, so the outcome never depends on partition layout.
// Individual rejections are expected; the stage fails only when the region
// is saturated: every candidate rejected and at least MaxAttempts of them
// seen.
func (s *Stage) applyDensity(g *grid.Grid, region grid.Region, checker *Checker, seed uint64, report *Report) error {
	var field *Field
	if s.NoiseScale > 0 {
		field = NewField(seed, s.ID, s.NoiseScale)
	}

	for y := region.Y0; y < region.Y1; y++ {
		for x := region.X0; x < region.X1; x++ {
			p := s.Density
			if field != nil {
				p = clamp01(p * 2 * field.At(x, y))
			}
			if CellDraw(seed, s.ID, g.CellIndex(x, y)) >= p {
				continue
			}

			report.Attempts++
			if !checker.Allow(x, y) {
				report.Rejected++
				continue
			}
			s.place(g, x, y)
			report.Placed++
		}
	}

	if report.Placed == 0 && report.Rejected >= s.MaxAttempts && report.Rejected > 0 {
		return fmt.Errorf("%w: stage %q rejected all %d candidates in partition %d",
			ErrUnsatisfiable, s.ID, report.Rejected, region.Index)
	}
	return nil
}

// applySpreading grows contiguous blobs by breadth-first expansion from
// random origins, with a stochastic per-step continuation, until the quota
// is met. Growth never leaves the region.
func (s *Stage) applySpreading(g *grid.Grid, region grid.Region, quota uint32, checker *Checker, stream *Stream, report *Report) error {
	if quota == 0 {
		return nil
	}
	budget := attemptBudget(quota, s.MaxAttempts)
	w := int(region.X1 - region.X0)
	h := int(region.Y1 - region.Y0)
	if w <= 0 || h <= 0 {
		return s.unsatisfiable(region, 0, quota)
	}

	cont := s.Density
	if cont <= 0 || cont >= 1 {
		cont = 0.5
	}

	type cell struct{ x, y uint32 }
	visited := make(map[uint64]struct{})

	for report.Placed < quota && report.Attempts < budget {
		// Every cell tried already; more origins cannot help.
		if uint64(len(visited)) == region.Area() {
			break
		}
		// Seed a fresh origin, then flood outward.
		queue := []cell{{
			x: region.X0 + uint32(stream.Intn(w)),
			y: region.Y0 + uint32(stream.Intn(h)),
		}}

		for len(queue) > 0 && report.Placed < quota && report.Attempts < budget {
			c := queue[0]
			queue = queue[1:]

			idx := g.CellIndex(c.x, c.y)
			if _, done := visited[idx]; done {
				continue
			}
			visited[idx] = struct{}{}

			report.Attempts++
			if !checker.Allow(c.x, c.y) {
				report.Rejected++
				continue
			}
			s.place(g, c.x, c.y)
			report.Placed++

			for _, n := range [4]cell{
				{c.x, c.y - 1},
				{c.x + 1, c.y},
				{c.x, c.y + 1},
				{c.x - 1, c.y},
			} {
				if !region.Contains(n.x, n.y) {
					continue
				}
				if stream.Float64() < cont {
					queue = append(queue, n)
				}
			}
		}
	}

	if report.Placed < quota {
		return s.unsatisfiable(region, report.Placed, quota)
	}
	return nil
}

// attemptBudget is quota * maxAttempts computed without overflow, saturating
// at the counter's range.
func attemptBudget(quota, maxAttempts uint32) uint32 {
	if maxAttempts == 0 {
		maxAttempts = 1
	}
	budget := uint64(quota) * uint64(maxAttempts)
	if budget > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(budget)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
