package generation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridforge.dev/internal/grid"
	"gridforge.dev/internal/world"
)

func fillGrass(g *grid.Grid) {
	for y := uint32(0); y < g.Height(); y++ {
		for x := uint32(0); x < g.Width(); x++ {
			g.SetKind(x, y, world.Grass)
		}
	}
}

func TestUniformRandomMeetsQuota(t *testing.T) {
	g, region := testGrid(t)
	fillGrass(g)

	stage := &Stage{
		ID:          "rocks",
		Content:     world.Rock,
		IsContent:   true,
		Placement:   UniformRandom,
		Count:       200,
		MaxAttempts: 16,
	}
	report, err := stage.Apply(g, region, 200, 42)
	require.NoError(t, err)
	assert.Equal(t, uint32(200), report.Placed)

	placed := 0
	for y := uint32(0); y < 100; y++ {
		for x := uint32(0); x < 100; x++ {
			if tile := g.Get(x, y); tile.HasContent {
				assert.Equal(t, world.Rock, tile.Content)
				placed++
			}
		}
	}
	assert.Equal(t, 200, placed, "report must match cells actually changed")
}

func TestUniformRandomUnsatisfiable(t *testing.T) {
	g, region := testGrid(t)
	// Nothing but the zero deep-water ocean, which holds no rocks.
	stage := &Stage{
		ID:          "rocks",
		Content:     world.Rock,
		IsContent:   true,
		Placement:   UniformRandom,
		Count:       10,
		MaxAttempts: 8,
	}
	report, err := stage.Apply(g, region, 10, 42)
	require.ErrorIs(t, err, ErrUnsatisfiable)
	assert.Zero(t, report.Placed)
	assert.Equal(t, uint32(80), report.Attempts, "budget is quota times max attempts")
}

func TestUniformRandomIsDeterministic(t *testing.T) {
	run := func() *world.World {
		g, region := testGrid(t)
		fillGrass(g)
		stage := &Stage{
			ID: "rocks", Content: world.Rock, IsContent: true,
			Placement: UniformRandom, Count: 150, MaxAttempts: 16,
		}
		_, err := stage.Apply(g, region, 150, 7)
		require.NoError(t, err)
		return g.Freeze()
	}
	assert.True(t, run().Equal(run()))
}

func TestDensityThresholdIndependentOfPartitioning(t *testing.T) {
	stage := func() *Stage {
		return &Stage{
			ID: "hills", Kind: world.Hill,
			Placement: DensityThreshold, Density: 0.2, MaxAttempts: 16,
			Overwrite: true,
		}
	}

	whole := func() *world.World {
		g, err := grid.New(100, 100)
		require.NoError(t, err)
		for _, r := range g.SplitInto(1) {
			_, err := stage().Apply(g, r, 0, 99)
			require.NoError(t, err)
		}
		return g.Freeze()
	}()

	banded := func() *world.World {
		g, err := grid.New(100, 100)
		require.NoError(t, err)
		for _, r := range g.SplitInto(13) {
			_, err := stage().Apply(g, r, 0, 99)
			require.NoError(t, err)
		}
		return g.Freeze()
	}()

	assert.True(t, whole.Equal(banded), "density placement must not depend on partition layout")
}

func TestDensityThresholdApproximatesDensity(t *testing.T) {
	g, region := testGrid(t)
	stage := &Stage{
		ID: "hills", Kind: world.Hill,
		Placement: DensityThreshold, Density: 0.3, MaxAttempts: 16,
	}
	report, err := stage.Apply(g, region, 0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 3000, float64(report.Placed), 300)
}

func TestDensityThresholdSaturationFails(t *testing.T) {
	g, region := testGrid(t)
	fillGrass(g)
	for y := uint32(0); y < 100; y++ {
		for x := uint32(0); x < 100; x++ {
			g.SetContent(x, y, world.Rock)
		}
	}

	stage := &Stage{
		ID: "trees", Content: world.Tree, IsContent: true,
		Placement: DensityThreshold, Density: 0.5, MaxAttempts: 16,
	}
	_, err := stage.Apply(g, region, 0, 5)
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestNoiseModulatedDensityIsDeterministic(t *testing.T) {
	run := func() *world.World {
		g, region := testGrid(t)
		stage := &Stage{
			ID: "hills", Kind: world.Hill,
			Placement: DensityThreshold, Density: 0.15, NoiseScale: 0.05,
			MaxAttempts: 16,
		}
		_, err := stage.Apply(g, region, 0, 21)
		require.NoError(t, err)
		return g.Freeze()
	}
	assert.True(t, run().Equal(run()))
}

func TestSpreadingStaysInRegionAndMeetsQuota(t *testing.T) {
	g, err := grid.New(100, 100)
	require.NoError(t, err)
	region := grid.Region{Index: 2, X0: 0, Y0: 40, X1: 100, Y1: 60}

	stage := &Stage{
		ID: "lakes", Kind: world.ShallowWater,
		Placement: Spreading, Count: 300, Density: 0.6, MaxAttempts: 16,
		Overwrite: true,
	}
	report, err := stage.Apply(g, region, 300, 13)
	require.NoError(t, err)
	assert.Equal(t, uint32(300), report.Placed)

	for y := uint32(0); y < 100; y++ {
		for x := uint32(0); x < 100; x++ {
			if g.KindAssigned(x, y) {
				assert.True(t, region.Contains(x, y), "write at (%d,%d) escaped the region", x, y)
			}
		}
	}
}

func TestSpreadingProducesContiguousClumps(t *testing.T) {
	g, region := testGrid(t)
	stage := &Stage{
		ID: "lakes", Kind: world.ShallowWater,
		Placement: Spreading, Count: 400, Density: 0.7, MaxAttempts: 16,
		Overwrite: true,
	}
	_, err := stage.Apply(g, region, 400, 17)
	require.NoError(t, err)

	// A spread placement should have far more lake-adjacent lake cells
	// than an independent scatter of the same size would.
	adjacent, total := 0, 0
	for y := uint32(1); y < 99; y++ {
		for x := uint32(1); x < 99; x++ {
			if !g.KindAssigned(x, y) {
				continue
			}
			total++
			if g.KindAssigned(x+1, y) || g.KindAssigned(x-1, y) ||
				g.KindAssigned(x, y+1) || g.KindAssigned(x, y-1) {
				adjacent++
			}
		}
	}
	require.Positive(t, total)
	assert.Greater(t, float64(adjacent)/float64(total), 0.5)
}

func TestAttemptBudgetSaturates(t *testing.T) {
	assert.Equal(t, uint32(160), attemptBudget(10, 16))
	assert.Equal(t, uint32(7), attemptBudget(7, 0), "zero retries still allows one pass per placement")
	assert.Equal(t, uint32(math.MaxUint32), attemptBudget(1<<20, 1<<13),
		"oversized products clamp instead of wrapping")
}

func TestUnknownAlgorithmFails(t *testing.T) {
	g, region := testGrid(t)
	stage := &Stage{ID: "odd", Kind: world.Grass, Placement: Algorithm(99)}
	_, err := stage.Apply(g, region, 0, 1)
	assert.Error(t, err)
}

func TestParseAlgorithm(t *testing.T) {
	for _, name := range []string{"uniform_random", "density_threshold", "spreading"} {
		alg, err := ParseAlgorithm(name)
		require.NoError(t, err)
		assert.Equal(t, name, alg.String())
	}
	_, err := ParseAlgorithm("poisson_disk")
	assert.Error(t, err)
}
