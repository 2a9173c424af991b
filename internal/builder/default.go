package builder

import (
	"gridforge.dev/internal/pipeline"
	"gridforge.dev/internal/world"
)

// Default returns the stock pipeline: a full grass base, noise-clustered
// hills and mountains, spread lakes and lava fields, carved streets, then
// the content passes layered on top. It exercises every placement
// algorithm and constraint kind, and serves as the pipeline when a
// deployment declares none.
func Default() *pipeline.Pipeline {
	b := pipeline.NewBuilder()

	// Terrain, coarse to fine.
	b.Stage("base").Terrain(world.Grass).Priority(10).DensityThreshold(1.0)
	b.Stage("hills").Terrain(world.Hill).Priority(20).After("base").
		DensityThreshold(0.10).Noise(0.04).Overwrite()
	b.Stage("mountains").Terrain(world.Mountain).Priority(30).After("hills").
		DensityThreshold(0.05).Noise(0.06).Overwrite()
	b.Stage("snowcaps").Terrain(world.Snow).Priority(40).After("mountains").
		DensityThreshold(0.02).Noise(0.08).Overwrite()
	b.Stage("lakes").Terrain(world.ShallowWater).Priority(50).After("base").
		Spreading(1200, 0.55).Overwrite()
	b.Stage("deeps").Terrain(world.DeepWater).Priority(60).After("lakes").
		Spreading(300, 0.45).Overwrite()
	b.Stage("sand").Terrain(world.Sand).Priority(70).After("lakes").
		DensityThreshold(0.03).Noise(0.05).Overwrite()
	b.Stage("streets").Terrain(world.Street).Priority(80).After("base").
		Spreading(900, 0.7).Overwrite()
	b.Stage("lava").Terrain(world.Lava).Priority(90).After("base").
		Spreading(150, 0.4).Overwrite()

	// Contents. Prerequisites fall back to the terrain hold matrix unless
	// declared; banks are street-only by rule.
	b.Stage("trees").Content(world.Tree).Priority(110).After("sand", "streets", "lava").
		DensityThreshold(0.06).Noise(0.05)
	b.Stage("rocks").Content(world.Rock).Priority(120).After("sand", "streets", "lava").
		UniformRandom(600)
	b.Stage("coins").Content(world.Coin).Priority(130).After("streets").
		UniformRandom(250)
	b.Stage("banks").Content(world.Bank).Priority(140).After("streets").
		UniformRandom(12).Requires(world.Street).MinSpacing(8).MaxAttempts(512)
	b.Stage("bins").Content(world.Bin).Priority(150).After("streets").
		UniformRandom(40).MinSpacing(4).MaxAttempts(64)
	b.Stage("crates").Content(world.Crate).Priority(160).After("sand", "streets").
		UniformRandom(60)
	b.Stage("fires").Content(world.Fire).Priority(170).After("trees").
		Spreading(80, 0.35).MaxAttempts(64)
	b.Stage("garbage").Content(world.Garbage).Priority(180).After("streets").
		DensityThreshold(0.01)
	b.Stage("water-pockets").Content(world.Water).Priority(190).After("deeps").
		UniformRandom(120).Requires(world.DeepWater, world.ShallowWater).MaxAttempts(512)

	p, err := b.Build()
	if err != nil {
		// The stock pipeline is validated by tests; a broken build here is
		// a programming error.
		panic(err)
	}
	return p
}
