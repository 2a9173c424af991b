// Package builder is the facade over grid, pipeline and codec: it
// validates configuration, seeds the run and hands back a finished World
// or a typed error. Callers never see a partially-generated world.
package builder

import (
	"runtime"

	"gridforge.dev/internal/codec"
	"gridforge.dev/internal/grid"
	"gridforge.dev/internal/pipeline"
	"gridforge.dev/internal/world"
)

// Option adjusts a generation run.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers overrides the worker pool size. The pool size affects wall
// time only, never the generated world.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// Generate runs the pipeline over a fresh width x height grid seeded with
// seed. Dimension and pipeline validation happen before any generation
// work starts.
func Generate(p *pipeline.Pipeline, width, height uint32, seed uint64, opts ...Option) (*world.World, error) {
	o := options{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}

	g, err := grid.New(width, height)
	if err != nil {
		return nil, err
	}
	return pipeline.NewScheduler(o.workers).Run(g, p, seed)
}

// Save persists a world to a file through the binary codec.
func Save(w *world.World, path string) error {
	return codec.Save(w, path)
}

// Load reads a previously saved world.
func Load(path string) (*world.World, error) {
	return codec.Load(path)
}
