// Package services sits between the HTTP handlers and the generation
// facade: it caches generated worlds by seed and persists them through the
// binary codec.
package services

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"sync"

	"gridforge.dev/internal/builder"
	"gridforge.dev/internal/models"
	"gridforge.dev/internal/pipeline"
	"gridforge.dev/internal/world"
)

// WorldService generates worlds on demand for a fixed pipeline and
// dimensions, one world per seed.
type WorldService struct {
	pipe     *pipeline.Pipeline
	width    uint32
	height   uint32
	dataPath string

	mu    sync.Mutex
	cache map[uint64]*world.World
}

// NewWorldService creates the service. dataPath may be empty to disable
// on-disk persistence.
func NewWorldService(pipe *pipeline.Pipeline, width, height uint32, dataPath string) *WorldService {
	return &WorldService{
		pipe:     pipe,
		width:    width,
		height:   height,
		dataPath: dataPath,
		cache:    make(map[uint64]*world.World),
	}
}

// Get returns the world for a seed: from cache, from disk, or freshly
// generated (and then persisted).
func (ws *WorldService) Get(seed uint64) (*world.World, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if w, ok := ws.cache[seed]; ok {
		return w, nil
	}

	if ws.dataPath != "" {
		w, err := builder.Load(ws.worldFile(seed))
		if err == nil {
			ws.cache[seed] = w
			return w, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			// A present-but-unreadable file gets regenerated, but not
			// silently.
			log.Printf("world file for seed %d unusable: %v", seed, err)
		}
	}

	w, err := builder.Generate(ws.pipe, ws.width, ws.height, seed)
	if err != nil {
		return nil, err
	}
	ws.cache[seed] = w

	if ws.dataPath != "" {
		if err := builder.Save(w, ws.worldFile(seed)); err != nil {
			log.Printf("persisting world for seed %d: %v", seed, err)
		}
	}
	return w, nil
}

// Summary returns the world's dimensions and terrain/content coverage.
func (ws *WorldService) Summary(seed uint64) (*models.WorldSummary, error) {
	w, err := ws.Get(seed)
	if err != nil {
		return nil, err
	}

	kinds := make(map[string]float64)
	for k, v := range w.KindPercentages() {
		kinds[k.String()] = v
	}
	contents := make(map[string]float64)
	for c, v := range w.ContentPercentages() {
		contents[c.String()] = v
	}

	return &models.WorldSummary{
		Seed:     seed,
		Width:    w.Width(),
		Height:   w.Height(),
		Kinds:    kinds,
		Contents: contents,
	}, nil
}

func (ws *WorldService) worldFile(seed uint64) string {
	return filepath.Join(ws.dataPath, fmt.Sprintf("%d.world", seed))
}
