// Package pipeline holds the validated, dependency-consistent collection of
// generation stages and the scheduler that executes them. Pipelines are
// built either through the fluent Builder or decoded from a YAML
// descriptor; both paths share the same structural validation.
package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"gridforge.dev/internal/generation"
	"gridforge.dev/internal/world"
)

// ErrInvalidPipeline is returned for structurally broken pipelines:
// duplicate or missing stage ids, unresolvable dependencies, cycles, or
// stages without a target. It is detected before any generation work.
var ErrInvalidPipeline = errors.New("pipeline: invalid configuration")

// Pipeline is an ordered, validated sequence of stage descriptors.
// Declaration order is preserved; it is the final tie-breaker during
// planning.
type Pipeline struct {
	stages []*generation.Stage
}

// Stages returns the stage descriptors in declaration order.
func (p *Pipeline) Stages() []*generation.Stage { return p.stages }

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// newPipeline validates the stage set and wraps it.
func newPipeline(stages []*generation.Stage) (*Pipeline, error) {
	index := make(map[string]int, len(stages))
	for i, s := range stages {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: stage %d has no id", ErrInvalidPipeline, i)
		}
		if _, dup := index[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate stage id %q", ErrInvalidPipeline, s.ID)
		}
		index[s.ID] = i
	}

	for _, s := range stages {
		if !s.IsContent && !s.Kind.Valid() {
			return nil, fmt.Errorf("%w: stage %q targets invalid tile kind", ErrInvalidPipeline, s.ID)
		}
		if s.IsContent && !s.Content.Valid() {
			return nil, fmt.Errorf("%w: stage %q targets invalid content kind", ErrInvalidPipeline, s.ID)
		}
		if s.Placement == generation.DensityThreshold && (s.Density < 0 || s.Density > 1) {
			return nil, fmt.Errorf("%w: stage %q density %v out of [0,1]", ErrInvalidPipeline, s.ID, s.Density)
		}
		for _, dep := range s.DependsOn {
			if _, ok := index[dep]; !ok {
				return nil, fmt.Errorf("%w: stage %q depends on unknown stage %q", ErrInvalidPipeline, s.ID, dep)
			}
			if dep == s.ID {
				return nil, fmt.Errorf("%w: stage %q depends on itself", ErrInvalidPipeline, s.ID)
			}
		}
	}

	p := &Pipeline{stages: stages}
	if _, err := p.plan(); err != nil {
		return nil, err
	}
	return p, nil
}

// Plan is the execution schedule: a total stage order plus the batches
// between synchronization barriers. Later batches may read tile state
// written by earlier ones.
type Plan struct {
	Order   []*generation.Stage
	Batches [][]*generation.Stage
}

// plan topologically sorts stages by (depends_on, priority, declaration
// order). Dependencies always win; priority breaks ties among independent
// stages; declaration order breaks the rest. Stages with no dependency
// relation between them are grouped into one batch.
func (p *Pipeline) plan() (*Plan, error) {
	n := len(p.stages)
	index := make(map[string]int, n)
	for i, s := range p.stages {
		index[s.ID] = i
	}

	indegree := make([]int, n)
	dependents := make([][]int, n)
	for i, s := range p.stages {
		for _, dep := range s.DependsOn {
			d := index[dep]
			dependents[d] = append(dependents[d], i)
			indegree[i]++
		}
	}

	// level[i] is the batch a stage lands in: one past its deepest
	// dependency.
	level := make([]int, n)
	ready := make([]int, 0, n)
	for i, deg := range indegree {
		if deg == 0 {
			ready = append(ready, i)
		}
	}

	processed := 0
	for len(ready) > 0 {
		i := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		processed++

		for _, dep := range dependents[i] {
			if level[i]+1 > level[dep] {
				level[dep] = level[i] + 1
			}
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if processed != n {
		cyclic := make([]string, 0)
		for i, deg := range indegree {
			if deg > 0 {
				cyclic = append(cyclic, p.stages[i].ID)
			}
		}
		return nil, fmt.Errorf("%w: dependency cycle through %v", ErrInvalidPipeline, cyclic)
	}

	maxLevel := 0
	for i := range level {
		if level[i] > maxLevel {
			maxLevel = level[i]
		}
	}

	// Batches execute in level order; inside a batch, priority orders
	// independent stages and declaration order breaks ties.
	batchIdx := make([][]int, maxLevel+1)
	for i := range p.stages {
		batchIdx[level[i]] = append(batchIdx[level[i]], i)
	}
	plan := &Plan{
		Order:   make([]*generation.Stage, 0, n),
		Batches: make([][]*generation.Stage, maxLevel+1),
	}
	for l, idxs := range batchIdx {
		sort.Slice(idxs, func(a, b int) bool {
			sa, sb := p.stages[idxs[a]], p.stages[idxs[b]]
			if sa.Priority != sb.Priority {
				return sa.Priority < sb.Priority
			}
			return idxs[a] < idxs[b]
		})
		for _, i := range idxs {
			plan.Batches[l] = append(plan.Batches[l], p.stages[i])
			plan.Order = append(plan.Order, p.stages[i])
		}
	}
	return plan, nil
}

// Builder assembles a pipeline with a fluent API. Mis-configurations are
// collected and reported once, from Build.
type Builder struct {
	entries []*StageBuilder
	errs    []error
}

// StageBuilder configures a single stage.
type StageBuilder struct {
	b            *Builder
	stage        *generation.Stage
	targetSet    bool
	placementSet bool
}

// NewBuilder creates an empty pipeline builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Stage declares a new stage. Ids must be unique across the pipeline.
func (b *Builder) Stage(id string) *StageBuilder {
	sb := &StageBuilder{
		b:     b,
		stage: &generation.Stage{ID: id, MaxAttempts: 16},
	}
	b.entries = append(b.entries, sb)
	return sb
}

// Build validates the configuration and constructs the Pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPipeline, b.errs[0])
	}
	stages := make([]*generation.Stage, 0, len(b.entries))
	for _, e := range b.entries {
		if !e.targetSet {
			return nil, fmt.Errorf("%w: stage %q has no target", ErrInvalidPipeline, e.stage.ID)
		}
		if !e.placementSet {
			return nil, fmt.Errorf("%w: stage %q has no placement algorithm", ErrInvalidPipeline, e.stage.ID)
		}
		stages = append(stages, e.stage)
	}
	return newPipeline(stages)
}

// Priority sets the stage's numeric ordering weight; lower runs earlier
// among independent stages.
func (sb *StageBuilder) Priority(p uint32) *StageBuilder {
	sb.stage.Priority = p
	return sb
}

// Terrain targets a tile kind.
func (sb *StageBuilder) Terrain(k world.TileKind) *StageBuilder {
	if sb.targetSet {
		sb.b.errs = append(sb.b.errs, fmt.Errorf("stage %q declares two targets", sb.stage.ID))
	}
	sb.stage.Kind = k
	sb.stage.IsContent = false
	sb.targetSet = true
	return sb
}

// Content targets a content kind.
func (sb *StageBuilder) Content(c world.ContentKind) *StageBuilder {
	if sb.targetSet {
		sb.b.errs = append(sb.b.errs, fmt.Errorf("stage %q declares two targets", sb.stage.ID))
	}
	sb.stage.Content = c
	sb.stage.IsContent = true
	sb.targetSet = true
	return sb
}

// UniformRandom places count cells picked uniformly without replacement.
func (sb *StageBuilder) UniformRandom(count uint32) *StageBuilder {
	sb.stage.Placement = generation.UniformRandom
	sb.stage.Count = count
	sb.placementSet = true
	return sb
}

// DensityThreshold includes each cell independently with the given
// probability.
func (sb *StageBuilder) DensityThreshold(density float64) *StageBuilder {
	sb.stage.Placement = generation.DensityThreshold
	sb.stage.Density = density
	sb.placementSet = true
	return sb
}

// Spreading grows contiguous zones up to count cells with the given
// per-step continuation probability.
func (sb *StageBuilder) Spreading(count uint32, continuation float64) *StageBuilder {
	sb.stage.Placement = generation.Spreading
	sb.stage.Count = count
	sb.stage.Density = continuation
	sb.placementSet = true
	return sb
}

// MaxAttempts bounds retries per required placement.
func (sb *StageBuilder) MaxAttempts(n uint32) *StageBuilder {
	sb.stage.MaxAttempts = n
	return sb
}

// After declares dependencies; the named stages complete before this one
// starts, regardless of priorities.
func (sb *StageBuilder) After(ids ...string) *StageBuilder {
	sb.stage.DependsOn = append(sb.stage.DependsOn, ids...)
	return sb
}

// Overwrite allows the stage to replace an already-assigned target.
func (sb *StageBuilder) Overwrite() *StageBuilder {
	sb.stage.Overwrite = true
	return sb
}

// Requires restricts a content stage to the given terrain kinds.
func (sb *StageBuilder) Requires(kinds ...world.TileKind) *StageBuilder {
	sb.stage.RequiresKind = append(sb.stage.RequiresKind, kinds...)
	return sb
}

// MinSpacing enforces a Chebyshev minimum distance between placements of
// the same content.
func (sb *StageBuilder) MinSpacing(d int) *StageBuilder {
	sb.stage.MinSpacing = d
	return sb
}

// Noise modulates a density stage with a simplex field at the given
// coordinate scale.
func (sb *StageBuilder) Noise(scale float64) *StageBuilder {
	sb.stage.NoiseScale = scale
	return sb
}

// Stage starts configuring the next stage, continuing the fluent chain.
func (sb *StageBuilder) Stage(id string) *StageBuilder {
	return sb.b.Stage(id)
}

// Build finishes the chain.
func (sb *StageBuilder) Build() (*Pipeline, error) {
	return sb.b.Build()
}
