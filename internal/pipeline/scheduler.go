package pipeline

import (
	"fmt"
	"sync"

	"gridforge.dev/internal/generation"
	"gridforge.dev/internal/grid"
	"gridforge.dev/internal/world"
)

// partitionCount is the fixed number of regions a grid is split into for
// every stage. It is a function of nothing but this constant and the grid,
// never of the worker pool, so the per-partition seed streams - and with
// them the generated world - are identical for any pool size.
const partitionCount = 16

// State tracks one scheduler run.
type State uint8

const (
	Idle State = iota
	Planning
	Executing
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Planning:
		return "planning"
	case Executing:
		return "executing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Scheduler executes a pipeline over a grid: Idle -> Planning -> Executing
// -> Completed | Failed. Stages run in planned order; each stage is
// partitioned across a worker pool, and the stage boundary is the only
// synchronization point.
type Scheduler struct {
	workers int
	state   State
	reports map[string]generation.Report
}

// NewScheduler creates a scheduler running up to workers goroutines per
// stage. Values below one are raised to one.
func NewScheduler(workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{workers: workers, state: Idle, reports: make(map[string]generation.Report)}
}

// State returns the current lifecycle state.
func (sc *Scheduler) State() State { return sc.state }

// Reports returns the merged placement report per stage id from the last
// run, for diagnostics and tests. The returned map is the caller's to keep.
func (sc *Scheduler) Reports() map[string]generation.Report {
	out := make(map[string]generation.Report, len(sc.reports))
	for id, r := range sc.reports {
		out[id] = r
	}
	return out
}

// Run executes the pipeline and freezes the grid into a World. A stage
// failing aborts the run; already-dispatched sibling partitions finish
// their region, the partial result is discarded, and the typed error is
// returned. No partially-generated world ever escapes.
func (sc *Scheduler) Run(g *grid.Grid, p *Pipeline, seed uint64) (*world.World, error) {
	sc.state = Planning
	sc.reports = make(map[string]generation.Report, p.Len())
	plan, err := p.plan()
	if err != nil {
		sc.state = Failed
		return nil, err
	}

	sc.state = Executing
	regions := g.SplitInto(partitionCount)
	for _, batch := range plan.Batches {
		for _, stage := range batch {
			report, err := sc.runStage(g, stage, regions, seed)
			sc.reports[stage.ID] = report
			if err != nil {
				sc.state = Failed
				return nil, err
			}
		}
	}

	sc.state = Completed
	return g.Freeze(), nil
}

// runStage applies one stage across all partitions through the worker
// pool. Partitions are disjoint, so workers never write the same cell and
// the tile storage needs no locks.
func (sc *Scheduler) runStage(g *grid.Grid, stage *generation.Stage, regions []grid.Region, seed uint64) (generation.Report, error) {
	quotas := splitQuota(stage, regions)

	jobs := make(chan grid.Region, len(regions))
	reports := make([]generation.Report, len(regions))
	errs := make([]error, len(regions))

	nw := sc.workers
	if nw > len(regions) {
		nw = len(regions)
	}

	var wg sync.WaitGroup
	for i := 0; i < nw; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range jobs {
				reports[r.Index], errs[r.Index] = stage.Apply(g, r, quotas[r.Index], seed)
			}
		}()
	}
	for _, r := range regions {
		jobs <- r
	}
	close(jobs)
	wg.Wait()

	merged := generation.Report{StageID: stage.ID}
	for _, rep := range reports {
		merged.Merge(rep)
	}
	// Report the lowest-partition error so failures read the same on
	// every run.
	for _, err := range errs {
		if err != nil {
			return merged, err
		}
	}
	return merged, nil
}

// splitQuota divides a count-based stage's target across partitions
// proportionally to area, distributing the remainder to the largest
// fractional shares (lower index wins ties). Density stages carry no
// quota.
func splitQuota(stage *generation.Stage, regions []grid.Region) []uint32 {
	quotas := make([]uint32, len(regions))
	if stage.Placement == generation.DensityThreshold || stage.Count == 0 {
		return quotas
	}

	var total uint64
	for _, r := range regions {
		total += r.Area()
	}
	if total == 0 {
		return quotas
	}

	type frac struct {
		index int
		rem   uint64
	}
	fracs := make([]frac, len(regions))
	var assigned uint32
	for i, r := range regions {
		exact := uint64(stage.Count) * r.Area()
		quotas[i] = uint32(exact / total)
		fracs[i] = frac{index: i, rem: exact % total}
		assigned += quotas[i]
	}

	remainder := stage.Count - assigned
	for j := uint32(0); j < remainder; j++ {
		best := -1
		for i := range fracs {
			if best == -1 || fracs[i].rem > fracs[best].rem {
				best = i
			}
		}
		quotas[fracs[best].index]++
		fracs[best].rem = 0
	}
	return quotas
}
