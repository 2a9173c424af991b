// Package generation implements the per-stage placement algorithms, the
// constraint checker that guards every write, and the derived random
// streams that keep results independent of thread scheduling.
package generation

import (
	"errors"
	"fmt"

	"gridforge.dev/internal/grid"
	"gridforge.dev/internal/world"
)

// ErrUnsatisfiable is returned when a stage cannot meet its required count
// or density within its attempt budget. It aborts the whole run.
var ErrUnsatisfiable = errors.New("generation: unsatisfiable constraint")

// Algorithm selects the placement strategy of a stage. The set is closed;
// new strategies are new tags, not new interfaces.
type Algorithm uint8

const (
	UniformRandom Algorithm = iota
	DensityThreshold
	Spreading
)

func (a Algorithm) String() string {
	switch a {
	case UniformRandom:
		return "uniform_random"
	case DensityThreshold:
		return "density_threshold"
	case Spreading:
		return "spreading"
	}
	return fmt.Sprintf("algorithm(%d)", uint8(a))
}

// ParseAlgorithm maps a descriptor name to its Algorithm tag.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "uniform_random":
		return UniformRandom, nil
	case "density_threshold":
		return DensityThreshold, nil
	case "spreading":
		return Spreading, nil
	}
	return 0, fmt.Errorf("unrecognized placement algorithm %q", name)
}

// Stage is one configured generation pass targeting a single tile kind or
// content kind. Stages are pure descriptors; Apply does the work.
type Stage struct {
	ID       string
	Priority uint32

	// Target: exactly one of terrain kind or content kind.
	Kind      world.TileKind
	Content   world.ContentKind
	IsContent bool

	Placement   Algorithm
	Density     float64 // density_threshold probability, spreading continuation
	Count       uint32  // uniform_random / spreading placement target
	MaxAttempts uint32  // per required placement; 0 means one pass, no retries

	DependsOn []string

	// Constraint knobs consulted by the checker.
	Overwrite    bool             // tile-kind stages may re-assign, content stages may replace
	RequiresKind []world.TileKind // content prerequisite; empty falls back to the CanHold matrix
	MinSpacing   int              // Chebyshev minimum distance between same-content placements

	// NoiseScale > 0 modulates density_threshold probability with a
	// deterministic simplex field at that coordinate scale.
	NoiseScale float64
}

// Target names the stage's target tag for logs and reports.
func (s *Stage) Target() string {
	if s.IsContent {
		return s.Content.String()
	}
	return s.Kind.String()
}

// Report describes what one Apply call changed, for diagnostics and tests.
type Report struct {
	StageID  string
	Placed   uint32
	Attempts uint32
	Rejected uint32
}

// Merge folds another partition's report into this one.
func (r *Report) Merge(other Report) {
	r.Placed += other.Placed
	r.Attempts += other.Attempts
	r.Rejected += other.Rejected
}

// Apply runs the stage's placement algorithm over one region of the grid.
// quota is the region's share of a count-based target. Every write goes
// through the checker; writes never leave the region. A failure to meet the
// quota within the attempt budget returns ErrUnsatisfiable.
func (s *Stage) Apply(g *grid.Grid, region grid.Region, quota uint32, seed uint64) (Report, error) {
	report := Report{StageID: s.ID}
	checker := NewChecker(s, g, region)
	stream := Derive(seed, s.ID, region.Index)

	var err error
	switch s.Placement {
	case UniformRandom:
		err = s.applyUniform(g, region, quota, checker, stream, &report)
	case DensityThreshold:
		err = s.applyDensity(g, region, checker, seed, &report)
	case Spreading:
		err = s.applySpreading(g, region, quota, checker, stream, &report)
	default:
		err = fmt.Errorf("stage %q: unrecognized placement algorithm %d", s.ID, s.Placement)
	}
	return report, err
}

// place writes the stage's target into the cell. The checker has already
// accepted the candidate.
func (s *Stage) place(g *grid.Grid, x, y uint32) {
	if s.IsContent {
		g.SetContent(x, y, s.Content)
	} else {
		g.SetKind(x, y, s.Kind)
	}
}

func (s *Stage) unsatisfiable(region grid.Region, placed, quota uint32) error {
	return fmt.Errorf("%w: stage %q placed %d of %d in partition %d",
		ErrUnsatisfiable, s.ID, placed, quota, region.Index)
}
