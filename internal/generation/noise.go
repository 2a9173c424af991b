package generation

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Field is a deterministic simplex noise field used to modulate
// density-threshold placement, so a stage can cluster its target instead of
// sprinkling it evenly. The field is a pure function of the run seed and
// the stage id.
type Field struct {
	noise opensimplex.Noise
	scale float64
}

// NewField derives the stage's noise field from the global seed.
func NewField(seed uint64, stageID string, scale float64) *Field {
	return &Field{
		noise: opensimplex.NewNormalized(int64(mix64(seed) ^ hashID(stageID))),
		scale: scale,
	}
}

// At samples the field at a cell coordinate, returning a value in [0, 1].
func (f *Field) At(x, y uint32) float64 {
	return f.noise.Eval2(float64(x)*f.scale, float64(y)*f.scale)
}
