package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamIsDeterministic(t *testing.T) {
	a := Derive(42, "lakes", 3)
	b := Derive(42, "lakes", 3)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestStreamsDifferPerInput(t *testing.T) {
	base := Derive(42, "lakes", 3).Uint64()
	assert.NotEqual(t, base, Derive(43, "lakes", 3).Uint64())
	assert.NotEqual(t, base, Derive(42, "rocks", 3).Uint64())
	assert.NotEqual(t, base, Derive(42, "lakes", 4).Uint64())
}

func TestFloat64Range(t *testing.T) {
	s := Derive(7, "x", 0)
	for i := 0; i < 1000; i++ {
		v := s.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestIntnBounds(t *testing.T) {
	s := Derive(7, "x", 0)
	for i := 0; i < 1000; i++ {
		v := s.Intn(10)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
	assert.Equal(t, 0, s.Intn(0))
	assert.Equal(t, 0, s.Intn(-5))
}

func TestCellDrawIsPure(t *testing.T) {
	for i := uint64(0); i < 100; i++ {
		assert.Equal(t, CellDraw(9, "sand", i), CellDraw(9, "sand", i))
	}
	assert.NotEqual(t, CellDraw(9, "sand", 5), CellDraw(9, "sand", 6))
	assert.NotEqual(t, CellDraw(9, "sand", 5), CellDraw(9, "snow", 5))
	assert.NotEqual(t, CellDraw(9, "sand", 5), CellDraw(10, "sand", 5))
}

func TestFieldIsDeterministic(t *testing.T) {
	a := NewField(11, "hills", 0.05)
	b := NewField(11, "hills", 0.05)
	for y := uint32(0); y < 10; y++ {
		for x := uint32(0); x < 10; x++ {
			va := a.At(x, y)
			assert.Equal(t, va, b.At(x, y))
			assert.GreaterOrEqual(t, va, 0.0)
			assert.LessOrEqual(t, va, 1.0)
		}
	}
}
