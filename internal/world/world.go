package world

// World is a completed, immutable grid of tiles produced by one generation
// run or loaded from storage. Every cell is populated; nothing mutates it
// after construction.
type World struct {
	width  uint32
	height uint32
	tiles  []Tile // row-major
}

// MinDimension is the smallest accepted width or height.
const MinDimension = 100

// NewWorld wraps a fully-populated row-major tile slice. The caller (the
// grid freeze or the codec) guarantees len(tiles) == width*height.
func NewWorld(width, height uint32, tiles []Tile) *World {
	return &World{width: width, height: height, tiles: tiles}
}

// Width returns the world width in cells.
func (w *World) Width() uint32 { return w.width }

// Height returns the world height in cells.
func (w *World) Height() uint32 { return w.height }

// At returns the tile at (x, y). Coordinates outside the world return a
// zero Tile and false.
func (w *World) At(x, y uint32) (Tile, bool) {
	if x >= w.width || y >= w.height {
		return Tile{}, false
	}
	return w.tiles[y*w.width+x], true
}

// Tiles returns the row-major cell slice. Callers must not modify it.
func (w *World) Tiles() []Tile { return w.tiles }

// Equal reports whether two worlds have identical dimensions and cells.
func (w *World) Equal(other *World) bool {
	if other == nil || w.width != other.width || w.height != other.height {
		return false
	}
	for i := range w.tiles {
		if w.tiles[i] != other.tiles[i] {
			return false
		}
	}
	return true
}

// KindPercentages returns the fraction of cells covered by each terrain kind.
func (w *World) KindPercentages() map[TileKind]float64 {
	total := float64(len(w.tiles))
	out := make(map[TileKind]float64)
	for _, t := range w.tiles {
		out[t.Kind] += 1.0
	}
	for k := range out {
		out[k] /= total
	}
	return out
}

// ContentPercentages returns the fraction of cells carrying each content kind.
// Cells without content are not counted.
func (w *World) ContentPercentages() map[ContentKind]float64 {
	total := float64(len(w.tiles))
	out := make(map[ContentKind]float64)
	for _, t := range w.tiles {
		if t.HasContent {
			out[t.Content] += 1.0
		}
	}
	for c := range out {
		out[c] /= total
	}
	return out
}
