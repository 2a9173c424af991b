package generation

// All randomness in a run is a pure function of the global seed, the stage
// id and either the partition index or the cell index. Streams are derived
// per worker task; nothing is shared, nothing depends on scheduling.

const (
	splitmixGamma = 0x9e3779b97f4a7c15
	fnvOffset     = 0xcbf29ce484222325
	fnvPrime      = 0x100000001b3
)

func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func hashID(id string) uint64 {
	h := uint64(fnvOffset)
	for i := 0; i < len(id); i++ {
		h ^= uint64(id[i])
		h *= fnvPrime
	}
	return h
}

// Stream is a splitmix64 random stream owned by a single worker task.
type Stream struct {
	state uint64
}

// Derive creates the stream for one stage's work on one partition.
func Derive(seed uint64, stageID string, partition int) *Stream {
	return &Stream{state: mix64(seed) ^ mix64(hashID(stageID)) ^ mix64(uint64(partition)+1)}
}

// Uint64 returns the next pseudo-random value.
func (s *Stream) Uint64() uint64 {
	s.state += splitmixGamma
	return mix64(s.state)
}

// Float64 returns the next pseudo-random value in [0, 1).
func (s *Stream) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// Intn returns the next pseudo-random int in [0, n).
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Uint64() % uint64(n))
}

// CellDraw returns the deterministic draw in [0, 1) for one cell of one
// stage. It depends on the cell index alone, never on partition layout, so
// density sweeps produce identical worlds for any worker count.
func CellDraw(seed uint64, stageID string, cellIndex uint64) float64 {
	v := mix64(mix64(seed) ^ mix64(hashID(stageID)) ^ mix64(cellIndex+1))
	return float64(v>>11) / (1 << 53)
}
