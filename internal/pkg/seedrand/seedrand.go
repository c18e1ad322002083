package seedrand

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619

	lcgMultiplier uint64 = 48271
	lcgModulus    uint64 = 1<<31 - 1
)

// Rand is a deterministic generator seeded from a string. Two instances
// built from the same seed produce identical sequences. It is display-only
// randomness for demo data, not a security primitive.
type Rand struct {
	state uint64
}

// New hashes the seed with FNV-1a and uses the result as the initial state
// of a Lehmer-style LCG.
func New(seed string) *Rand {
	h := fnvOffsetBasis
	for i := 0; i < len(seed); i++ {
		h ^= uint32(seed[i])
		h *= fnvPrime
	}
	return &Rand{state: uint64(h)}
}

// Float64 advances the generator and returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	r.state = (lcgMultiplier * r.state) % lcgModulus
	return float64(r.state&lcgModulus) / float64(lcgModulus)
}

// IntN returns a value in [0, n). n must be positive.
func (r *Rand) IntN(n int) int {
	return int(r.Float64() * float64(n))
}

// Pick returns a pseudo-random element of items.
func Pick[T any](r *Rand, items []T) T {
	return items[r.IntN(len(items))]
}
