package genetic

// Rand is the subset of *math/rand.Rand the engine draws from.
// Tests substitute a scripted source to pin down exact draw sequences.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// flip is a biased coin: true with probability p.
func flip(rng Rand, p float64) bool {
	return rng.Float64() < p
}
