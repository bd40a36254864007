package genetic

import "math"

// MaxHalfBits bounds each chromosome half so raw values stay exact in a float64.
const MaxHalfBits = 32

// Interval is a closed real range [Lo, Hi].
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Map sends raw in [0, maxRaw] affinely onto [Lo, Hi].
func (iv Interval) Map(raw, maxRaw uint64) float64 {
	if maxRaw == 0 {
		return iv.Lo
	}
	if raw >= maxRaw {
		return iv.Hi
	}
	return float64(raw)/float64(maxRaw)*(iv.Hi-iv.Lo) + iv.Lo
}

// Contains reports whether v lies in [Lo, Hi].
func (iv Interval) Contains(v float64) bool {
	return v >= iv.Lo && v <= iv.Hi
}

func (iv Interval) valid() bool {
	return !math.IsNaN(iv.Lo) && !math.IsNaN(iv.Hi) &&
		!math.IsInf(iv.Lo, 0) && !math.IsInf(iv.Hi, 0) && iv.Lo < iv.Hi
}

// MaxRaw is the largest value a half of halfBits bits can hold.
func MaxRaw(halfBits int) uint64 {
	return 1<<uint(halfBits) - 1
}

// DecodeHalf reads bits big-endian: bits[0] is the most significant.
func DecodeHalf(bits []bool) uint64 {
	var v uint64
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

// Decode splits the chromosome into two halves and decodes each.
func Decode(genes []bool) (rawX, rawY uint64) {
	half := len(genes) / 2
	return DecodeHalf(genes[:half]), DecodeHalf(genes[half : 2*half])
}

// EncodeHalf writes v into bits big-endian bits; higher bits of v are dropped.
func EncodeHalf(v uint64, bits int) []bool {
	out := make([]bool, bits)
	for i := bits - 1; i >= 0; i-- {
		out[i] = v&1 == 1
		v >>= 1
	}
	return out
}

// Encode builds a chromosome whose halves decode to rawX and rawY.
func Encode(rawX, rawY uint64, halfBits int) []bool {
	return append(EncodeHalf(rawX, halfBits), EncodeHalf(rawY, halfBits)...)
}

// Decoder turns chromosomes into phenotypes and fitness for one problem.
type Decoder struct {
	XDomain   Interval
	YDomain   Interval
	HalfBits  int
	Objective Objective
}

// Phenotype maps raw values into the configured domains.
func (d *Decoder) Phenotype(rawX, rawY uint64) (x, y float64) {
	maxRaw := MaxRaw(d.HalfBits)
	return d.XDomain.Map(rawX, maxRaw), d.YDomain.Map(rawY, maxRaw)
}

// Evaluate re-synchronizes ind's raw values, phenotype and fitness with its genes.
func (d *Decoder) Evaluate(ind *Individual) error {
	ind.RawX, ind.RawY = Decode(ind.Genes)
	ind.X, ind.Y = d.Phenotype(ind.RawX, ind.RawY)
	ind.Fitness = d.Objective(ind.X, ind.Y)
	if math.IsNaN(ind.Fitness) || math.IsInf(ind.Fitness, 0) {
		return &NonFiniteError{X: ind.X, Y: ind.Y, Fitness: ind.Fitness}
	}
	return nil
}
