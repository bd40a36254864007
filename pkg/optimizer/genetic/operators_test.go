package genetic

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func permutations(values []float64) [][]float64 {
	if len(values) <= 1 {
		return [][]float64{append([]float64(nil), values...)}
	}
	var out [][]float64
	for i := range values {
		rest := make([]float64, 0, len(values)-1)
		rest = append(rest, values[:i]...)
		rest = append(rest, values[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]float64{values[i]}, p...))
		}
	}
	return out
}

func TestTournamentSelector_PickAllOrderings(t *testing.T) {
	for _, dir := range []Direction{Minimize, Maximize} {
		for _, fitness := range permutations([]float64{1, 2, 3}) {
			pop := populationOf(fitness...)
			s := NewTournamentSelector(dir, 3, nil)

			got := s.Pick(pop, []int{0, 1, 2})
			require.Len(t, got, 2)

			first, second := 1.0, 2.0
			if dir == Maximize {
				first, second = 3.0, 2.0
			}
			assert.Equal(t, first, pop.Individuals[got[0]].Fitness, "%s %v", dir, fitness)
			assert.Equal(t, second, pop.Individuals[got[1]].Fitness, "%s %v", dir, fitness)
		}
	}
}

func TestTournamentSelector_SelectDrawsThreePerPair(t *testing.T) {
	pop := populationOf(4, 3, 2, 1)
	rng := newScriptedRand([]int{0, 1, 2, 3, 3, 0}, nil)
	s := NewTournamentSelector(Minimize, 3, rng)

	selected := make([]int, 4)
	s.Select(pop, selected)

	assert.Equal(t, []int{2, 1, 3, 3}, selected)
	assert.Equal(t, 6, rng.intDraws)
	assert.Equal(t, 0, rng.fltDraws)
}

func TestTournamentSelector_TiesKeepDrawOrder(t *testing.T) {
	pop := populationOf(7, 7, 7, 7)
	s := NewTournamentSelector(Maximize, 3, nil)

	assert.Equal(t, []int{2, 0}, s.Pick(pop, []int{2, 0, 3}))
	assert.Equal(t, []int{1, 1}, s.Pick(pop, []int{1, 1, 1}))
}

func TestTournamentSelector_LargerTournament(t *testing.T) {
	pop := populationOf(9, 8, 7, 6, 5)
	s := NewTournamentSelector(Minimize, 5, nil)

	assert.Equal(t, []int{4, 3}, s.Pick(pop, []int{0, 1, 2, 3, 4}))
}

func TestRankTopK(t *testing.T) {
	cmp := func(a, b int) int { return a - b }

	assert.Equal(t, []int{1, 2}, RankTopK([]int{3, 1, 2}, 2, cmp))
	assert.Equal(t, []int{1, 2, 3}, RankTopK([]int{3, 1, 2}, 10, cmp))

	in := []int{3, 1, 2}
	RankTopK(in, 1, cmp)
	assert.Equal(t, []int{3, 1, 2}, in)
}

func randomGenes(rng *rand.Rand, n int) []bool {
	genes := make([]bool, n)
	for i := range genes {
		genes[i] = rng.Intn(2) == 1
	}
	return genes
}

func TestCrossAt_ConservesBitsAtEveryPosition(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const l = 32

	for trial := 0; trial < 50; trial++ {
		p1, p2 := randomGenes(rng, l), randomGenes(rng, l)
		for _, zeroCopies := range []bool{false, true} {
			for site := 0; site < l; site++ {
				c1, c2 := make([]bool, l), make([]bool, l)
				CrossAt(site, zeroCopies, p1, p2, c1, c2)

				for i := 0; i < l; i++ {
					sameOrder := c1[i] == p1[i] && c2[i] == p2[i]
					swapped := c1[i] == p2[i] && c2[i] == p1[i]
					if !sameOrder && !swapped {
						t.Fatalf("site %d position %d: bits not conserved", site, i)
					}
				}
			}
		}
	}
}

func TestCrossAt_InclusiveBoundary(t *testing.T) {
	p1 := []bool{true, true, true, true, true, true}
	p2 := []bool{false, false, false, false, false, false}
	c1, c2 := make([]bool, 6), make([]bool, 6)

	CrossAt(2, false, p1, p2, c1, c2)
	assert.Equal(t, []bool{true, true, true, false, false, false}, c1)
	assert.Equal(t, []bool{false, false, false, true, true, true}, c2)

	CrossAt(5, false, p1, p2, c1, c2)
	assert.Equal(t, p1, c1)
	assert.Equal(t, p2, c2)
}

func TestCrossAt_SiteZero(t *testing.T) {
	p1 := []bool{true, true, true, true}
	p2 := []bool{false, false, false, false}
	c1, c2 := make([]bool, 4), make([]bool, 4)

	CrossAt(0, false, p1, p2, c1, c2)
	assert.Equal(t, []bool{true, false, false, false}, c1)
	assert.Equal(t, []bool{false, true, true, true}, c2)

	CrossAt(0, true, p1, p2, c1, c2)
	assert.Equal(t, p1, c1)
	assert.Equal(t, p2, c2)
}

func TestOnePointCrossover_DrawsOneSite(t *testing.T) {
	rng := newScriptedRand([]int{3}, nil)
	c := NewOnePointCrossover(false, rng)

	p1 := []bool{true, true, true, true, true, true, true, true}
	p2 := make([]bool, 8)
	c1, c2 := make([]bool, 8), make([]bool, 8)

	site := c.Crossover(p1, p2, c1, c2)

	assert.Equal(t, 3, site)
	assert.Equal(t, 1, rng.intDraws)
	assert.Equal(t, []bool{true, true, true, true, false, false, false, false}, c1)
	assert.Equal(t, []bool{false, false, false, false, true, true, true, true}, c2)
	assert.Equal(t, make([]bool, 8), p2)
}

func TestBitFlipMutator_EmpiricalRate(t *testing.T) {
	for _, p := range []float64{0.01, 0.08, 0.5} {
		m := NewBitFlipMutator(p, rand.New(rand.NewSource(11)))
		const bits = 32
		const trials = 10000

		src := make([]bool, bits)
		dst := make([]bool, bits)
		flips := 0
		for i := 0; i < trials; i++ {
			flips += m.Mutate(src, dst)
		}

		rate := float64(flips) / float64(bits*trials)
		sigma := math.Sqrt(p * (1 - p) / float64(bits*trials))
		assert.InDelta(t, p, rate, 6*sigma, "p=%g", p)
	}
}

func TestBitFlipMutator_Extremes(t *testing.T) {
	src := []bool{true, false, true, false}

	dst := make([]bool, 4)
	rng := newScriptedRand(nil, nil)
	assert.Equal(t, 0, NewBitFlipMutator(0, rng).Mutate(src, dst))
	assert.Equal(t, src, dst)
	assert.Equal(t, 4, rng.fltDraws)

	assert.Equal(t, 4, NewBitFlipMutator(1, rand.New(rand.NewSource(1))).Mutate(src, dst))
	assert.Equal(t, []bool{false, true, false, true}, dst)
}

func TestBitFlipMutator_FlipsOnlyBelowRate(t *testing.T) {
	rng := newScriptedRand(nil, []float64{0.5, 0.01, 0.3, 0.2999})
	dst := make([]bool, 4)

	flips := NewBitFlipMutator(0.3, rng).Mutate([]bool{false, false, false, false}, dst)

	assert.Equal(t, 2, flips)
	assert.Equal(t, []bool{false, true, false, true}, dst)
}
