package genetic

import "slices"

// SelectionOperator fills selected with parent indices, consumed two at a time.
type SelectionOperator interface {
	Select(pop *Population, selected []int)
}

// CrossoverOperator writes two children built from two parents and returns the cut site.
type CrossoverOperator interface {
	Crossover(parent1, parent2, child1, child2 []bool) int
}

// MutationOperator copies src into dst, flipping bits, and returns how many flipped.
type MutationOperator interface {
	Mutate(src, dst []bool) int
}

// RankTopK stable-sorts a copy of candidates with cmp and returns the first k.
// Equal candidates keep their original order.
func RankTopK[T any](candidates []T, k int, cmp func(a, b T) int) []T {
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, cmp)
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// TournamentSelector draws Size indices with replacement per pair and keeps the best two.
type TournamentSelector struct {
	Direction Direction
	Size      int
	rng       Rand
}

// NewTournamentSelector creates a selector drawing size candidates per pair.
func NewTournamentSelector(direction Direction, size int, rng Rand) *TournamentSelector {
	return &TournamentSelector{
		Direction: direction,
		Size:      size,
		rng:       rng,
	}
}

// Select fills selected pairwise; len(selected) is normally the population size.
func (s *TournamentSelector) Select(pop *Population, selected []int) {
	n := pop.Size()
	draws := make([]int, s.Size)
	for i := 0; i+1 < len(selected); i += 2 {
		for j := range draws {
			draws[j] = s.rng.Intn(n)
		}
		top := s.Pick(pop, draws)
		selected[i], selected[i+1] = top[0], top[1]
	}
}

// Pick ranks the drawn indices by fitness and returns the best two, best first.
func (s *TournamentSelector) Pick(pop *Population, draws []int) []int {
	return RankTopK(draws, 2, func(a, b int) int {
		return s.Direction.Compare(pop.Individuals[a].Fitness, pop.Individuals[b].Fitness)
	})
}

// OnePointCrossover cuts both parents after a random site.
type OnePointCrossover struct {
	ZeroSiteCopiesParents bool
	rng                   Rand
}

// NewOnePointCrossover creates a one-point crossover operator.
func NewOnePointCrossover(zeroSiteCopiesParents bool, rng Rand) *OnePointCrossover {
	return &OnePointCrossover{
		ZeroSiteCopiesParents: zeroSiteCopiesParents,
		rng:                   rng,
	}
}

// Crossover draws site in [0, L) and applies CrossAt.
func (c *OnePointCrossover) Crossover(parent1, parent2, child1, child2 []bool) int {
	site := c.rng.Intn(len(parent1))
	CrossAt(site, c.ZeroSiteCopiesParents, parent1, parent2, child1, child2)
	return site
}

// CrossAt gives child1 bits [0, site] of parent1 and the rest of parent2;
// child2 gets the complement. With zeroSiteCopies a site of 0 copies the
// parents through unchanged.
func CrossAt(site int, zeroSiteCopies bool, parent1, parent2, child1, child2 []bool) {
	if zeroSiteCopies && site == 0 {
		site = len(parent1) - 1
	}
	for i := range parent1 {
		if i <= site {
			child1[i] = parent1[i]
			child2[i] = parent2[i]
		} else {
			child1[i] = parent2[i]
			child2[i] = parent1[i]
		}
	}
}

// BitFlipMutator flips each bit independently with probability Rate.
type BitFlipMutator struct {
	Rate float64
	rng  Rand
}

// NewBitFlipMutator creates a per-bit mutation operator.
func NewBitFlipMutator(rate float64, rng Rand) *BitFlipMutator {
	return &BitFlipMutator{
		Rate: rate,
		rng:  rng,
	}
}

// Mutate draws once per bit of src.
func (m *BitFlipMutator) Mutate(src, dst []bool) int {
	flips := 0
	for i, bit := range src {
		if flip(m.rng, m.Rate) {
			dst[i] = !bit
			flips++
		} else {
			dst[i] = bit
		}
	}
	return flips
}
