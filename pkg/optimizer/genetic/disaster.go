package genetic

// Disaster re-randomizes every second individual to restore diversity.
type Disaster struct {
	rng Rand
}

// NewDisaster creates a disaster operator drawing from rng.
func NewDisaster(rng Rand) *Disaster {
	return &Disaster{rng: rng}
}

// Apply picks offset 0 or 1, re-randomizes slots offset, offset+2, ... and
// re-evaluates each of them. It returns the offset and the touched slots.
func (d *Disaster) Apply(pop *Population, decoder *Decoder) (int, []int, error) {
	offset := d.rng.Intn(2)
	touched := make([]int, 0, pop.Size()/2)
	for i := offset; i < pop.Size(); i += 2 {
		ind := pop.Individuals[i]
		randomizeGenes(d.rng, ind.Genes)
		if err := decoder.Evaluate(ind); err != nil {
			return offset, touched, err
		}
		touched = append(touched, i)
	}
	return offset, touched, nil
}

func randomizeGenes(rng Rand, genes []bool) {
	for j := range genes {
		genes[j] = flip(rng, 0.5)
	}
}
