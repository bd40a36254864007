package genetic

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Direction selects whether smaller or larger fitness is preferred.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

// Better reports whether fitness a is preferred over fitness b.
// Every fitness comparison in the package goes through this method.
func (d Direction) Better(a, b float64) bool {
	if d == Maximize {
		return a > b
	}
	return a < b
}

// Compare orders a before b when a is better, for use with slices.SortStableFunc.
func (d Direction) Compare(a, b float64) int {
	switch {
	case d.Better(a, b):
		return -1
	case d.Better(b, a):
		return 1
	default:
		return 0
	}
}

func (d Direction) String() string {
	switch d {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if d != Minimize && d != Maximize {
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidConfig, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts "minimize"/"min" and "maximize"/"max".
func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "minimize", "min":
		*d = Minimize
	case "maximize", "max":
		*d = Maximize
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidConfig, string(text))
	}
	return nil
}

// Individual is one candidate solution: a chromosome plus its decoded phenotype.
type Individual struct {
	Genes   []bool
	RawX    uint64
	RawY    uint64
	X       float64
	Y       float64
	Fitness float64
}

// Clone returns a deep copy.
func (ind *Individual) Clone() *Individual {
	cloned := *ind
	cloned.Genes = make([]bool, len(ind.Genes))
	copy(cloned.Genes, ind.Genes)
	return &cloned
}

// CopyFrom overwrites ind with src's values, reusing ind's gene storage.
func (ind *Individual) CopyFrom(src *Individual) {
	genes := ind.Genes
	if len(genes) != len(src.Genes) {
		genes = make([]bool, len(src.Genes))
	}
	copy(genes, src.Genes)
	*ind = *src
	ind.Genes = genes
}

type individualJSON struct {
	Bits    string  `json:"bits"`
	RawX    uint64  `json:"raw_x"`
	RawY    uint64  `json:"raw_y"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Fitness float64 `json:"fitness"`
}

// MarshalJSON writes the chromosome as a bit string.
func (ind *Individual) MarshalJSON() ([]byte, error) {
	return json.Marshal(individualJSON{
		Bits:    ind.Bits(),
		RawX:    ind.RawX,
		RawY:    ind.RawY,
		X:       ind.X,
		Y:       ind.Y,
		Fitness: ind.Fitness,
	})
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (ind *Individual) UnmarshalJSON(data []byte) error {
	var v individualJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	genes, err := ParseBits(v.Bits)
	if err != nil {
		return err
	}
	*ind = Individual{Genes: genes, RawX: v.RawX, RawY: v.RawY, X: v.X, Y: v.Y, Fitness: v.Fitness}
	return nil
}

// Bits renders the chromosome as a string of 0s and 1s.
func (ind *Individual) Bits() string {
	var sb strings.Builder
	sb.Grow(len(ind.Genes))
	for _, g := range ind.Genes {
		if g {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseBits is the inverse of Bits.
func ParseBits(s string) ([]bool, error) {
	genes := make([]bool, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			genes[i] = true
		default:
			return nil, fmt.Errorf("invalid bit %q at position %d", s[i], i)
		}
	}
	return genes, nil
}

// Population is the ordered set of individuals evolved by the engine.
// Slot 0 is the one elitism writes to.
type Population struct {
	Individuals []*Individual
}

// Size returns the number of individuals.
func (p *Population) Size() int {
	return len(p.Individuals)
}

// BestIndex returns the index of the best individual under d, the first one on ties.
func (p *Population) BestIndex(d Direction) int {
	if len(p.Individuals) == 0 {
		return -1
	}
	best := 0
	for i, ind := range p.Individuals {
		if d.Better(ind.Fitness, p.Individuals[best].Fitness) {
			best = i
		}
	}
	return best
}

// GetBest returns a clone of the best individual under d, or nil when empty.
func (p *Population) GetBest(d Direction) *Individual {
	idx := p.BestIndex(d)
	if idx < 0 {
		return nil
	}
	return p.Individuals[idx].Clone()
}

// Fitnesses returns the fitness of every individual in slot order.
func (p *Population) Fitnesses() []float64 {
	out := make([]float64, len(p.Individuals))
	for i, ind := range p.Individuals {
		out[i] = ind.Fitness
	}
	return out
}

// Clone deep-copies the population.
func (p *Population) Clone() *Population {
	cloned := &Population{Individuals: make([]*Individual, len(p.Individuals))}
	for i, ind := range p.Individuals {
		cloned.Individuals[i] = ind.Clone()
	}
	return cloned
}
