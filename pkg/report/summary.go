package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
)

// Summary describes the fitness distribution of one population.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Best   float64 `json:"best"`
}

// Summarize computes the sample statistics of fitness. Best is Min or Max
// depending on d. An empty slice yields the zero Summary.
func Summarize(fitness []float64, d genetic.Direction) Summary {
	if len(fitness) == 0 {
		return Summary{}
	}

	s := Summary{
		Count: len(fitness),
		Min:   floats.Min(fitness),
		Max:   floats.Max(fitness),
	}
	if len(fitness) == 1 {
		s.Mean = fitness[0]
	} else {
		s.Mean, s.StdDev = stat.MeanStdDev(fitness, nil)
	}

	s.Best = s.Min
	if d == genetic.Maximize {
		s.Best = s.Max
	}
	return s
}

// SummarizeReport summarizes the population rows of r.
func SummarizeReport(r *genetic.GenerationReport) Summary {
	fitness := make([]float64, len(r.Population))
	for i, row := range r.Population {
		fitness[i] = row.Fitness
	}
	return Summarize(fitness, r.Direction)
}
