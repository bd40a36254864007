package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
)

func runEngine(t *testing.T, generations int, r genetic.Reporter) *genetic.Result {
	t.Helper()
	cfg := genetic.DefaultConfig()
	cfg.PopulationSize = 8
	cfg.ChromosomeLength = 16
	cfg.MaxGenerations = generations
	cfg.Objective = genetic.Sphere
	cfg.XDomain = genetic.Interval{Lo: -5, Hi: 5}
	cfg.YDomain = genetic.Interval{Lo: -5, Hi: 5}
	cfg.Seed = 77

	engine, err := genetic.NewEngine(cfg, genetic.WithReporter(r), genetic.WithRunID("run-1"))
	require.NoError(t, err)
	res, err := engine.Run(context.Background())
	require.NoError(t, err)
	return res
}

func sampleFinal() *genetic.FinalReport {
	best := &genetic.Individual{Genes: []bool{true, false, false, true}, X: -1, Fitness: 2}
	return &genetic.FinalReport{
		RunID:       "run-1",
		Seed:        77,
		Direction:   genetic.Minimize,
		Generations: 3,
		BestOverall: best,
		InitialBest: best,
	}
}

func sampleReport() *genetic.GenerationReport {
	return &genetic.GenerationReport{
		RunID:      "run-1",
		Generation: 3,
		Direction:  genetic.Minimize,
		Selected:   []int{0, 1, 1, 0},
		Population: []genetic.IndividualRow{
			{Index: 0, X: 1, Y: 2, Fitness: 4, Bits: "0110"},
			{Index: 1, X: -1, Y: 0, Fitness: 2, Bits: "1001"},
			{Index: 2, X: 0, Y: 0, Fitness: 6, Bits: "0000"},
			{Index: 3, X: 3, Y: 3, Fitness: 8, Bits: "1111"},
		},
		BestOfGeneration: &genetic.Individual{Genes: []bool{true, false, false, true}, X: -1, Fitness: 2},
		BestOverall:      &genetic.Individual{Genes: []bool{true, false, false, true}, X: -1, Fitness: 2},
	}
}

type failingReporter struct {
	err    error
	calls  int
	closed bool
}

func (f *failingReporter) ReportGeneration(context.Context, *genetic.GenerationReport) error {
	f.calls++
	return f.err
}

func (f *failingReporter) ReportFinal(context.Context, *genetic.FinalReport) error {
	f.calls++
	return f.err
}

func (f *failingReporter) Close() error {
	f.closed = true
	return f.err
}
