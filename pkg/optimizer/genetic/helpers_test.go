package genetic

import (
	"context"
	"math/rand"
)

// scriptedRand replays fixed draws, then falls back to a seeded source.
type scriptedRand struct {
	ints     []int
	floats   []float64
	intDraws int
	fltDraws int
	fallback *rand.Rand
}

func newScriptedRand(ints []int, floats []float64) *scriptedRand {
	return &scriptedRand{ints: ints, floats: floats, fallback: rand.New(rand.NewSource(1))}
}

func (s *scriptedRand) Intn(n int) int {
	s.intDraws++
	if len(s.ints) > 0 {
		v := s.ints[0]
		s.ints = s.ints[1:]
		return v % n
	}
	return s.fallback.Intn(n)
}

func (s *scriptedRand) Float64() float64 {
	s.fltDraws++
	if len(s.floats) > 0 {
		v := s.floats[0]
		s.floats = s.floats[1:]
		return v
	}
	return s.fallback.Float64()
}

type recordingReporter struct {
	generations []*GenerationReport
	final       *FinalReport
	failAt      int
	err         error
}

func (r *recordingReporter) ReportGeneration(ctx context.Context, rep *GenerationReport) error {
	if r.err != nil && rep.Generation == r.failAt {
		return r.err
	}
	r.generations = append(r.generations, rep)
	return nil
}

func (r *recordingReporter) ReportFinal(ctx context.Context, rep *FinalReport) error {
	r.final = rep
	return nil
}

func populationOf(fitness ...float64) *Population {
	pop := &Population{}
	for _, f := range fitness {
		pop.Individuals = append(pop.Individuals, &Individual{Genes: make([]bool, 4), Fitness: f})
	}
	return pop
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Seed = 20121109
	cfg.MaxGenerations = 200
	return cfg
}
