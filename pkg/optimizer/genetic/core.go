package genetic

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kasuganosora/sga/pkg/api"
	"github.com/kasuganosora/sga/pkg/monitor"
)

// Engine evolves one population. It is single-threaded and owns the
// population, the generation buffer and the random source exclusively.
type Engine struct {
	config  *Config
	decoder *Decoder

	selector  SelectionOperator
	crossover CrossoverOperator
	mutator   MutationOperator
	disaster  *Disaster

	rng      Rand
	seed     int64
	runID    string
	reporter Reporter
	metrics  *monitor.RunMetrics
	logger   api.Logger

	pop         *Population
	next        [][]bool
	selected    []int
	generation  int
	bestOfGen   *Individual
	bestOverall *Individual
	initialBest *Individual
	startTime   time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRand replaces the seeded math/rand source.
func WithRand(rng Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithReporter attaches the reporting collaborator.
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithLogger sets the logger; the default discards output.
func WithLogger(l api.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records run counters into m.
func WithMetrics(m *monitor.RunMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// NewEngine validates config and wires the default operators.
func NewEngine(config *Config, opts ...Option) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		config: config,
		decoder: &Decoder{
			XDomain:   config.XDomain,
			YDomain:   config.YDomain,
			HalfBits:  config.HalfBits(),
			Objective: config.Objective,
		},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.rng == nil {
		e.seed = config.Seed
		if e.seed == 0 {
			e.seed = time.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(e.seed))
	} else {
		e.seed = config.Seed
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	if e.logger == nil {
		e.logger = api.NewNoOpLogger()
	}
	if e.metrics == nil {
		e.metrics = monitor.NewRunMetrics(0)
	}

	e.selector = NewTournamentSelector(config.Direction, config.TournamentSize, e.rng)
	e.crossover = NewOnePointCrossover(config.ZeroSiteCopiesParents, e.rng)
	e.mutator = NewBitFlipMutator(config.MutationRate, e.rng)
	e.disaster = NewDisaster(e.rng)

	return e, nil
}

// RunID identifies this run in every report.
func (e *Engine) RunID() string { return e.runID }

// Seed returns the seed of the default random source, or Config.Seed when
// a custom source was supplied.
func (e *Engine) Seed() int64 { return e.seed }

// Generation is the number of the last completed generation, 0 after Initialize.
func (e *Engine) Generation() int { return e.generation }

// Population returns the live population. Callers must not modify it.
func (e *Engine) Population() *Population { return e.pop }

// Selected returns the selection buffer of the last generation.
func (e *Engine) Selected() []int { return e.selected }

// BestOverall returns a copy of the best individual seen so far.
func (e *Engine) BestOverall() *Individual {
	if e.bestOverall == nil {
		return nil
	}
	return e.bestOverall.Clone()
}

// Decoder returns the decoder bound to the configured domain and objective.
func (e *Engine) Decoder() *Decoder { return e.decoder }

// Initialize creates a random population and reports it as generation 0.
func (e *Engine) Initialize(ctx context.Context) error {
	n, l := e.config.PopulationSize, e.config.ChromosomeLength

	e.startTime = time.Now()
	e.generation = 0
	e.bestOfGen, e.bestOverall = nil, nil
	e.selected = make([]int, n)
	e.next = make([][]bool, n)
	e.pop = &Population{Individuals: make([]*Individual, n)}

	for i := 0; i < n; i++ {
		e.next[i] = make([]bool, l)
		ind := &Individual{Genes: make([]bool, l)}
		randomizeGenes(e.rng, ind.Genes)
		if err := e.decoder.Evaluate(ind); err != nil {
			return api.WrapError(err, api.ErrCodeInternal, fmt.Sprintf("initial individual %d", i))
		}
		e.pop.Individuals[i] = ind
	}
	e.initialBest = e.pop.GetBest(e.config.Direction)

	e.logger.Debug("run %s initialized: N=%d L=%d pMut=%g seed=%d", e.runID, n, l, e.config.MutationRate, e.seed)

	return e.report(ctx, &GenerationReport{})
}

// Step runs one full generation: best capture, disaster, selection,
// crossover, mutation, evaluation, elitism and report.
func (e *Engine) Step(ctx context.Context) error {
	if e.pop == nil {
		return api.NewError(api.ErrCodeInternal, "step called before initialize", nil)
	}

	gen := e.generation + 1
	start := time.Now()
	dir := e.config.Direction
	n := e.pop.Size()
	rep := &GenerationReport{}

	e.bestOfGen = e.pop.GetBest(dir)
	if e.updateBestOverall(e.bestOfGen) {
		e.metrics.RecordImprovement(gen)
		e.logger.Debug("generation %d: best overall %.6f at (%.4f, %.4f)", gen, e.bestOverall.Fitness, e.bestOverall.X, e.bestOverall.Y)
	}

	if e.config.DisasterPeriod > 0 && gen%e.config.DisasterPeriod == 0 {
		offset, _, err := e.disaster.Apply(e.pop, e.decoder)
		if err != nil {
			return api.WrapError(err, api.ErrCodeInternal, fmt.Sprintf("generation %d: disaster", gen))
		}
		rep.Disaster, rep.DisasterOffset = true, offset
		e.metrics.RecordDisaster()
		e.logger.Debug("generation %d: disaster from offset %d", gen, offset)
	}

	e.selector.Select(e.pop, e.selected)

	for i := 0; i+1 < n; i += 2 {
		p1 := e.pop.Individuals[e.selected[i]].Genes
		p2 := e.pop.Individuals[e.selected[i+1]].Genes
		e.crossover.Crossover(p1, p2, e.next[i], e.next[i+1])
	}

	flips := 0
	for i, ind := range e.pop.Individuals {
		flips += e.mutator.Mutate(e.next[i], ind.Genes)
	}

	for i, ind := range e.pop.Individuals {
		if err := e.decoder.Evaluate(ind); err != nil {
			return api.WrapError(err, api.ErrCodeInternal, fmt.Sprintf("generation %d: individual %d", gen, i))
		}
	}

	if e.config.Elitism && e.applyElitism(e.bestOfGen) {
		rep.EliteRestored = true
		e.metrics.RecordEliteRestore()
	}

	e.generation = gen
	e.metrics.RecordGeneration(time.Since(start), flips)

	if gen%e.config.ReportInterval == 0 {
		return e.report(ctx, rep)
	}
	return nil
}

// Run initializes the population if needed, evolves MaxGenerations
// generations and emits the final report. On cancellation it returns the
// partial result together with the error.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if e.pop == nil {
		if err := e.Initialize(ctx); err != nil {
			return nil, err
		}
	}

	for e.generation < e.config.MaxGenerations {
		select {
		case <-ctx.Done():
			e.logger.Warn("run %s cancelled at generation %d", e.runID, e.generation)
			return e.result(), api.WrapError(ctx.Err(), api.ErrCodeCancelled, fmt.Sprintf("cancelled at generation %d", e.generation))
		default:
		}

		if err := e.Step(ctx); err != nil {
			return e.result(), err
		}
	}

	if err := e.Finalize(ctx); err != nil {
		return e.result(), err
	}
	return e.result(), nil
}

// Finalize folds the last population into BestOverall and emits the final report.
func (e *Engine) Finalize(ctx context.Context) error {
	if e.pop == nil {
		return api.NewError(api.ErrCodeInternal, "finalize called before initialize", nil)
	}
	if e.updateBestOverall(e.pop.GetBest(e.config.Direction)) {
		e.metrics.RecordImprovement(e.generation)
	}

	snap := e.metrics.GetSnapshot()
	e.logger.Info("run %s finished: %d generations, best %.6f at (%.4f, %.4f), %d disasters, %d elite restores",
		e.runID, e.generation, e.bestOverall.Fitness, e.bestOverall.X, e.bestOverall.Y, snap.Disasters, snap.EliteRestorations)

	if e.reporter == nil {
		return nil
	}
	final := &FinalReport{
		RunID:       e.runID,
		Seed:        e.seed,
		Direction:   e.config.Direction,
		Generations: e.generation,
		BestOverall: e.bestOverall.Clone(),
		InitialBest: e.initialBest.Clone(),
		Metrics:     snap,
		Elapsed:     time.Since(e.startTime),
	}
	if err := e.reporter.ReportFinal(ctx, final); err != nil {
		return api.WrapError(err, api.ErrCodeReport, "final report")
	}
	return nil
}

// updateBestOverall replaces BestOverall only when candidate is strictly better.
func (e *Engine) updateBestOverall(candidate *Individual) bool {
	if candidate == nil {
		return false
	}
	if e.bestOverall == nil || e.config.Direction.Better(candidate.Fitness, e.bestOverall.Fitness) {
		e.bestOverall = candidate.Clone()
		return true
	}
	return false
}

// applyElitism writes captured into slot 0 when it beats slot 0's fresh fitness.
func (e *Engine) applyElitism(captured *Individual) bool {
	if captured == nil {
		return false
	}
	slot0 := e.pop.Individuals[0]
	if !e.config.Direction.Better(captured.Fitness, slot0.Fitness) {
		return false
	}
	slot0.CopyFrom(captured)
	return true
}

func (e *Engine) report(ctx context.Context, rep *GenerationReport) error {
	if e.reporter == nil {
		return nil
	}

	rep.RunID = e.runID
	rep.Generation = e.generation
	rep.Direction = e.config.Direction
	if e.generation > 0 {
		rep.Selected = append([]int(nil), e.selected...)
	}
	if e.bestOfGen != nil {
		rep.BestOfGeneration = e.bestOfGen.Clone()
	}
	if e.bestOverall != nil {
		rep.BestOverall = e.bestOverall.Clone()
	}
	rep.Population = make([]IndividualRow, e.pop.Size())
	for i, ind := range e.pop.Individuals {
		rawX, rawY := Decode(ind.Genes)
		dx, dy := e.decoder.Phenotype(rawX, rawY)
		rep.Population[i] = IndividualRow{
			Index:    i,
			X:        ind.X,
			Y:        ind.Y,
			Fitness:  ind.Fitness,
			Bits:     ind.Bits(),
			DecodedX: dx,
			DecodedY: dy,
		}
	}

	if err := e.reporter.ReportGeneration(ctx, rep); err != nil {
		return api.WrapError(err, api.ErrCodeReport, fmt.Sprintf("generation %d report", e.generation))
	}
	return nil
}

func (e *Engine) result() *Result {
	res := &Result{
		RunID:       e.runID,
		Seed:        e.seed,
		Generations: e.generation,
		Metrics:     e.metrics.GetSnapshot(),
	}
	if e.bestOverall != nil {
		res.BestOverall = e.bestOverall.Clone()
	}
	if e.initialBest != nil {
		res.InitialBest = e.initialBest.Clone()
	}
	if e.pop != nil {
		res.Population = e.pop.Clone()
	}
	return res
}
