package genetic

import (
	"context"
	"time"

	"github.com/kasuganosora/sga/pkg/monitor"
)

// IndividualRow is one population slot as seen by a reporter.
// X and Y are the values stored on the individual; DecodedX and DecodedY
// are recomputed from the chromosome at report time.
type IndividualRow struct {
	Index    int     `json:"index"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Fitness  float64 `json:"fitness"`
	Bits     string  `json:"bits"`
	DecodedX float64 `json:"decoded_x"`
	DecodedY float64 `json:"decoded_y"`
}

// GenerationReport is emitted after every ReportInterval-th generation and
// once for the initial population as generation 0.
type GenerationReport struct {
	RunID            string          `json:"run_id"`
	Generation       int             `json:"generation"`
	Direction        Direction       `json:"direction"`
	Selected         []int           `json:"selected"`
	Disaster         bool            `json:"disaster"`
	DisasterOffset   int             `json:"disaster_offset"`
	EliteRestored    bool            `json:"elite_restored"`
	BestOfGeneration *Individual     `json:"best_of_generation,omitempty"`
	BestOverall      *Individual     `json:"best_overall,omitempty"`
	Population       []IndividualRow `json:"population"`
}

// FinalReport is emitted once when the run finishes.
type FinalReport struct {
	RunID       string           `json:"run_id"`
	Seed        int64            `json:"seed"`
	Direction   Direction        `json:"direction"`
	Generations int              `json:"generations"`
	BestOverall *Individual      `json:"best_overall"`
	InitialBest *Individual      `json:"initial_best"`
	Metrics     monitor.Snapshot `json:"metrics"`
	Elapsed     time.Duration    `json:"elapsed"`
}

// Reporter consumes reports. Returning an error aborts the run.
type Reporter interface {
	ReportGeneration(ctx context.Context, r *GenerationReport) error
	ReportFinal(ctx context.Context, r *FinalReport) error
}

// Result is what Run returns.
type Result struct {
	RunID       string
	Seed        int64
	Generations int
	BestOverall *Individual
	InitialBest *Individual
	Population  *Population
	Metrics     monitor.Snapshot
}
