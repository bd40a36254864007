package genetic

import (
	"fmt"
	"math"

	"github.com/kasuganosora/sga/pkg/api"
)

// Config holds every tunable of a run. Nothing in the engine is hardcoded.
type Config struct {
	PopulationSize   int       // N, even and >= 2
	ChromosomeLength int       // L, even, 2..2*MaxHalfBits
	MutationRate     float64   // per-bit flip probability
	MaxGenerations   int       // generations run before finalizing
	ReportInterval   int       // report every k-th generation
	Elitism          bool      // keep the start-of-generation best in slot 0
	DisasterPeriod   int       // re-randomize alternating slots every k-th generation, 0 disables
	Direction        Direction // Minimize or Maximize
	XDomain          Interval
	YDomain          Interval
	Objective        Objective
	TournamentSize   int // candidates drawn per selection pair, best two kept

	// ZeroSiteCopiesParents reproduces the legacy crossover where a cut at
	// site 0 copies both parents unchanged instead of swapping bits 1..L-1.
	ZeroSiteCopiesParents bool

	// Seed for the random source, 0 seeds from the wall clock.
	Seed int64
}

// DefaultConfig returns the reference sin-bowl minimization setup.
func DefaultConfig() *Config {
	return &Config{
		PopulationSize:   20,
		ChromosomeLength: 32,
		MutationRate:     0.08,
		MaxGenerations:   10000,
		ReportInterval:   1,
		Elitism:          true,
		DisasterPeriod:   8,
		Direction:        Minimize,
		XDomain:          Interval{Lo: -60, Hi: 60},
		YDomain:          Interval{Lo: -60, Hi: 60},
		Objective:        SinBowl,
		TournamentSize:   3,
	}
}

// HalfBits is the number of bits encoding each coordinate.
func (c *Config) HalfBits() int {
	return c.ChromosomeLength / 2
}

// Validate rejects configurations the engine cannot run.
func (c *Config) Validate() error {
	switch {
	case c.PopulationSize < 2 || c.PopulationSize%2 != 0:
		return invalidConfig("population size must be even and at least 2, got %d", c.PopulationSize)
	case c.ChromosomeLength < 2 || c.ChromosomeLength%2 != 0:
		return invalidConfig("chromosome length must be even and at least 2, got %d", c.ChromosomeLength)
	case c.ChromosomeLength > 2*MaxHalfBits:
		return invalidConfig("chromosome length must be at most %d, got %d", 2*MaxHalfBits, c.ChromosomeLength)
	case math.IsNaN(c.MutationRate) || c.MutationRate < 0 || c.MutationRate > 1:
		return invalidConfig("mutation rate must be in [0,1], got %g", c.MutationRate)
	case c.MaxGenerations < 1:
		return invalidConfig("max generations must be positive, got %d", c.MaxGenerations)
	case c.ReportInterval < 1:
		return invalidConfig("report interval must be positive, got %d", c.ReportInterval)
	case c.DisasterPeriod < 0:
		return invalidConfig("disaster period must not be negative, got %d", c.DisasterPeriod)
	case c.Direction != Minimize && c.Direction != Maximize:
		return invalidConfig("unknown direction %d", int(c.Direction))
	case !c.XDomain.valid():
		return invalidConfig("x domain must be finite with lo < hi, got [%g, %g]", c.XDomain.Lo, c.XDomain.Hi)
	case !c.YDomain.valid():
		return invalidConfig("y domain must be finite with lo < hi, got [%g, %g]", c.YDomain.Lo, c.YDomain.Hi)
	case c.Objective == nil:
		return invalidConfig("objective function is required")
	case c.TournamentSize < 2:
		return invalidConfig("tournament size must be at least 2, got %d", c.TournamentSize)
	}
	return nil
}

func invalidConfig(format string, args ...interface{}) error {
	return api.NewError(api.ErrCodeInvalidConfig, fmt.Sprintf(format, args...), ErrInvalidConfig)
}
