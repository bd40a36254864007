package genetic

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid genetic algorithm configuration")
	// ErrNonFiniteFitness means the objective returned NaN or ±Inf inside the domain.
	ErrNonFiniteFitness = errors.New("objective produced a non-finite fitness")
	// ErrUnknownObjective is returned by LookupObjective for unregistered names.
	ErrUnknownObjective = errors.New("unknown objective")
)

// NonFiniteError records where the objective broke down.
type NonFiniteError struct {
	X, Y    float64
	Fitness float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("%v: f(%g, %g) = %g", ErrNonFiniteFitness, e.X, e.Y, e.Fitness)
}

func (e *NonFiniteError) Unwrap() error {
	return ErrNonFiniteFitness
}
