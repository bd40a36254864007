package genetic

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Objective scores a point of the search domain. It must be pure.
type Objective func(x, y float64) float64

// SinBowl is the reference multimodal objective:
// f(x, y) = (2|3y| - 12 sin x) * 2y * cos 2x.
func SinBowl(x, y float64) float64 {
	return (2.0*math.Abs(3.0*y) - 12.0*math.Sin(x)) * 2.0 * y * math.Cos(2.0*x)
}

// Sphere is x² + y², minimum 0 at the origin.
func Sphere(x, y float64) float64 {
	return x*x + y*y
}

// Rastrigin is the two-dimensional Rastrigin function, minimum 0 at the origin.
func Rastrigin(x, y float64) float64 {
	return 20 + x*x - 10*math.Cos(2*math.Pi*x) + y*y - 10*math.Cos(2*math.Pi*y)
}

var objectives = map[string]Objective{
	"sinbowl":   SinBowl,
	"sphere":    Sphere,
	"rastrigin": Rastrigin,
}

// LookupObjective returns the registered objective called name.
func LookupObjective(name string) (Objective, error) {
	fn, ok := objectives[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownObjective, name, strings.Join(ObjectiveNames(), ", "))
	}
	return fn, nil
}

// ObjectiveNames lists registered objectives in sorted order.
func ObjectiveNames() []string {
	names := make([]string, 0, len(objectives))
	for name := range objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
