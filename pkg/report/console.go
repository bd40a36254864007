package report

import (
	"context"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
)

// ConsoleReporter prints a human readable table per reported generation.
// Numbers are formatted for the configured locale.
type ConsoleReporter struct {
	w       io.Writer
	printer *message.Printer
	rows    bool
}

// NewConsoleReporter writes to w. rows enables the per-individual table;
// without it only the best string and the population summary are printed.
func NewConsoleReporter(w io.Writer, tag language.Tag, rows bool) *ConsoleReporter {
	return &ConsoleReporter{
		w:       w,
		printer: message.NewPrinter(tag),
		rows:    rows,
	}
}

// consoleWriter keeps the first write error and drops later writes.
type consoleWriter struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func (cw *consoleWriter) printf(format string, args ...interface{}) {
	if cw.err != nil {
		return
	}
	_, cw.err = cw.p.Fprintf(cw.w, format, args...)
}

// ReportGeneration implements genetic.Reporter.
func (c *ConsoleReporter) ReportGeneration(_ context.Context, r *genetic.GenerationReport) error {
	cw := &consoleWriter{p: c.printer, w: c.w}

	cw.printf("Generation %d", r.Generation)
	if r.Disaster {
		cw.printf("  [disaster, offset %d]", r.DisasterOffset)
	}
	if r.EliteRestored {
		cw.printf("  [elite restored]")
	}
	cw.printf("\n")

	if len(r.Selected) > 0 {
		cw.printf("Selected strings: %s\n", joinIndices(r.Selected))
	}

	if c.rows {
		cw.printf("%4s %12s %12s %14s  %s\n", "#", "x", "y", "fitness", "chromosome")
		for _, row := range r.Population {
			cw.printf("%4d %12.4f %12.4f %14.4f  %s\n", row.Index, row.X, row.Y, row.Fitness, row.Bits)
		}
	}

	if r.BestOfGeneration != nil {
		b := r.BestOfGeneration
		cw.printf("Best string: %s  x=%.4f y=%.4f fitness=%.4f\n", b.Bits(), b.X, b.Y, b.Fitness)
	}
	if r.BestOverall != nil {
		b := r.BestOverall
		cw.printf("Best overall: x=%.4f y=%.4f fitness=%.4f\n", b.X, b.Y, b.Fitness)
	}

	s := SummarizeReport(r)
	cw.printf("Population: mean=%.4f stddev=%.4f min=%.4f max=%.4f\n\n", s.Mean, s.StdDev, s.Min, s.Max)
	return cw.err
}

// ReportFinal implements genetic.Reporter.
func (c *ConsoleReporter) ReportFinal(_ context.Context, r *genetic.FinalReport) error {
	cw := &consoleWriter{p: c.printer, w: c.w}

	cw.printf("Run %s (%s, seed %d) finished after %d generations in %v\n",
		r.RunID, r.Direction, r.Seed, r.Generations, r.Elapsed)
	if r.InitialBest != nil {
		cw.printf("Initial best: x=%.6f y=%.6f fitness=%.6f\n", r.InitialBest.X, r.InitialBest.Y, r.InitialBest.Fitness)
	}
	if r.BestOverall != nil {
		b := r.BestOverall
		cw.printf("Best overall: %s\n", b.Bits())
		cw.printf("  x=%.6f y=%.6f fitness=%.6f\n", b.X, b.Y, b.Fitness)
	}

	m := r.Metrics
	cw.printf("Disasters: %d  Elite restores: %d  Improvements: %d (last at %d)  Mutation flips: %d\n",
		m.Disasters, m.EliteRestorations, m.Improvements, m.LastImprovement, m.MutationFlips)
	return cw.err
}

// joinIndices formats selection indices without locale grouping.
func joinIndices(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
