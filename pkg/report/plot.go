package report

import (
	"context"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
)

// PlotReporter draws the convergence chart of a run: best and mean
// population fitness plus the best overall fitness per reported generation.
// The image format follows the file extension (png, svg, pdf, ...).
type PlotReporter struct {
	path  string
	title string

	gen     []float64
	best    []float64
	mean    []float64
	overall []float64
	saved   bool
}

// NewPlotReporter renders to path when the run finishes or the reporter is closed.
func NewPlotReporter(path string) *PlotReporter {
	return &PlotReporter{path: path, title: "Fitness"}
}

// ReportGeneration implements genetic.Reporter.
func (p *PlotReporter) ReportGeneration(_ context.Context, r *genetic.GenerationReport) error {
	s := SummarizeReport(r)
	overall := s.Best
	if r.BestOverall != nil && r.Direction.Better(r.BestOverall.Fitness, overall) {
		overall = r.BestOverall.Fitness
	}

	p.gen = append(p.gen, float64(r.Generation))
	p.best = append(p.best, s.Best)
	p.mean = append(p.mean, s.Mean)
	p.overall = append(p.overall, overall)
	p.saved = false

	if r.Generation == 0 {
		p.title = fmt.Sprintf("Run %s (%s)", r.RunID, r.Direction)
	}
	return nil
}

// ReportFinal implements genetic.Reporter.
func (p *PlotReporter) ReportFinal(_ context.Context, _ *genetic.FinalReport) error {
	return p.save()
}

// Close renders whatever was collected if the run ended early.
func (p *PlotReporter) Close() error {
	if p.saved || len(p.gen) == 0 {
		return nil
	}
	return p.save()
}

func (p *PlotReporter) save() error {
	pl := plot.New()
	pl.Title.Text = p.title
	pl.X.Label.Text = "Generation"
	pl.Y.Label.Text = "Fitness"

	series := []struct {
		name string
		ys   []float64
	}{
		{"best", p.best},
		{"mean", p.mean},
		{"best overall", p.overall},
	}
	for i, s := range series {
		pts := make(plotter.XYs, len(p.gen))
		for j := range p.gen {
			pts[j].X = p.gen[j]
			pts[j].Y = s.ys[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		pl.Add(line)
		pl.Legend.Add(s.name, line)
	}
	pl.Legend.Top = true

	if err := pl.Save(8*vg.Inch, 4*vg.Inch, p.path); err != nil {
		return fmt.Errorf("save plot %s: %w", p.path, err)
	}
	p.saved = true
	return nil
}
