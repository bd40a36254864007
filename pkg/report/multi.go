package report

import (
	"context"
	"errors"
	"io"

	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
)

// Multi fans reports out to several reporters in order.
type Multi struct {
	reporters []genetic.Reporter
}

// NewMulti creates a fan-out over reporters. Nil entries are skipped.
func NewMulti(reporters ...genetic.Reporter) *Multi {
	m := &Multi{}
	for _, r := range reporters {
		m.Add(r)
	}
	return m
}

// Add appends r.
func (m *Multi) Add(r genetic.Reporter) {
	if r != nil {
		m.reporters = append(m.reporters, r)
	}
}

// Len returns the number of attached reporters.
func (m *Multi) Len() int {
	return len(m.reporters)
}

// ReportGeneration stops at the first failing reporter.
func (m *Multi) ReportGeneration(ctx context.Context, r *genetic.GenerationReport) error {
	for _, rep := range m.reporters {
		if err := rep.ReportGeneration(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// ReportFinal stops at the first failing reporter.
func (m *Multi) ReportFinal(ctx context.Context, r *genetic.FinalReport) error {
	for _, rep := range m.reporters {
		if err := rep.ReportFinal(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every reporter that is an io.Closer, in reverse order, and
// joins their errors.
func (m *Multi) Close() error {
	var errs []error
	for i := len(m.reporters) - 1; i >= 0; i-- {
		if c, ok := m.reporters[i].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
