package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kasuganosora/sga/pkg/api"
	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
)

// Record is one line of a JSON lines archive.
type Record struct {
	Type       string                    `json:"type"`
	Generation *genetic.GenerationReport `json:"generation,omitempty"`
	Summary    *Summary                  `json:"summary,omitempty"`
	Final      *genetic.FinalReport      `json:"final,omitempty"`
}

const (
	RecordGeneration = "generation"
	RecordFinal      = "final"
)

// JSONLReporter appends one JSON object per report.
type JSONLReporter struct {
	buf    *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONLReporter creates (or truncates) path.
func NewJSONLReporter(path string) (*JSONLReporter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, api.WrapError(err, api.ErrCodeIO, fmt.Sprintf("create jsonl archive %s", path))
	}
	r := NewJSONLWriter(f)
	r.closer = f
	return r, nil
}

// NewJSONLWriter writes to w. Close flushes but does not close w.
func NewJSONLWriter(w io.Writer) *JSONLReporter {
	buf := bufio.NewWriter(w)
	return &JSONLReporter{buf: buf, enc: json.NewEncoder(buf)}
}

// ReportGeneration implements genetic.Reporter.
func (j *JSONLReporter) ReportGeneration(_ context.Context, r *genetic.GenerationReport) error {
	s := SummarizeReport(r)
	return j.enc.Encode(Record{Type: RecordGeneration, Generation: r, Summary: &s})
}

// ReportFinal implements genetic.Reporter.
func (j *JSONLReporter) ReportFinal(_ context.Context, r *genetic.FinalReport) error {
	if err := j.enc.Encode(Record{Type: RecordFinal, Final: r}); err != nil {
		return err
	}
	return j.buf.Flush()
}

// Close flushes buffered records and closes the file.
func (j *JSONLReporter) Close() error {
	err := j.buf.Flush()
	if j.closer != nil {
		if cerr := j.closer.Close(); err == nil {
			err = cerr
		}
		j.closer = nil
	}
	return err
}
