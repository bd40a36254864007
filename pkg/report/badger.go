package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/kasuganosora/sga/pkg/api"
	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
)

// Key layout:
//
//	run:<run_id>:gen:<generation, zero padded>  -> GenerationReport JSON
//	run:<run_id>:final                          -> FinalReport JSON
const (
	prefixRun = "run:"
	keyFinal  = "final"
)

func generationKey(runID string, generation int) []byte {
	return []byte(fmt.Sprintf("%s%s:gen:%010d", prefixRun, runID, generation))
}

func generationPrefix(runID string) []byte {
	return []byte(prefixRun + runID + ":gen:")
}

func finalKey(runID string) []byte {
	return []byte(prefixRun + runID + ":" + keyFinal)
}

// BadgerReporter archives full reports in a Badger key-value store.
type BadgerReporter struct {
	db *badger.DB
}

// NewBadgerReporter opens the store in dir. An empty dir keeps it in memory.
// Badger's own log output goes to logger.
func NewBadgerReporter(dir string, logger api.Logger) (*BadgerReporter, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	if logger == nil {
		logger = api.NewNoOpLogger()
	}
	opts = opts.WithLogger(badgerLogger{api.WithPrefix(logger, "badger: ")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, api.WrapError(err, api.ErrCodeIO, "failed to open badger database")
	}
	return &BadgerReporter{db: db}, nil
}

// ReportGeneration implements genetic.Reporter.
func (b *BadgerReporter) ReportGeneration(_ context.Context, r *genetic.GenerationReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal generation %d: %w", r.Generation, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(generationKey(r.RunID, r.Generation), data)
	})
}

// ReportFinal implements genetic.Reporter.
func (b *BadgerReporter) ReportFinal(_ context.Context, r *genetic.FinalReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal final report: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(finalKey(r.RunID), data)
	})
}

// Generations loads the archived generation reports of runID in generation order.
func (b *BadgerReporter) Generations(runID string) ([]*genetic.GenerationReport, error) {
	var reports []*genetic.GenerationReport
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = generationPrefix(runID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var r genetic.GenerationReport
				if err := json.Unmarshal(val, &r); err != nil {
					return fmt.Errorf("failed to unmarshal %s: %w", item.Key(), err)
				}
				reports = append(reports, &r)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return reports, err
}

// Final loads the final report of runID. It returns badger.ErrKeyNotFound
// when the run did not finish.
func (b *BadgerReporter) Final(runID string) (*genetic.FinalReport, error) {
	var r genetic.FinalReport
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(finalKey(runID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Close closes the store.
func (b *BadgerReporter) Close() error {
	return b.db.Close()
}

// badgerLogger routes Badger's logging to an api.Logger. Badger's info
// chatter is demoted to debug.
type badgerLogger struct {
	api.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.Error(strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warn(strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.Debug(strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.Debug(strings.TrimSuffix(format, "\n"), args...)
}
