package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kasuganosora/sga/pkg/api"
	sgagorm "github.com/kasuganosora/sga/pkg/api/gorm"
	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
)

// RunRecord is one row of the runs table. The result columns stay NULL
// until the run finishes.
type RunRecord struct {
	RunID              string `gorm:"primaryKey"`
	Direction          string `gorm:"not null"`
	Seed               int64
	Generations        int
	BestBits           *string
	BestX              *float64
	BestY              *float64
	BestFitness        *float64
	InitialBestFitness *float64
	ElapsedNs          int64
	StartedAt          time.Time `gorm:"not null"`
	FinishedAt         *time.Time
}

func (RunRecord) TableName() string { return "runs" }

// GenerationRecord holds the population summary of one reported generation.
type GenerationRecord struct {
	RunID              string `gorm:"primaryKey"`
	Generation         int    `gorm:"primaryKey;autoIncrement:false"`
	Disaster           bool   `gorm:"not null"`
	DisasterOffset     int    `gorm:"not null"`
	EliteRestored      bool   `gorm:"not null"`
	BestFitness        float64
	MeanFitness        float64
	StddevFitness      float64
	MinFitness         float64
	MaxFitness         float64
	BestOverallFitness *float64
}

func (GenerationRecord) TableName() string { return "generations" }

// IndividualRecord is one population slot of a reported generation.
type IndividualRecord struct {
	RunID      string `gorm:"primaryKey"`
	Generation int    `gorm:"primaryKey;autoIncrement:false"`
	Slot       int    `gorm:"primaryKey;autoIncrement:false"`
	X          float64
	Y          float64
	Fitness    float64
	Bits       string
}

func (IndividualRecord) TableName() string { return "individuals" }

// finalColumns are overwritten when a run finishes.
var finalColumns = []string{
	"seed", "generations", "best_bits", "best_x", "best_y", "best_fitness",
	"initial_best_fitness", "elapsed_ns", "finished_at",
}

// SQLiteReporter stores runs, per-generation statistics and population rows
// in a SQLite database. Several runs can share one database file.
type SQLiteReporter struct {
	db *gorm.DB
}

// NewSQLiteReporter opens (or creates) the database at path and creates
// missing tables. GORM warnings go to logger; nil silences them.
func NewSQLiteReporter(ctx context.Context, path string, logger api.Logger) (*SQLiteReporter, error) {
	db, err := sgagorm.Open(path, logger)
	if err != nil {
		return nil, err
	}
	s := &SQLiteReporter{db: db}

	if err := db.WithContext(ctx).AutoMigrate(&RunRecord{}, &GenerationRecord{}, &IndividualRecord{}); err != nil {
		s.Close()
		return nil, api.WrapError(err, api.ErrCodeIO, "create sqlite schema")
	}
	return s, nil
}

// DB exposes the underlying handle for queries over archived runs.
func (s *SQLiteReporter) DB() *sql.DB {
	conn, _ := s.db.DB()
	return conn
}

// Gorm exposes the GORM handle.
func (s *SQLiteReporter) Gorm() *gorm.DB {
	return s.db
}

// ReportGeneration implements genetic.Reporter.
func (s *SQLiteReporter) ReportGeneration(ctx context.Context, r *genetic.GenerationReport) error {
	sum := SummarizeReport(r)
	gen := GenerationRecord{
		RunID:          r.RunID,
		Generation:     r.Generation,
		Disaster:       r.Disaster,
		DisasterOffset: r.DisasterOffset,
		EliteRestored:  r.EliteRestored,
		BestFitness:    sum.Best,
		MeanFitness:    sum.Mean,
		StddevFitness:  sum.StdDev,
		MinFitness:     sum.Min,
		MaxFitness:     sum.Max,
	}
	if r.BestOverall != nil {
		gen.BestOverallFitness = &r.BestOverall.Fitness
	}

	individuals := make([]IndividualRecord, len(r.Population))
	for i, row := range r.Population {
		individuals[i] = IndividualRecord{
			RunID:      r.RunID,
			Generation: r.Generation,
			Slot:       row.Index,
			X:          row.X,
			Y:          row.Y,
			Fitness:    row.Fitness,
			Bits:       row.Bits,
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run := RunRecord{RunID: r.RunID, Direction: r.Direction.String(), StartedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&run).Error; err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&gen).Error; err != nil {
			return fmt.Errorf("insert generation %d: %w", r.Generation, err)
		}
		if len(individuals) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&individuals).Error; err != nil {
			return fmt.Errorf("insert individuals of generation %d: %w", r.Generation, err)
		}
		return nil
	})
}

// ReportFinal implements genetic.Reporter.
func (s *SQLiteReporter) ReportFinal(ctx context.Context, r *genetic.FinalReport) error {
	now := time.Now().UTC()
	run := RunRecord{
		RunID:       r.RunID,
		Direction:   r.Direction.String(),
		Seed:        r.Seed,
		Generations: r.Generations,
		ElapsedNs:   int64(r.Elapsed),
		StartedAt:   now,
		FinishedAt:  &now,
	}
	if b := r.BestOverall; b != nil {
		bits := b.Bits()
		x, y, fitness := b.X, b.Y, b.Fitness
		run.BestBits, run.BestX, run.BestY, run.BestFitness = &bits, &x, &y, &fitness
	}
	if r.InitialBest != nil {
		initial := r.InitialBest.Fitness
		run.InitialBestFitness = &initial
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "run_id"}},
		DoUpdates: clause.AssignmentColumns(finalColumns),
	}).Create(&run).Error
	if err != nil {
		return fmt.Errorf("finish run %s: %w", r.RunID, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteReporter) Close() error {
	conn, err := s.db.DB()
	if err != nil {
		return err
	}
	return conn.Close()
}
