package report

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteReporter_Run(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteReporter(ctx, path, nil)
	require.NoError(t, err)
	defer r.Close()

	res := runEngine(t, 12, r)
	db := r.DB()

	var generations int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM generations WHERE run_id = ?`, "run-1").Scan(&generations))
	assert.Equal(t, 13, generations)

	var individuals int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM individuals WHERE run_id = ? AND generation = ?`, "run-1", 12).Scan(&individuals))
	assert.Equal(t, 8, individuals)

	var disasters []int
	rows, err := db.QueryContext(ctx,
		`SELECT generation FROM generations WHERE run_id = ? AND disaster = 1 ORDER BY generation`, "run-1")
	require.NoError(t, err)
	for rows.Next() {
		var g int
		require.NoError(t, rows.Scan(&g))
		disasters = append(disasters, g)
	}
	require.NoError(t, rows.Err())
	rows.Close()
	assert.Equal(t, []int{8}, disasters)

	var (
		bits        string
		best        float64
		gens        int
		finishedAt  sql.NullString
		overallNull sql.NullFloat64
	)
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT best_bits, best_fitness, generations, finished_at FROM runs WHERE run_id = ?`, "run-1").
		Scan(&bits, &best, &gens, &finishedAt))
	assert.Equal(t, res.BestOverall.Bits(), bits)
	assert.Equal(t, res.BestOverall.Fitness, best)
	assert.Equal(t, 12, gens)
	assert.True(t, finishedAt.Valid)

	// generation 0 has no best overall yet
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT best_overall_fitness FROM generations WHERE run_id = ? AND generation = 0`, "run-1").Scan(&overallNull))
	assert.False(t, overallNull.Valid)
}

func TestSQLiteReporter_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	r, err := NewSQLiteReporter(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, r.ReportGeneration(ctx, sampleReport()))
	require.NoError(t, r.Close())

	r, err = NewSQLiteReporter(ctx, path, nil)
	require.NoError(t, err)
	defer r.Close()

	rep := sampleReport()
	rep.RunID = "run-2"
	require.NoError(t, r.ReportGeneration(ctx, rep))

	var runs int
	require.NoError(t, r.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Equal(t, 2, runs)

	var mean float64
	require.NoError(t, r.DB().QueryRowContext(ctx,
		`SELECT mean_fitness FROM generations WHERE run_id = ? AND generation = 3`, "run-1").Scan(&mean))
	assert.Equal(t, 5.0, mean)
}

func TestSQLiteReporter_InMemory(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteReporter(ctx, ":memory:", nil)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.ReportGeneration(ctx, sampleReport()))

	var bits string
	require.NoError(t, r.DB().QueryRowContext(ctx,
		`SELECT bits FROM individuals WHERE run_id = ? AND slot = 3`, "run-1").Scan(&bits))
	assert.Equal(t, "1111", bits)
}

func TestSQLiteReporter_FinalUpsertKeepsStart(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteReporter(ctx, filepath.Join(t.TempDir(), "runs.db"), nil)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.ReportGeneration(ctx, sampleReport()))

	var started RunRecord
	require.NoError(t, r.Gorm().WithContext(ctx).First(&started, "run_id = ?", "run-1").Error)
	assert.Nil(t, started.FinishedAt)
	assert.Nil(t, started.BestBits)
	assert.Equal(t, "minimize", started.Direction)

	require.NoError(t, r.ReportFinal(ctx, sampleFinal()))

	var finished RunRecord
	require.NoError(t, r.Gorm().WithContext(ctx).First(&finished, "run_id = ?", "run-1").Error)
	require.NotNil(t, finished.FinishedAt)
	require.NotNil(t, finished.BestBits)
	require.NotNil(t, finished.BestFitness)
	assert.Equal(t, "1001", *finished.BestBits)
	assert.Equal(t, 2.0, *finished.BestFitness)
	assert.Equal(t, int64(77), finished.Seed)
	assert.Equal(t, 3, finished.Generations)
	assert.True(t, started.StartedAt.Equal(finished.StartedAt), "started_at must survive the final upsert")
	assert.False(t, finished.FinishedAt.Before(finished.StartedAt))

	var runs int64
	require.NoError(t, r.Gorm().Model(&RunRecord{}).Count(&runs).Error)
	assert.Equal(t, int64(1), runs)
}

func TestSQLiteReporter_GenerationReplaced(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteReporter(ctx, ":memory:", nil)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.ReportGeneration(ctx, sampleReport()))

	rep := sampleReport()
	rep.Disaster = true
	rep.DisasterOffset = 1
	rep.Population[3].Bits = "0101"
	require.NoError(t, r.ReportGeneration(ctx, rep))

	var gens []GenerationRecord
	require.NoError(t, r.Gorm().Where("run_id = ?", "run-1").Find(&gens).Error)
	require.Len(t, gens, 1)
	assert.True(t, gens[0].Disaster)
	assert.Equal(t, 1, gens[0].DisasterOffset)
	require.NotNil(t, gens[0].BestOverallFitness)
	assert.Equal(t, 2.0, *gens[0].BestOverallFitness)

	var slot IndividualRecord
	require.NoError(t, r.Gorm().First(&slot, "run_id = ? AND generation = ? AND slot = ?", "run-1", 3, 3).Error)
	assert.Equal(t, "0101", slot.Bits)

	var count int64
	require.NoError(t, r.Gorm().Model(&IndividualRecord{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}
