package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kasuganosora/sga/pkg/api"
	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
)

const (
	SheetGenerations = "Generations"
	SheetBest        = "Best"
)

var generationHeader = []string{
	"Generation", "Disaster", "Disaster Offset", "Elite Restored",
	"Best", "Mean", "StdDev", "Min", "Max",
	"Best Overall", "Best Overall X", "Best Overall Y",
}

// XLSXReporter writes one row per generation and the final result to the Best sheet.
type XLSXReporter struct {
	file     *excelize.File
	filePath string
	nextRow  int
	dirty    bool
}

// NewXLSXReporter creates the workbook. It is saved to filePath on ReportFinal or Close.
func NewXLSXReporter(filePath string) (*XLSXReporter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetGenerations); err != nil {
		f.Close()
		return nil, api.WrapError(err, api.ErrCodeIO, "prepare workbook")
	}
	if _, err := f.NewSheet(SheetBest); err != nil {
		f.Close()
		return nil, api.WrapError(err, api.ErrCodeIO, "prepare workbook")
	}

	x := &XLSXReporter{file: f, filePath: filePath, nextRow: 2}

	// header
	for i, name := range generationHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetGenerations, cell, name)
	}
	return x, nil
}

// ReportGeneration implements genetic.Reporter.
func (x *XLSXReporter) ReportGeneration(_ context.Context, r *genetic.GenerationReport) error {
	s := SummarizeReport(r)
	values := []interface{}{
		r.Generation, r.Disaster, r.DisasterOffset, r.EliteRestored,
		s.Best, s.Mean, s.StdDev, s.Min, s.Max,
	}
	if r.BestOverall != nil {
		values = append(values, r.BestOverall.Fitness, r.BestOverall.X, r.BestOverall.Y)
	}

	if err := x.setRow(SheetGenerations, x.nextRow, values); err != nil {
		return err
	}
	x.nextRow++
	x.dirty = true
	return nil
}

// ReportFinal implements genetic.Reporter.
func (x *XLSXReporter) ReportFinal(_ context.Context, r *genetic.FinalReport) error {
	rows := [][]interface{}{
		{"Run ID", r.RunID},
		{"Seed", r.Seed},
		{"Direction", r.Direction.String()},
		{"Generations", r.Generations},
		{"Elapsed", r.Elapsed.String()},
		{"Disasters", r.Metrics.Disasters},
		{"Elite Restores", r.Metrics.EliteRestorations},
		{"Improvements", r.Metrics.Improvements},
	}
	if r.BestOverall != nil {
		rows = append(rows,
			[]interface{}{"Best Chromosome", r.BestOverall.Bits()},
			[]interface{}{"Best X", r.BestOverall.X},
			[]interface{}{"Best Y", r.BestOverall.Y},
			[]interface{}{"Best Fitness", r.BestOverall.Fitness},
		)
	}
	if r.InitialBest != nil {
		rows = append(rows, []interface{}{"Initial Best Fitness", r.InitialBest.Fitness})
	}

	for i, row := range rows {
		if err := x.setRow(SheetBest, i+1, row); err != nil {
			return err
		}
	}
	x.dirty = true
	return x.save()
}

// Close saves pending rows and releases the workbook.
func (x *XLSXReporter) Close() error {
	err := x.save()
	if cerr := x.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func (x *XLSXReporter) setRow(sheet string, rowNum int, values []interface{}) error {
	for col, val := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := x.file.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func (x *XLSXReporter) save() error {
	if !x.dirty {
		return nil
	}
	if err := x.file.SaveAs(x.filePath); err != nil {
		return fmt.Errorf("save workbook %s: %w", x.filePath, err)
	}
	x.dirty = false
	return nil
}
