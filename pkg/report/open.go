package report

import (
	"context"
	"io"

	"golang.org/x/text/language"

	"github.com/kasuganosora/sga/pkg/api"
	"github.com/kasuganosora/sga/pkg/config"
)

// Open builds the reporters enabled in cfg. The console reporter writes to
// console. On error every reporter opened so far is closed.
func Open(ctx context.Context, cfg config.ReportConfig, console io.Writer, logger api.Logger) (*Multi, error) {
	if logger == nil {
		logger = api.NewNoOpLogger()
	}
	m := NewMulti()

	if cfg.Console {
		tag := language.English
		if cfg.ConsoleLocale != "" {
			t, err := language.Parse(cfg.ConsoleLocale)
			if err != nil {
				return nil, api.NewError(api.ErrCodeInvalidConfig, "console locale", err)
			}
			tag = t
		}
		m.Add(NewConsoleReporter(console, tag, cfg.ConsoleRows))
	}

	fail := func(err error) (*Multi, error) {
		m.Close()
		return nil, err
	}

	if cfg.JSONLPath != "" {
		r, err := NewJSONLReporter(cfg.JSONLPath)
		if err != nil {
			return fail(err)
		}
		m.Add(r)
		logger.Debug("jsonl archive: %s", cfg.JSONLPath)
	}
	if cfg.XLSXPath != "" {
		r, err := NewXLSXReporter(cfg.XLSXPath)
		if err != nil {
			return fail(err)
		}
		m.Add(r)
		logger.Debug("xlsx workbook: %s", cfg.XLSXPath)
	}
	if cfg.SQLitePath != "" {
		r, err := NewSQLiteReporter(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return fail(err)
		}
		m.Add(r)
		logger.Debug("sqlite database: %s", cfg.SQLitePath)
	}
	if cfg.BadgerDir != "" {
		r, err := NewBadgerReporter(cfg.BadgerDir, logger)
		if err != nil {
			return fail(err)
		}
		m.Add(r)
		logger.Debug("badger archive: %s", cfg.BadgerDir)
	}
	if cfg.PlotPath != "" {
		m.Add(NewPlotReporter(cfg.PlotPath))
		logger.Debug("convergence plot: %s", cfg.PlotPath)
	}

	return m, nil
}
