package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kasuganosora/sga/pkg/api"
	"github.com/kasuganosora/sga/pkg/config"
	"github.com/kasuganosora/sga/pkg/monitor"
	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
	"github.com/kasuganosora/sga/pkg/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sga", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath  = fs.String("config", "", "config file (default: $"+config.EnvConfigPath+", sga.json, ./config/sga.json, /etc/sga/sga.json)")
		seed        = fs.Int64("seed", 0, "random seed, 0 uses the wall clock")
		generations = fs.Int("generations", 0, "number of generations to run")
		quiet       = fs.Bool("quiet", false, "disable the console report")
		jsonlPath   = fs.String("jsonl", "", "write reports as JSON lines to this file")
		xlsxPath    = fs.String("xlsx", "", "write a workbook to this file")
		sqlitePath  = fs.String("sqlite", "", "store reports in this SQLite database")
		badgerDir   = fs.String("badger", "", "archive reports in a Badger store in this directory")
		plotPath    = fs.String("plot", "", "draw the convergence chart to this file (.png, .svg, .pdf)")
		logLevel    = fs.String("log-level", "", "debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	logger := api.NewDefaultLoggerWithOutput(api.LogInfo, stderr)

	var (
		cfg  *config.Config
		used string
		err  error
	)
	if *configPath != "" {
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error("load config: %v", err)
			return 1
		}
		used = *configPath
	} else {
		cfg, used, err = config.LoadConfigOrDefault()
		if err != nil {
			logger.Error("load config: %v", err)
			return 1
		}
	}

	// command line flags override the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Optimizer.Seed = *seed
		case "generations":
			cfg.Optimizer.MaxGenerations = *generations
		case "quiet":
			cfg.Report.Console = !*quiet
		case "jsonl":
			cfg.Report.JSONLPath = *jsonlPath
		case "xlsx":
			cfg.Report.XLSXPath = *xlsxPath
		case "sqlite":
			cfg.Report.SQLitePath = *sqlitePath
		case "badger":
			cfg.Report.BadgerDir = *badgerDir
		case "plot":
			cfg.Report.PlotPath = *plotPath
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config: %v", err)
		return 1
	}

	level, _ := api.ParseLogLevel(cfg.Log.Level)
	logger.SetLevel(level)
	logger.SetTimestamps(cfg.Log.Timestamps)
	if used != "" {
		logger.Info("config loaded from %s", used)
	} else {
		logger.Debug("using default config")
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		logger.Error("invalid config: %v", err)
		return 1
	}

	sinks, err := report.Open(ctx, cfg.Report, stdout, logger)
	if err != nil {
		logger.Error("open report sinks: %v", err)
		return 1
	}

	metrics := monitor.NewRunMetrics(cfg.Monitor.SlowGeneration.Duration)
	engine, err := genetic.NewEngine(engineCfg,
		genetic.WithReporter(sinks),
		genetic.WithLogger(logger),
		genetic.WithMetrics(metrics),
	)
	if err != nil {
		sinks.Close()
		logger.Error("create engine: %v", err)
		return 1
	}

	o := cfg.Optimizer
	logger.Info("run %s: objective=%s direction=%s N=%d L=%d pMut=%g generations=%d seed=%d",
		engine.RunID(), o.Objective, o.Direction, o.PopulationSize, o.ChromosomeLength, o.MutationRate, o.MaxGenerations, engine.Seed())

	res, runErr := engine.Run(ctx)
	closeErr := sinks.Close()

	if runErr != nil {
		logger.Error("run %s failed: %v", engine.RunID(), runErr)
		return 1
	}
	if closeErr != nil {
		logger.Error("close report sinks: %v", closeErr)
		return 1
	}

	snap := res.Metrics
	logger.Info("generation time: avg %v, max %v, %d slower than %v",
		snap.AvgDuration, snap.MaxDuration, snap.SlowGenerations, cfg.Monitor.SlowGeneration.Duration)
	return 0
}
