package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"

	"github.com/kasuganosora/sga/pkg/api"
	"github.com/kasuganosora/sga/pkg/optimizer/genetic"
)

// EnvConfigPath names the environment variable holding a config file path.
const EnvConfigPath = "SGA_CONFIG"

// Config is the full application configuration.
type Config struct {
	Optimizer OptimizerConfig `json:"optimizer"`
	Log       LogConfig       `json:"log"`
	Report    ReportConfig    `json:"report"`
	Monitor   MonitorConfig   `json:"monitor"`
}

// OptimizerConfig mirrors genetic.Config with the objective referenced by name.
type OptimizerConfig struct {
	PopulationSize        int               `json:"population_size"`
	ChromosomeLength      int               `json:"chromosome_length"`
	MutationRate          float64           `json:"mutation_rate"`
	MaxGenerations        int               `json:"max_generations"`
	ReportInterval        int               `json:"report_interval"`
	Elitism               bool              `json:"elitism"`
	DisasterPeriod        int               `json:"disaster_period"`
	Direction             genetic.Direction `json:"direction"`
	XDomain               genetic.Interval  `json:"x_domain"`
	YDomain               genetic.Interval  `json:"y_domain"`
	Objective             string            `json:"objective"`
	TournamentSize        int               `json:"tournament_size"`
	ZeroSiteCopiesParents bool              `json:"zero_site_copies_parents"`
	Seed                  int64             `json:"seed"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level      string `json:"level"`
	Timestamps bool   `json:"timestamps"`
}

// ReportConfig selects report sinks. An empty path disables that sink.
type ReportConfig struct {
	Console       bool   `json:"console"`
	ConsoleRows   bool   `json:"console_rows"`
	ConsoleLocale string `json:"console_locale"`
	JSONLPath     string `json:"jsonl_path"`
	XLSXPath      string `json:"xlsx_path"`
	SQLitePath    string `json:"sqlite_path"`
	BadgerDir     string `json:"badger_dir"`
	PlotPath      string `json:"plot_path"`
}

// MonitorConfig holds run metrics thresholds.
type MonitorConfig struct {
	SlowGeneration Duration `json:"slow_generation"`
}

// DefaultConfig returns the sin-bowl setup: [-60,60]² minimized.
func DefaultConfig() *Config {
	engine := genetic.DefaultConfig()
	return &Config{
		Optimizer: OptimizerConfig{
			PopulationSize:   engine.PopulationSize,
			ChromosomeLength: engine.ChromosomeLength,
			MutationRate:     engine.MutationRate,
			MaxGenerations:   engine.MaxGenerations,
			ReportInterval:   engine.ReportInterval,
			Elitism:          engine.Elitism,
			DisasterPeriod:   engine.DisasterPeriod,
			Direction:        engine.Direction,
			XDomain:          engine.XDomain,
			YDomain:          engine.YDomain,
			Objective:        "sinbowl",
			TournamentSize:   engine.TournamentSize,
		},
		Log: LogConfig{
			Level: "info",
		},
		Report: ReportConfig{
			Console:       true,
			ConsoleRows:   true,
			ConsoleLocale: "en",
		},
		Monitor: MonitorConfig{
			SlowGeneration: Duration{10 * time.Millisecond},
		},
	}
}

// LoadConfig reads configPath and overlays it on the defaults.
// An empty path returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, api.NewError(api.ErrCodeIO, fmt.Sprintf("config file not found: %s", configPath), err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, api.WrapError(err, api.ErrCodeIO, "read config file")
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, api.WrapError(err, api.ErrCodeInvalidConfig, "parse config file")
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigOrDefault loads $SGA_CONFIG when set, otherwise the first
// config file found on the search paths. The returned path is empty when
// the defaults are used. A file named by $SGA_CONFIG must exist; a search
// path file that exists must load cleanly.
func LoadConfigOrDefault() (*Config, string, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		config, err := LoadConfig(envPath)
		if err != nil {
			return nil, "", api.WrapError(err, api.ErrCodeInvalidConfig, fmt.Sprintf("$%s=%s", EnvConfigPath, envPath))
		}
		return config, envPath, nil
	}

	possiblePaths := []string{
		"sga.json",
		"./config/sga.json",
		"/etc/sga/sga.json",
	}
	for _, path := range possiblePaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			continue
		}
		config, err := LoadConfig(absPath)
		if err != nil {
			return nil, "", err
		}
		return config, absPath, nil
	}

	return DefaultConfig(), "", nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	return validateConfig(c)
}

func validateConfig(config *Config) error {
	if _, err := config.EngineConfig(); err != nil {
		return err
	}

	if _, err := api.ParseLogLevel(config.Log.Level); err != nil {
		return err
	}

	if config.Report.ConsoleLocale != "" {
		if _, err := language.Parse(config.Report.ConsoleLocale); err != nil {
			return api.NewError(api.ErrCodeInvalidConfig, fmt.Sprintf("invalid console locale %q", config.Report.ConsoleLocale), err)
		}
	}

	if config.Monitor.SlowGeneration.Duration < 0 {
		return api.NewError(api.ErrCodeInvalidConfig, "slow generation threshold must not be negative", nil)
	}

	return nil
}

// EngineConfig builds and validates the engine configuration.
func (c *Config) EngineConfig() (*genetic.Config, error) {
	objective, err := genetic.LookupObjective(c.Optimizer.Objective)
	if err != nil {
		return nil, api.NewError(api.ErrCodeInvalidConfig, "objective", err)
	}

	o := c.Optimizer
	engine := &genetic.Config{
		PopulationSize:        o.PopulationSize,
		ChromosomeLength:      o.ChromosomeLength,
		MutationRate:          o.MutationRate,
		MaxGenerations:        o.MaxGenerations,
		ReportInterval:        o.ReportInterval,
		Elitism:               o.Elitism,
		DisasterPeriod:        o.DisasterPeriod,
		Direction:             o.Direction,
		XDomain:               o.XDomain,
		YDomain:               o.YDomain,
		Objective:             objective,
		TournamentSize:        o.TournamentSize,
		ZeroSiteCopiesParents: o.ZeroSiteCopiesParents,
		Seed:                  o.Seed,
	}
	if err := engine.Validate(); err != nil {
		return nil, err
	}
	return engine, nil
}
