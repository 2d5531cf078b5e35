package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"RiskSentinel/internal/calculator"
	"RiskSentinel/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		FXDir         string `yaml:"fx_dir"`
		MacroFile     string `yaml:"macro_file"`
		SentimentFile string `yaml:"sentiment_file"`
		UniverseFile  string `yaml:"universe_file"`
		WorldBankDir  string `yaml:"worldbank_dir"`
	} `yaml:"data"`
	Metrics struct {
		Window          int           `yaml:"window"`
		Confidence      float64       `yaml:"confidence"`
		MinVaRObs       int           `yaml:"min_var_obs"`
		Horizon         int           `yaml:"horizon"`
		ForecastMaxIter int           `yaml:"forecast_max_iter"`
		ForecastTimeout time.Duration `yaml:"forecast_timeout"`
		Workers         int           `yaml:"workers"`
	} `yaml:"metrics"`
	Scoring struct {
		Join    string             `yaml:"join"`
		Weights map[string]float64 `yaml:"weights"`
	} `yaml:"scoring"`
	Output struct {
		CSVPath    string `yaml:"csv_path"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"output"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Server struct {
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"server"`
}

const (
	JoinInner = "inner"
	JoinOuter = "outer"
)

// DefaultWeights is the reference weighting of the ten score components.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		string(model.ComponentGDP):            0.10,
		string(model.ComponentInflation):      0.25,
		string(model.ComponentFXVolatility):   0.10,
		string(model.ComponentDrawdown):       0.10,
		string(model.ComponentVaR):            0.05,
		string(model.ComponentARIMA):          0.025,
		string(model.ComponentProphet):        0.025,
		string(model.ComponentDebt):           0.20,
		string(model.ComponentCurrentAccount): 0.10,
		string(model.ComponentSentiment):      0.10,
	}
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	// Environment variable overrides
	if v := os.Getenv("FX_DIR"); v != "" {
		cfg.Data.FXDir = v
	}
	if v := os.Getenv("MACRO_FILE"); v != "" {
		cfg.Data.MacroFile = v
	}
	if v := os.Getenv("SENTIMENT_FILE"); v != "" {
		cfg.Data.SentimentFile = v
	}
	if v := os.Getenv("UNIVERSE_FILE"); v != "" {
		cfg.Data.UniverseFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Output.SQLitePath = v
	}
	if v := os.Getenv("OUTPUT_CSV"); v != "" {
		cfg.Output.CSVPath = v
	}
	if v := os.Getenv("RISK_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Server.MetricsAddr = v
	}
	if v := os.Getenv("RISK_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Workers = n
		}
	}
	if v := os.Getenv("RISK_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Window = n
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Data.FXDir == "" {
		c.Data.FXDir = "data/raw/fx"
	}
	if c.Data.MacroFile == "" {
		c.Data.MacroFile = "data/processed/macro_indicators.csv"
	}
	if c.Data.SentimentFile == "" {
		c.Data.SentimentFile = "data/processed/news_sentiment.csv"
	}
	if c.Data.UniverseFile == "" {
		c.Data.UniverseFile = "configs/countries_regions.yaml"
	}
	if c.Data.WorldBankDir == "" {
		c.Data.WorldBankDir = "data/raw/macroeconomic"
	}
	if c.Metrics.Window == 0 {
		c.Metrics.Window = calculator.DefaultWindow
	}
	if c.Metrics.Confidence == 0 {
		c.Metrics.Confidence = calculator.DefaultConfidence
	}
	if c.Metrics.MinVaRObs == 0 {
		c.Metrics.MinVaRObs = calculator.DefaultMinVaRObservations
	}
	fo := calculator.DefaultForecastOptions()
	if c.Metrics.Horizon == 0 {
		c.Metrics.Horizon = fo.Horizon
	}
	if c.Metrics.ForecastMaxIter == 0 {
		c.Metrics.ForecastMaxIter = fo.MaxIterations
	}
	if c.Metrics.ForecastTimeout == 0 {
		c.Metrics.ForecastTimeout = fo.Timeout
	}
	if c.Scoring.Join == "" {
		c.Scoring.Join = JoinInner
	}
	if len(c.Scoring.Weights) == 0 {
		c.Scoring.Weights = DefaultWeights()
	}
	if c.Output.CSVPath == "" {
		c.Output.CSVPath = "data/processed/risk_scores.csv"
	}
	if c.Output.SQLitePath == "" {
		c.Output.SQLitePath = "data/risk_sentinel.db"
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 0 6 * * 1-5"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that the metric and scoring settings are usable.
func (c *Config) Validate() error {
	if c.Metrics.Window < 2 {
		return fmt.Errorf("metrics.window must be >= 2")
	}
	if c.Metrics.Confidence <= 0 || c.Metrics.Confidence >= 1 {
		return fmt.Errorf("metrics.confidence must be in (0,1)")
	}
	if c.Metrics.Horizon < 1 {
		return fmt.Errorf("metrics.horizon must be >= 1")
	}
	if c.Metrics.Workers < 0 {
		return fmt.Errorf("metrics.workers must not be negative")
	}
	if c.Scoring.Join != JoinInner && c.Scoring.Join != JoinOuter {
		return fmt.Errorf("scoring.join must be %q or %q", JoinInner, JoinOuter)
	}
	return ValidateWeights(c.Scoring.Weights)
}

// ValidateWeights requires exactly the ten components, non-negative, summing to 1.
func ValidateWeights(weights map[string]float64) error {
	if len(weights) != len(model.Components) {
		return fmt.Errorf("scoring.weights: expected %d components, got %d", len(model.Components), len(weights))
	}
	sum := 0.0
	for _, c := range model.Components {
		w, ok := weights[string(c)]
		if !ok {
			return fmt.Errorf("scoring.weights: missing %q", c)
		}
		if w < 0 {
			return fmt.Errorf("scoring.weights: %q is negative", c)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("scoring.weights: sum is %.12f, want 1", sum)
	}
	return nil
}

// ComponentWeights converts the weight map to component keys.
func (c *Config) ComponentWeights() map[model.Component]float64 {
	out := make(map[model.Component]float64, len(c.Scoring.Weights))
	for k, w := range c.Scoring.Weights {
		out[model.Component(k)] = w
	}
	return out
}

// ForecastOptions returns the forecast bounds derived from the metrics section.
func (c *Config) ForecastOptions() calculator.ForecastOptions {
	fo := calculator.DefaultForecastOptions()
	fo.Horizon = c.Metrics.Horizon
	fo.MaxIterations = c.Metrics.ForecastMaxIter
	fo.Timeout = c.Metrics.ForecastTimeout
	return fo
}
