// Package assessment runs one full pass: load prices, compute pair metrics,
// fuse with country data, score and record.
package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"RiskSentinel/internal/collector"
	"RiskSentinel/internal/config"
	"RiskSentinel/internal/fuser"
	"RiskSentinel/internal/metrics"
	"RiskSentinel/internal/model"
	"RiskSentinel/internal/recorder"
	"RiskSentinel/internal/strategy"
)

// Result is the outcome of one run.
type Result struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Stats     collector.NormalizeStats
	Metrics   []model.RiskMetricsRecord
	Profiles  []model.CountryProfile
	Scores    []model.RiskScore
}

// Runner wires the pipeline stages together. Stages hold no state between runs.
type Runner struct {
	Source    collector.Source
	Tables    Tables
	Collector *collector.Collector
	Fuser     *fuser.Fuser
	Engine    *strategy.Engine
	Recorder  recorder.Recorder

	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewRunner builds a Runner from configuration. The caller owns the returned
// Runner's Recorder and must Close it.
func NewRunner(cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (*Runner, error) {
	universe, err := config.LoadUniverse(cfg.Data.UniverseFile)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	engine, err := strategy.NewEngine(cfg.ComponentWeights())
	if err != nil {
		return nil, err
	}

	col := collector.NewCollector(log, m)
	col.Window = cfg.Metrics.Window
	col.Confidence = cfg.Metrics.Confidence
	col.MinVaRObs = cfg.Metrics.MinVaRObs
	col.Workers = cfg.Metrics.Workers
	col.Forecast = cfg.ForecastOptions()
	col.Trend.ForecastOptions = col.Forecast

	var recs []recorder.Recorder
	if cfg.Output.SQLitePath != "" {
		sq, err := recorder.NewSQLiteRecorder(cfg.Output.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		recs = append(recs, sq)
	}
	if cfg.Output.CSVPath != "" {
		recs = append(recs, recorder.NewCSVRecorder(cfg.Output.CSVPath))
	}
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if len(recs) > 0 {
		rec = recorder.Multi(recs...)
	}

	return &Runner{
		Source:    collector.NewCSVSource(cfg.Data.FXDir, log),
		Tables:    FileTables{MacroPath: cfg.Data.MacroFile, SentimentPath: cfg.Data.SentimentFile},
		Collector: col,
		Fuser:     fuser.NewFuser(universe, fuser.JoinPolicy(cfg.Scoring.Join), log),
		Engine:    engine,
		Recorder:  rec,
		log:       log.With().Str("component", "assessment").Logger(),
		metrics:   m,
	}, nil
}

// WithLogger sets the runner's logger and metrics. Used when the stages are
// assembled by hand.
func (r *Runner) WithLogger(log zerolog.Logger, m *metrics.Metrics) *Runner {
	r.log = log.With().Str("component", "assessment").Logger()
	r.metrics = m
	return r
}

// Run executes one assessment. A failed run is still recorded, without scores.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), StartedAt: time.Now()}
	log := r.log.With().Str("run_id", res.RunID).Logger()
	log.Info().Str("source", r.Source.Name()).Msg("assessment started")

	err := r.run(ctx, res, log)
	res.Duration = time.Since(res.StartedAt)
	r.metrics.RunFinished(res.StartedAt, len(res.Scores), err)

	snap := &recorder.RunSnapshot{
		RunID:      res.RunID,
		StartedAt:  res.StartedAt,
		FinishedAt: res.StartedAt.Add(res.Duration),
		Status:     recorder.StatusOK,
		Metrics:    res.Metrics,
		Scores:     res.Scores,
	}
	if err != nil {
		snap.Status = recorder.StatusFailed
		snap.Err = err.Error()
		snap.Scores = nil
	}
	if recErr := r.Recorder.RecordRun(snap); recErr != nil {
		log.Error().Err(recErr).Msg("record run")
		if err == nil {
			err = fmt.Errorf("record run: %w", recErr)
		}
	}

	if err != nil {
		log.Error().Err(err).Dur("duration", res.Duration).Msg("assessment failed")
		return res, err
	}
	log.Info().
		Int("pairs", len(res.Metrics)).
		Int("countries", len(res.Scores)).
		Dur("duration", res.Duration).
		Msg("assessment finished")
	return res, nil
}

func (r *Runner) run(ctx context.Context, res *Result, log zerolog.Logger) error {
	raw, err := r.Source.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	series, stats := collector.NormalizeSeries(raw, log)
	res.Stats = stats
	log.Info().
		Int("records", stats.Records).
		Int("malformed", stats.Malformed).
		Int("duplicates", stats.Duplicates).
		Int("pairs", len(series)).
		Msg("price series normalized")

	res.Metrics, err = r.Collector.Collect(ctx, series)
	if err != nil {
		return err
	}

	macro, err := r.Tables.Macro(ctx)
	if err != nil {
		return err
	}
	sentiment, err := r.Tables.Sentiment(ctx)
	if err != nil {
		return err
	}

	resolved := r.Fuser.ResolveCountries(res.Metrics)
	country := make(map[string]string, len(resolved))
	for _, m := range resolved {
		country[m.Pair] = m.Country
	}
	// persisted pair metrics carry the resolved country, empty when dropped
	for i := range res.Metrics {
		res.Metrics[i].Country = country[res.Metrics[i].Pair]
	}
	res.Profiles = r.Fuser.Merge(resolved, macro, sentiment)

	res.Scores, err = r.Engine.Evaluate(res.Profiles)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	return nil
}
