package collector

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"RiskSentinel/internal/calculator"
	"RiskSentinel/internal/metrics"
	"RiskSentinel/internal/model"
)

// Collector computes the risk metrics of every pair on a bounded worker pool.
type Collector struct {
	Window     int
	Confidence float64
	MinVaRObs  int
	Forecast   calculator.ForecastOptions
	Trend      calculator.TrendOptions
	Workers    int // <= 0 means one per CPU

	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewCollector creates a Collector with the reference estimator settings.
func NewCollector(log zerolog.Logger, m *metrics.Metrics) *Collector {
	return &Collector{
		Window:     calculator.DefaultWindow,
		Confidence: calculator.DefaultConfidence,
		MinVaRObs:  calculator.DefaultMinVaRObservations,
		Forecast:   calculator.DefaultForecastOptions(),
		Trend:      calculator.DefaultTrendOptions(),
		log:        log.With().Str("component", "collector").Logger(),
		metrics:    m,
	}
}

// Collect fans the pairs out to workers and returns one record per pair, sorted by pair.
// Estimator failures never fail the batch; only cancellation does.
func (c *Collector) Collect(ctx context.Context, series map[string]*model.PairSeries) ([]model.RiskMetricsRecord, error) {
	pairs := make([]string, 0, len(series))
	for p := range series {
		pairs = append(pairs, p)
	}
	sort.Strings(pairs)

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]model.RiskMetricsRecord, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, pair := range pairs {
		s := series[pair]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.ComputePair(s)
			c.metrics.PairProcessed()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	c.log.Info().Int("pairs", len(results)).Int("workers", workers).Msg("pair metrics computed")
	return results, nil
}

// ComputePair computes all five metrics of one series. Each metric fails independently.
func (c *Collector) ComputePair(s *model.PairSeries) model.RiskMetricsRecord {
	prices := s.Closes()
	rec := model.RiskMetricsRecord{
		Pair:         s.Pair,
		Region:       s.Region,
		Observations: len(prices),
		Failures:     make(map[string]string),
	}

	// Volatility
	if v, err := calculator.CalculateVolatility(prices, c.Window); err != nil {
		c.fail(&rec, calculator.EstimatorVolatility, err)
	} else {
		rec.Volatility = model.Float(v)
	}

	// Drawdown
	if v, err := calculator.CalculateDrawdown(prices, c.Window); err != nil {
		c.fail(&rec, calculator.EstimatorDrawdown, err)
	} else {
		rec.Drawdown = model.Float(v)
	}

	// Value-at-Risk over the full history
	if v, err := calculator.CalculateVaR(calculator.CalculateReturns(prices), c.Confidence, c.MinVaRObs); err != nil {
		c.fail(&rec, calculator.EstimatorVaR, err)
	} else {
		rec.VaR = model.Float(v)
	}

	// Both forecasts run on the rolling volatility series.
	volSeries, err := calculator.RollingVolatility(prices, c.Window)
	if err != nil {
		c.fail(&rec, calculator.EstimatorARIMA, err)
		c.fail(&rec, calculator.EstimatorTrend, err)
		return rec
	}

	if v, err := calculator.ForecastARIMA(volSeries, c.Forecast); err != nil {
		c.fail(&rec, calculator.EstimatorARIMA, err)
	} else {
		rec.ARIMAForecast = model.Float(v)
	}

	dates := s.Dates()[c.Window:]
	if v, err := calculator.ForecastTrend(dates, volSeries, c.Trend); err != nil {
		c.fail(&rec, calculator.EstimatorTrend, err)
	} else {
		rec.ProphetForecast = model.Float(v)
	}

	return rec
}

func (c *Collector) fail(rec *model.RiskMetricsRecord, est calculator.Estimator, err error) {
	rec.Failures[string(est)] = err.Error()
	c.metrics.EstimatorFailed(string(est), calculator.Reason(err))
	c.log.Warn().
		Str("pair", rec.Pair).
		Str("estimator", string(est)).
		Err(err).
		Msg("metric undefined")
}
