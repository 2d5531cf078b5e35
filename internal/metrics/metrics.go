package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of one process on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry          *prometheus.Registry
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	PairsProcessed    prometheus.Counter
	EstimatorFailures *prometheus.CounterVec
	CountriesScored   prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risksentinel_runs_total",
			Help: "Assessment runs by outcome.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "risksentinel_run_duration_seconds",
			Help:    "Wall-clock duration of assessment runs.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		PairsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "risksentinel_pairs_processed_total",
			Help: "Currency pairs whose metrics were computed.",
		}),
		EstimatorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risksentinel_estimator_failures_total",
			Help: "Metric estimators that degraded to undefined.",
		}, []string{"estimator", "reason"}),
		CountriesScored: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "risksentinel_countries_scored",
			Help: "Countries in the most recent ranking.",
		}),
	}
	m.Registry.MustRegister(m.RunsTotal, m.RunDuration, m.PairsProcessed, m.EstimatorFailures, m.CountriesScored)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) PairProcessed() {
	if m == nil {
		return
	}
	m.PairsProcessed.Inc()
}

func (m *Metrics) EstimatorFailed(estimator, reason string) {
	if m == nil {
		return
	}
	m.EstimatorFailures.WithLabelValues(estimator, reason).Inc()
}

// RunFinished records the outcome of one assessment run.
func (m *Metrics) RunFinished(started time.Time, countries int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	} else {
		m.CountriesScored.Set(float64(countries))
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(time.Since(started).Seconds())
}
