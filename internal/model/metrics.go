package model

// RiskMetricsRecord holds the per-pair risk metrics of one run.
// A nil field means the metric is undefined; it is never coerced to zero.
type RiskMetricsRecord struct {
	Pair            string
	Region          string
	Volatility      *float64 // annualized, >= 0
	Drawdown        *float64 // smoothed, <= 0
	VaR             *float64 // historical, <= 0
	ARIMAForecast   *float64
	ProphetForecast *float64
	Country         string // empty when the pair has no mapping
	Observations    int
	Failures        map[string]string // estimator -> error message
}

// Float returns a pointer to v, for building defined metric values.
func Float(v float64) *float64 { return &v }
