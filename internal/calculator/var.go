package calculator

import "math"

const (
	DefaultConfidence = 0.95
	// DefaultMinVaRObservations is the minimum return history for a VaR estimate.
	DefaultMinVaRObservations = 20
)

// CalculateVaR returns the historical-simulation Value-at-Risk of returns at the
// given confidence, as a loss threshold <= 0. The full history is used.
func CalculateVaR(returns []float64, confidence float64, minObs int) (float64, error) {
	if confidence <= 0 || confidence >= 1 {
		return 0, newError(EstimatorVaR, ErrInvalidParameter, "confidence %.4f outside (0,1)", confidence)
	}
	if len(returns) < minObs || len(returns) == 0 {
		return 0, newError(EstimatorVaR, ErrInsufficientData, "%d returns, need %d", len(returns), minObs)
	}
	if !allFinite(returns) {
		return 0, newError(EstimatorVaR, ErrDegenerateSeries, "non-finite returns")
	}

	q := Percentile(returns, (1-confidence)*100)
	// A positive quantile means no loss at this confidence.
	return math.Min(q, 0), nil
}
