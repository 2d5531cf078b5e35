package calculator

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RollingMax returns the maximum of each trailing window. Leading positions use
// the partial window available so far.
func RollingMax(prices []float64, window int) []float64 {
	out := make([]float64, len(prices))
	for i := range prices {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		out[i] = floats.Max(prices[start : i+1])
	}
	return out
}

// CalculateDrawdown returns the mean drawdown from the rolling maximum over the
// trailing window. The result is <= 0.
func CalculateDrawdown(prices []float64, window int) (float64, error) {
	if window < 1 {
		return 0, newError(EstimatorDrawdown, ErrInvalidParameter, "window %d < 1", window)
	}
	if len(prices) == 0 {
		return 0, newError(EstimatorDrawdown, ErrInsufficientData, "empty series")
	}

	peaks := RollingMax(prices, window)
	drawdowns := make([]float64, 0, window)
	start := len(prices) - window
	if start < 0 {
		start = 0
	}
	for i := start; i < len(prices); i++ {
		if peaks[i] == 0 {
			return 0, newError(EstimatorDrawdown, ErrDegenerateSeries, "rolling max is zero")
		}
		drawdowns = append(drawdowns, (prices[i]-peaks[i])/peaks[i])
	}

	dd := stat.Mean(drawdowns, nil)
	if math.IsNaN(dd) {
		return 0, newError(EstimatorDrawdown, ErrDegenerateSeries, "non-finite drawdown")
	}
	return math.Min(dd, 0), nil
}
