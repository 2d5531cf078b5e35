package calculator

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is the rolling window, in observations, for volatility and drawdown.
const DefaultWindow = 90

// RollingVolatility returns the annualized rolling standard deviation of returns
// for every full window. The i-th value belongs to the price at index window+i.
func RollingVolatility(prices []float64, window int) ([]float64, error) {
	if window < 2 {
		return nil, newError(EstimatorVolatility, ErrInvalidParameter, "window %d < 2", window)
	}
	returns := CalculateReturns(prices)
	if len(returns) < window {
		return nil, newError(EstimatorVolatility, ErrInsufficientData, "%d returns, need %d", len(returns), window)
	}

	out := make([]float64, len(returns)-window+1)
	for i := range out {
		out[i] = stat.StdDev(returns[i:i+window], nil)
	}
	floats.Scale(math.Sqrt(TradingDaysPerYear), out)
	if !allFinite(out) {
		return nil, newError(EstimatorVolatility, ErrDegenerateSeries, "non-finite volatility")
	}
	return out, nil
}

// CalculateVolatility returns the annualized volatility at the most recent full window.
func CalculateVolatility(prices []float64, window int) (float64, error) {
	series, err := RollingVolatility(prices, window)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}
