package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

// wavePrices builds a positive, non-trivial deterministic price path.
func wavePrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 5*math.Sin(float64(i)/7) + 2*math.Cos(float64(i)/3) + 0.01*float64(i)
	}
	return prices
}

func TestCalculateReturns(t *testing.T) {
	returns := CalculateReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)

	assert.Empty(t, CalculateReturns([]float64{100}))
	assert.Empty(t, CalculateReturns(nil))
}

func TestPercentile(t *testing.T) {
	data := []float64{4, 1, 3, 2, 5}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{25, 2},
		{50, 3},
		{10, 1.4},
		{100, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Percentile(data, tt.p), 1e-12, "p=%v", tt.p)
	}
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestCalculateVolatility_WindowBoundary(t *testing.T) {
	const window = 10

	_, err := CalculateVolatility(wavePrices(window), window)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)

	vol, err := CalculateVolatility(wavePrices(window+1), window)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, vol, 0.0)

	returns := CalculateReturns(wavePrices(window + 1))
	assert.InDelta(t, stat.StdDev(returns, nil)*math.Sqrt(252), vol, 1e-12)
}

func TestCalculateVolatility_ConstantPricesIsZero(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 4.2
	}
	vol, err := CalculateVolatility(prices, 20)
	require.NoError(t, err)
	assert.Equal(t, 0.0, vol)
}

func TestCalculateVolatility_InvalidWindow(t *testing.T) {
	_, err := CalculateVolatility(wavePrices(100), 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	var estErr *EstimatorError
	require.ErrorAs(t, err, &estErr)
	assert.Equal(t, EstimatorVolatility, estErr.Estimator)
}

func TestRollingVolatility_Alignment(t *testing.T) {
	prices := wavePrices(40)
	series, err := RollingVolatility(prices, 10)
	require.NoError(t, err)
	assert.Len(t, series, len(prices)-10)

	last, err := CalculateVolatility(prices, 10)
	require.NoError(t, err)
	assert.Equal(t, series[len(series)-1], last)
}

func TestCalculateDrawdown(t *testing.T) {
	t.Run("rising series has no drawdown", func(t *testing.T) {
		dd, err := CalculateDrawdown([]float64{1, 2, 3, 4, 5}, 3)
		require.NoError(t, err)
		assert.Equal(t, 0.0, dd)
	})

	t.Run("smoothed over trailing window", func(t *testing.T) {
		// peaks over window 2: 10, 10, 8, 8 ; drawdowns: 0, -0.2, 0, -0.25
		dd, err := CalculateDrawdown([]float64{10, 8, 8, 6}, 2)
		require.NoError(t, err)
		// trailing two drawdowns: 0 and -0.25
		assert.InDelta(t, -0.125, dd, 1e-12)
	})

	t.Run("always non-positive", func(t *testing.T) {
		dd, err := CalculateDrawdown(wavePrices(300), DefaultWindow)
		require.NoError(t, err)
		assert.LessOrEqual(t, dd, 0.0)
	})

	t.Run("empty series is undefined", func(t *testing.T) {
		_, err := CalculateDrawdown(nil, DefaultWindow)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestCalculateVaR(t *testing.T) {
	returns := make([]float64, 20)
	for i := range returns {
		returns[i] = float64(i-10) / 100 // -0.10 .. 0.09
	}
	v, err := CalculateVaR(returns, 0.95, DefaultMinVaRObservations)
	require.NoError(t, err)
	assert.InDelta(t, -0.0905, v, 1e-12)

	_, err = CalculateVaR(returns[:19], 0.95, DefaultMinVaRObservations)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateVaR(returns, 1.5, DefaultMinVaRObservations)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestCalculateVaR_NeverPositive(t *testing.T) {
	gains := make([]float64, 30)
	for i := range gains {
		gains[i] = 0.01 + float64(i)/1000
	}
	v, err := CalculateVaR(gains, 0.95, DefaultMinVaRObservations)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestReason(t *testing.T) {
	assert.Equal(t, "insufficient_data", Reason(newError(EstimatorVaR, ErrInsufficientData, "x")))
	assert.Equal(t, "no_convergence", Reason(newError(EstimatorARIMA, ErrNoConvergence, "x")))
	assert.Equal(t, "", Reason(nil))
}
