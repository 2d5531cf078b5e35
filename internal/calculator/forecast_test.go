package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyDates(n int) []time.Time {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// arSeries integrates an AR(1) process driven by a fixed pseudo-random sequence.
func arSeries(n int) []float64 {
	seed := uint32(12345)
	next := func() float64 {
		seed = seed*1664525 + 1013904223
		return float64(seed)/float64(math.MaxUint32) - 0.5
	}
	out := make([]float64, n)
	level, d := 0.2, 0.0
	for i := range out {
		d = 0.5*d + 0.01*next()
		level += d
		out[i] = level
	}
	return out
}

func TestARIMAModel_Forecast(t *testing.T) {
	m := &ARIMAModel{Phi: 0.5}
	got := m.Forecast([]float64{1, 2, 3, 4}, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 4.5, got[0], 1e-12)
	assert.InDelta(t, 4.75, got[1], 1e-12)
	assert.InDelta(t, 4.875, got[2], 1e-12)
}

func TestForecastARIMA(t *testing.T) {
	series := arSeries(200)
	mean, err := ForecastARIMA(series, DefaultForecastOptions())
	require.NoError(t, err)
	assert.False(t, math.IsNaN(mean))

	model, err := FitARIMA(series, DefaultForecastOptions())
	require.NoError(t, err)
	assert.Less(t, math.Abs(model.Phi), 1.0)
	assert.Less(t, math.Abs(model.Theta), 1.0)
}

func TestForecastARIMA_Failures(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   error
	}{
		{"too short", []float64{0.1, 0.2, 0.3}, ErrInsufficientData},
		{"constant", []float64{0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2, 0.2}, ErrDegenerateSeries},
		{"linear", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, ErrDegenerateSeries},
		{"nan", []float64{0.1, math.NaN(), 0.3, 0.1, 0.2, 0.3, 0.1, 0.2, 0.3, 0.1}, ErrDegenerateSeries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ForecastARIMA(tt.series, DefaultForecastOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var estErr *EstimatorError
			require.ErrorAs(t, err, &estErr)
			assert.Equal(t, EstimatorARIMA, estErr.Estimator)
		})
	}
}

func TestForecastTrend_LinearSeries(t *testing.T) {
	const n = 200
	dates := dailyDates(n)
	series := make([]float64, n)
	for i := range series {
		series[i] = 0.2 + 0.001*float64(i)
	}

	mean, err := ForecastTrend(dates, series, DefaultTrendOptions())
	require.NoError(t, err)
	// mean of days n..n+29
	want := 0.2 + 0.001*(float64(n-1)+15.5)
	assert.InDelta(t, want, mean, 1e-6)
}

func TestForecastTrend_ConstantSeries(t *testing.T) {
	dates := dailyDates(60)
	series := make([]float64, 60)
	for i := range series {
		series[i] = 0.3
	}
	mean, err := ForecastTrend(dates, series, DefaultTrendOptions())
	require.NoError(t, err)
	assert.InDelta(t, 0.3, mean, 1e-6)
}

func TestForecastTrend_Failures(t *testing.T) {
	_, err := ForecastTrend(dailyDates(5), []float64{1, 2, 3, 4, 5}, DefaultTrendOptions())
	assert.ErrorIs(t, err, ErrInsufficientData)

	zeros := make([]float64, 20)
	_, err = ForecastTrend(dailyDates(20), zeros, DefaultTrendOptions())
	assert.ErrorIs(t, err, ErrDegenerateSeries)

	_, err = ForecastTrend(dailyDates(3), make([]float64, 20), DefaultTrendOptions())
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
