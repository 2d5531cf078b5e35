package calculator

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// TrendOptions configures the additive trend + seasonality model.
type TrendOptions struct {
	ForecastOptions
	Changepoints          int     // potential trend changepoints
	ChangepointRange      float64 // fraction of history where changepoints may sit
	ChangepointPriorScale float64
	SeasonalityPriorScale float64
	WeeklyOrder           int // Fourier order, 0 disables
	YearlyOrder           int // Fourier order, 0 disables
}

// DefaultTrendOptions mirrors the usual piecewise-linear trend defaults,
// with weekly and yearly seasonality and no daily component.
func DefaultTrendOptions() TrendOptions {
	return TrendOptions{
		ForecastOptions:       DefaultForecastOptions(),
		Changepoints:          25,
		ChangepointRange:      0.8,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10,
		WeeklyOrder:           3,
		YearlyOrder:           10,
	}
}

// noiseVariance is the assumed observation noise on the max-scaled series;
// penalties are noiseVariance / priorScale^2.
const noiseVariance = 0.01

// TrendModel is a fitted additive model on a daily-dated series.
type TrendModel struct {
	start        time.Time
	spanDays     float64
	scale        float64
	changepoints []float64
	weekly       int
	yearly       int
	beta         []float64
}

// FitTrend fits y(t) = k + m*t + sum(delta_j * max(0, t - s_j)) + seasonality.
func FitTrend(dates []time.Time, series []float64, opts TrendOptions) (*TrendModel, error) {
	if len(dates) != len(series) {
		return nil, newError(EstimatorTrend, ErrInvalidParameter, "%d dates for %d values", len(dates), len(series))
	}
	if len(series) < opts.MinObservations || len(series) < 2 {
		return nil, newError(EstimatorTrend, ErrInsufficientData, "%d observations, need %d", len(series), opts.MinObservations)
	}
	if !allFinite(series) {
		return nil, newError(EstimatorTrend, ErrDegenerateSeries, "non-finite values")
	}

	m := &TrendModel{start: dates[0]}
	m.spanDays = dates[len(dates)-1].Sub(dates[0]).Hours() / 24
	if m.spanDays <= 0 {
		return nil, newError(EstimatorTrend, ErrDegenerateSeries, "zero time span")
	}
	m.scale = math.Max(math.Abs(floats.Max(series)), math.Abs(floats.Min(series)))
	if m.scale == 0 {
		return nil, newError(EstimatorTrend, ErrDegenerateSeries, "all-zero series")
	}
	if m.spanDays >= 14 {
		m.weekly = opts.WeeklyOrder
	}
	if m.spanDays >= 730 {
		m.yearly = opts.YearlyOrder
	}

	t := make([]float64, len(dates))
	for i, d := range dates {
		t[i] = m.timeIndex(d)
	}
	m.changepoints = placeChangepoints(t, opts.Changepoints, opts.ChangepointRange)

	p := 2 + len(m.changepoints) + 2*(m.weekly+m.yearly)
	x := mat.NewDense(len(series), p, nil)
	for i, d := range dates {
		x.SetRow(i, m.features(d))
	}
	y := mat.NewVecDense(len(series), nil)
	for i, v := range series {
		y.SetVec(i, v/m.scale)
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())
	cpPenalty := noiseVariance / (opts.ChangepointPriorScale * opts.ChangepointPriorScale)
	seasonPenalty := noiseVariance / (opts.SeasonalityPriorScale * opts.SeasonalityPriorScale)
	for j := 2; j < p; j++ {
		pen := seasonPenalty
		if j < 2+len(m.changepoints) {
			pen = cpPenalty
		}
		xtx.SetSym(j, j, xtx.At(j, j)+pen)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, newError(EstimatorTrend, ErrDegenerateSeries, "normal equations not positive definite")
	}
	var xty, beta mat.VecDense
	xty.MulVec(x.T(), y)
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, newError(EstimatorTrend, ErrNoConvergence, "%v", err)
	}
	m.beta = make([]float64, p)
	for j := range m.beta {
		m.beta[j] = beta.AtVec(j)
	}
	if !allFinite(m.beta) {
		return nil, newError(EstimatorTrend, ErrDegenerateSeries, "non-finite coefficients")
	}
	return m, nil
}

// Predict evaluates the fitted model at d, in the original units.
func (m *TrendModel) Predict(d time.Time) float64 {
	return floats.Dot(m.features(d), m.beta) * m.scale
}

// Forecast predicts the horizon calendar days following last.
func (m *TrendModel) Forecast(last time.Time, horizon int) []float64 {
	out := make([]float64, horizon)
	for h := range out {
		out[h] = m.Predict(last.AddDate(0, 0, h+1))
	}
	return out
}

// ForecastTrend fits the trend model and returns the mean of the forecast horizon.
func ForecastTrend(dates []time.Time, series []float64, opts TrendOptions) (float64, error) {
	if opts.Horizon < 1 {
		return 0, newError(EstimatorTrend, ErrInvalidParameter, "horizon %d < 1", opts.Horizon)
	}
	model, err := FitTrend(dates, series, opts)
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(model.Forecast(dates[len(dates)-1], opts.Horizon), nil)
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0, newError(EstimatorTrend, ErrDegenerateSeries, "non-finite forecast")
	}
	return mean, nil
}

func (m *TrendModel) timeIndex(d time.Time) float64 {
	return d.Sub(m.start).Hours() / 24 / m.spanDays
}

func (m *TrendModel) features(d time.Time) []float64 {
	t := m.timeIndex(d)
	row := make([]float64, 0, 2+len(m.changepoints)+2*(m.weekly+m.yearly))
	row = append(row, 1, t)
	for _, s := range m.changepoints {
		row = append(row, math.Max(0, t-s))
	}
	epochDays := float64(d.Unix()) / 86400
	row = appendFourier(row, epochDays, 7, m.weekly)
	row = appendFourier(row, epochDays, 365.25, m.yearly)
	return row
}

func appendFourier(row []float64, days, period float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		arg := 2 * math.Pi * float64(k) * days / period
		row = append(row, math.Sin(arg), math.Cos(arg))
	}
	return row
}

// placeChangepoints spreads n changepoints uniformly over the first fraction of t.
func placeChangepoints(t []float64, n int, fraction float64) []float64 {
	histSize := int(math.Floor(float64(len(t)) * fraction))
	if n > histSize-1 {
		n = histSize - 1
	}
	if n < 1 {
		return nil
	}
	cps := make([]float64, 0, n)
	for j := 1; j <= n; j++ {
		idx := int(math.Round(float64(j) * float64(histSize-1) / float64(n)))
		cps = append(cps, t[idx])
	}
	return cps
}
