package calculator

import (
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// ForecastOptions bounds a forecast fit.
type ForecastOptions struct {
	Horizon         int           // steps ahead to forecast
	MaxIterations   int           // optimizer iteration budget
	Timeout         time.Duration // optimizer wall-clock budget, 0 = none
	MinObservations int           // minimum length of the input series
}

// DefaultForecastOptions returns the 30-step horizon with a bounded fit.
func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{
		Horizon:         30,
		MaxIterations:   500,
		Timeout:         10 * time.Second,
		MinObservations: 10,
	}
}

// ARIMAModel is a fitted ARIMA(1,1,1) model without constant.
type ARIMAModel struct {
	Phi   float64 // AR(1) coefficient on the differenced series
	Theta float64 // MA(1) coefficient
	SSE   float64 // conditional sum of squared residuals
}

var convergedStatuses = map[optimize.Status]bool{
	optimize.Success:             true,
	optimize.FunctionConvergence: true,
	optimize.GradientThreshold:   true,
	optimize.StepConvergence:     true,
	optimize.MethodConverge:      true,
}

// FitARIMA fits ARIMA(1,1,1) to series by conditional sum of squares.
// Both coefficients are kept inside (-1, 1) through a tanh transform.
func FitARIMA(series []float64, opts ForecastOptions) (*ARIMAModel, error) {
	if len(series) < opts.MinObservations || len(series) < 4 {
		return nil, newError(EstimatorARIMA, ErrInsufficientData, "%d observations, need %d", len(series), opts.MinObservations)
	}
	if !allFinite(series) {
		return nil, newError(EstimatorARIMA, ErrDegenerateSeries, "non-finite values")
	}

	diff := difference(series)
	sd := stat.StdDev(diff, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, newError(EstimatorARIMA, ErrDegenerateSeries, "constant differenced series")
	}
	scaled := make([]float64, len(diff))
	for i, d := range diff {
		scaled[i] = d / sd
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			_, sse := arimaResiduals(scaled, math.Tanh(x[0]), math.Tanh(x[1]))
			return sse
		},
	}
	settings := &optimize.Settings{
		MajorIterations: opts.MaxIterations,
		FuncEvaluations: opts.MaxIterations * 4,
		Runtime:         opts.Timeout,
	}

	result, err := optimize.Minimize(problem, []float64{0.1, 0.1}, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, newError(EstimatorARIMA, ErrNoConvergence, "%v", err)
	}
	if !convergedStatuses[result.Status] {
		return nil, newError(EstimatorARIMA, ErrNoConvergence, "status=%v", result.Status)
	}

	phi, theta := math.Tanh(result.X[0]), math.Tanh(result.X[1])
	_, sse := arimaResiduals(diff, phi, theta)
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return nil, newError(EstimatorARIMA, ErrDegenerateSeries, "non-finite residuals")
	}
	return &ARIMAModel{Phi: phi, Theta: theta, SSE: sse}, nil
}

// Forecast extends series by horizon steps and returns the level forecasts.
func (m *ARIMAModel) Forecast(series []float64, horizon int) []float64 {
	diff := difference(series)
	resid, _ := arimaResiduals(diff, m.Phi, m.Theta)

	out := make([]float64, horizon)
	level := series[len(series)-1]
	lastDiff := diff[len(diff)-1]
	lastResid := resid[len(resid)-1]
	for h := 0; h < horizon; h++ {
		next := m.Phi * lastDiff
		if h == 0 {
			next += m.Theta * lastResid
		}
		level += next
		out[h] = level
		lastDiff = next
	}
	return out
}

// ForecastARIMA fits ARIMA(1,1,1) and returns the mean of the forecast horizon.
func ForecastARIMA(series []float64, opts ForecastOptions) (float64, error) {
	if opts.Horizon < 1 {
		return 0, newError(EstimatorARIMA, ErrInvalidParameter, "horizon %d < 1", opts.Horizon)
	}
	model, err := FitARIMA(series, opts)
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(model.Forecast(series, opts.Horizon), nil)
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0, newError(EstimatorARIMA, ErrDegenerateSeries, "non-finite forecast")
	}
	return mean, nil
}

func difference(series []float64) []float64 {
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}

// arimaResiduals runs the ARMA(1,1) recursion over the differenced series,
// conditioning on a zero initial residual.
func arimaResiduals(diff []float64, phi, theta float64) ([]float64, float64) {
	resid := make([]float64, len(diff))
	var sse float64
	for t := 1; t < len(diff); t++ {
		resid[t] = diff[t] - phi*diff[t-1] - theta*resid[t-1]
		sse += resid[t] * resid[t]
	}
	return resid, sse
}
