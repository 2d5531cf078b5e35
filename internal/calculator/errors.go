package calculator

import (
	"errors"
	"fmt"
)

// Estimator identifies which metric estimator produced an error.
type Estimator string

const (
	EstimatorVolatility Estimator = "volatility"
	EstimatorDrawdown   Estimator = "drawdown"
	EstimatorVaR        Estimator = "var"
	EstimatorARIMA      Estimator = "arima"
	EstimatorTrend      Estimator = "trend"
)

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrDegenerateSeries = errors.New("degenerate series")
	ErrNoConvergence    = errors.New("fit did not converge")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// EstimatorError is the typed failure of a single estimator.
type EstimatorError struct {
	Estimator Estimator
	Err       error
	Detail    string
}

func (e *EstimatorError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Estimator, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Estimator, e.Err, e.Detail)
}

func (e *EstimatorError) Unwrap() error { return e.Err }

func newError(est Estimator, err error, format string, args ...any) error {
	return &EstimatorError{Estimator: est, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// Reason returns a short label for an estimator failure, suitable for metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrDegenerateSeries):
		return "degenerate_series"
	case errors.Is(err, ErrNoConvergence):
		return "no_convergence"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return "other"
	}
}
