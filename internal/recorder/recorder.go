package recorder

import (
	"errors"
	"time"

	"RiskSentinel/internal/model"
)

// Run status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// RunSnapshot holds everything produced by one assessment run.
type RunSnapshot struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Err        string
	Metrics    []model.RiskMetricsRecord
	Scores     []model.RiskScore
}

// Recorder persists run results for later analysis.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}

// scoreColumns maps each component to its output column, in output order.
var scoreColumns = []struct {
	Component model.Component
	Column    string
}{
	{model.ComponentGDP, "gdp_score"},
	{model.ComponentInflation, "inflation_score"},
	{model.ComponentDebt, "debt_score"},
	{model.ComponentFXVolatility, "fx_score"},
	{model.ComponentDrawdown, "drawdown_score"},
	{model.ComponentVaR, "var_score"},
	{model.ComponentARIMA, "arima_score"},
	{model.ComponentProphet, "prophet_score"},
	{model.ComponentCurrentAccount, "current_account_score"},
	{model.ComponentSentiment, "sentiment_score"},
}

// multi fans a run out to several recorders.
type multi []Recorder

// Multi combines recorders. Every recorder is called even if one fails.
func Multi(recs ...Recorder) Recorder {
	return multi(recs)
}

func (m multi) RecordRun(snap *RunSnapshot) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordRun(snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
