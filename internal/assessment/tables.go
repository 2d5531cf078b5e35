package assessment

import (
	"context"
	"fmt"

	"RiskSentinel/internal/collector"
	"RiskSentinel/internal/model"
)

// Tables supplies the per-country macro and sentiment inputs.
type Tables interface {
	Macro(ctx context.Context) ([]model.MacroIndicators, error)
	Sentiment(ctx context.Context) ([]model.Sentiment, error)
}

// FileTables reads both tables from CSV files on every call.
type FileTables struct {
	MacroPath     string
	SentimentPath string
}

func (f FileTables) Macro(_ context.Context) ([]model.MacroIndicators, error) {
	rows, err := collector.ReadMacroCSV(f.MacroPath)
	if err != nil {
		return nil, fmt.Errorf("macro table %s: %w", f.MacroPath, err)
	}
	return rows, nil
}

func (f FileTables) Sentiment(_ context.Context) ([]model.Sentiment, error) {
	rows, err := collector.ReadSentimentCSV(f.SentimentPath)
	if err != nil {
		return nil, fmt.Errorf("sentiment table %s: %w", f.SentimentPath, err)
	}
	return rows, nil
}

// StaticTables serves fixed rows.
type StaticTables struct {
	MacroRows     []model.MacroIndicators
	SentimentRows []model.Sentiment
}

func (s StaticTables) Macro(_ context.Context) ([]model.MacroIndicators, error) {
	return s.MacroRows, nil
}

func (s StaticTables) Sentiment(_ context.Context) ([]model.Sentiment, error) {
	return s.SentimentRows, nil
}
