package notifier

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskSentinel/internal/model"
)

func rows() []model.RiskScore {
	full := model.RiskScore{Rank: 0, Country: "IDN", Region: "Asia", RiskScore: model.Float(71.34), Scores: map[model.Component]model.ComponentScore{}}
	for _, c := range model.Components {
		full.Scores[c] = model.ComponentScore{Component: c, Score: model.Float(50)}
	}
	partial := model.RiskScore{Rank: 1, Country: "BRA", Region: "Latin America", Scores: map[model.Component]model.ComponentScore{}}
	return []model.RiskScore{full, partial}
}

func TestFormatRanking(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	out := FormatRanking("abc", at, rows(), 0)

	assert.Contains(t, out, "2024-03-01 09:00")
	assert.Contains(t, out, "run abc")
	assert.Contains(t, out, "IDN")
	assert.Contains(t, out, "71.3")
	assert.Contains(t, out, "1 countries have an undefined component")

	top := FormatRanking("abc", at, rows(), 1)
	assert.NotContains(t, top, "BRA")
	assert.Contains(t, top, "... 1 more")

	assert.Contains(t, FormatRanking("abc", at, nil, 5), "no countries scored")
}

func TestFormatFailures(t *testing.T) {
	assert.Empty(t, FormatFailures([]model.RiskMetricsRecord{{Pair: "USDIDR"}}))

	out := FormatFailures([]model.RiskMetricsRecord{
		{Pair: "USDTRY", Observations: 12, Failures: map[string]string{"var": "insufficient_data", "arima": "insufficient_data"}},
	})
	assert.True(t, strings.HasPrefix(out, "Estimator failures:"))
	assert.Contains(t, out, "USDTRY (12 obs) arima: insufficient_data, var: insufficient_data")
}

type flaky struct {
	fails int
	calls int
}

func (f *flaky) Send(_ context.Context, _ string) error {
	f.calls++
	if f.calls <= f.fails {
		return errors.New("unavailable")
	}
	return nil
}

func TestSendWithRetry(t *testing.T) {
	f := &flaky{fails: 2}
	require.NoError(t, SendWithRetry(context.Background(), f, "hi", 3, time.Millisecond, zerolog.Nop()))
	assert.Equal(t, 3, f.calls)

	f = &flaky{fails: 10}
	err := SendWithRetry(context.Background(), f, "hi", 1, time.Millisecond, zerolog.Nop())
	require.Error(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)
	require.NoError(t, n.Send(context.Background(), "ranking\n"))
	assert.Equal(t, "ranking\n", buf.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Send(ctx, "late"), context.Canceled)
}
