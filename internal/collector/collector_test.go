package collector

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskSentinel/internal/model"
)

func syntheticRecords(pair string, n int) []model.RawPriceRecord {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	recs := make([]model.RawPriceRecord, n)
	for i := range recs {
		p := 15000 + 300*math.Sin(float64(i)/9) + 120*math.Cos(float64(i)/4) + float64(i)
		recs[i] = model.RawPriceRecord{
			Pair:  pair,
			Date:  start.AddDate(0, 0, i).Format("2006-01-02"),
			Close: fmt.Sprintf("%.4f", p),
		}
	}
	return recs
}

func TestNormalizeSeries(t *testing.T) {
	records := []model.RawPriceRecord{
		{Pair: "usdidr", Date: "2024-01-03", Close: "15600"},
		{Pair: "USDIDR", Date: "2024-01-02", Close: "15500"},
		{Pair: "USDIDR", Date: "2024-01-03", Close: "99999", Origin: "later.csv"},
		{Pair: "USDIDR", Date: "not-a-date", Close: "15550"},
		{Pair: "USDIDR", Date: "2024-01-04", Close: "-3"},
		{Pair: "USDIDR", Date: "2024-01-05", Close: "abc"},
		{Pair: "USDBRL", Date: "2024-01-02", Close: "0"},
		{Pair: "", Date: "2024-01-02", Close: "1"},
	}

	series, stats := NormalizeSeries(records, zerolog.Nop())
	require.Len(t, series, 2)

	idr := series["USDIDR"]
	require.NotNil(t, idr)
	require.Equal(t, 2, idr.Len())
	assert.Equal(t, []float64{15500, 15600}, idr.Closes())
	assert.True(t, idr.Points[0].Date.Before(idr.Points[1].Date))

	brl := series["USDBRL"]
	require.NotNil(t, brl)
	assert.Equal(t, 0, brl.Len())

	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 5, stats.Malformed)
	assert.Equal(t, len(records), stats.Records)
}

func TestCSVSource_LoadRecords(t *testing.T) {
	dir := t.TempDir()
	asia := filepath.Join(dir, "Asia")
	require.NoError(t, os.MkdirAll(asia, 0o755))

	older := "date,1. open,2. high,3. low,4. close\n2024-01-02,1,1,1,15500\n2024-01-03,1,1,1,15600\n"
	newer := "date,1. open,2. high,3. low,4. close\n2024-01-03,1,1,1,15650\n2024-01-04,1,1,1,15700\n"
	require.NoError(t, os.WriteFile(filepath.Join(asia, "USDIDR_20240103.csv"), []byte(older), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(asia, "USDIDR_20240104.csv"), []byte(newer), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(asia, "broken.csv"), []byte("foo,bar\n1,2\n"), 0o644))

	src := NewCSVSource(dir, zerolog.Nop())
	records, err := src.LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "USDIDR", records[0].Pair)
	assert.Equal(t, "Asia", records[0].Region)

	series, stats := NormalizeSeries(records, zerolog.Nop())
	assert.Equal(t, 1, stats.Duplicates)
	// the earlier file wins for 2024-01-03
	assert.Equal(t, []float64{15500, 15600, 15700}, series["USDIDR"].Closes())
}

func TestCSVSource_BadQuoteDropsOnlyItsRow(t *testing.T) {
	dir := t.TempDir()
	asia := filepath.Join(dir, "Asia")
	require.NoError(t, os.MkdirAll(asia, 0o755))

	body := "date,close\n" +
		"2024-01-02,15500\n" +
		"2024-01-03,\"15600\n" +
		"2024-01-04,15650\n" +
		"\n" +
		"2024-01-05,15700\n" +
		"2024-01-08,15720\n"
	require.NoError(t, os.WriteFile(filepath.Join(asia, "USDIDR_20240108.csv"), []byte(body), 0o644))

	records, err := NewCSVSource(dir, zerolog.Nop()).LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	series, stats := NormalizeSeries(records, zerolog.Nop())
	assert.Equal(t, 1, stats.Malformed)
	assert.Equal(t, []float64{15500, 15650, 15700, 15720}, series["USDIDR"].Closes())
}

func newTestCollector() *Collector {
	c := NewCollector(zerolog.Nop(), nil)
	c.Window = 20
	c.Workers = 2
	return c
}

func TestCollector_Collect(t *testing.T) {
	var records []model.RawPriceRecord
	records = append(records, syntheticRecords("USDIDR", 200)...)
	records = append(records, syntheticRecords("USDBRL", 200)...)
	records = append(records, syntheticRecords("USDTRY", 15)...)
	series, _ := NormalizeSeries(records, zerolog.Nop())

	out, err := newTestCollector().Collect(context.Background(), series)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"USDBRL", "USDIDR", "USDTRY"}, []string{out[0].Pair, out[1].Pair, out[2].Pair})

	full := out[1]
	require.NotNil(t, full.Volatility)
	assert.GreaterOrEqual(t, *full.Volatility, 0.0)
	require.NotNil(t, full.Drawdown)
	assert.LessOrEqual(t, *full.Drawdown, 0.0)
	require.NotNil(t, full.VaR)
	assert.LessOrEqual(t, *full.VaR, 0.0)
	assert.NotNil(t, full.ProphetForecast)
	require.NotNil(t, full.ARIMAForecast)

	short := out[2]
	assert.Nil(t, short.Volatility)
	assert.Nil(t, short.VaR)
	assert.Nil(t, short.ARIMAForecast)
	assert.Nil(t, short.ProphetForecast)
	require.NotNil(t, short.Drawdown)
	assert.Contains(t, short.Failures, "volatility")
	assert.Contains(t, short.Failures, "arima")
	assert.Contains(t, short.Failures, "trend")
}

func TestCollector_EmptySeries(t *testing.T) {
	series := map[string]*model.PairSeries{"USDPLN": {Pair: "USDPLN"}}
	out, err := newTestCollector().Collect(context.Background(), series)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Volatility)
	assert.Nil(t, out[0].Drawdown)
	assert.Len(t, out[0].Failures, 5)
}

func TestCollector_Cancelled(t *testing.T) {
	series, _ := NormalizeSeries(syntheticRecords("USDIDR", 200), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCollector().Collect(ctx, series)
	assert.ErrorIs(t, err, context.Canceled)
}
