package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskSentinel/internal/config"
	"RiskSentinel/internal/model"
)

func TestMacroCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "macro.csv")
	rows := []model.MacroIndicators{
		{Country: "IDN", Region: "Asia", GDPGrowth: model.Float(5.05), Inflation: model.Float(3.7), DebtToGDP: nil, CurrentAccount: model.Float(-0.1)},
	}
	require.NoError(t, WriteMacroCSV(path, rows))

	got, err := ReadMacroCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "IDN", got[0].Country)
	assert.Equal(t, "Asia", got[0].Region)
	assert.InDelta(t, 5.05, *got[0].GDPGrowth, 1e-12)
	assert.Nil(t, got[0].DebtToGDP)
}

func TestReadSentimentCSV(t *testing.T) {
	dir := t.TempDir()

	summary := filepath.Join(dir, "summary.csv")
	require.NoError(t, os.WriteFile(summary, []byte("country,avg_sentiment,article_count\nidn,0.25,12\nBRA,,0\n"), 0o644))
	got, err := ReadSentimentCSV(summary)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "IDN", got[0].Country)
	assert.Equal(t, 12, got[0].ArticleCount)
	assert.Nil(t, got[1].AvgSentiment)

	articles := filepath.Join(dir, "articles.csv")
	require.NoError(t, os.WriteFile(articles, []byte("country,sentiment\nIDN,0.5\nIDN,-0.1\nIDN,\nBRA,0.2\n"), 0o644))
	got, err = ReadSentimentCSV(articles)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "BRA", got[0].Country)
	assert.Equal(t, "IDN", got[1].Country)
	assert.Equal(t, 2, got[1].ArticleCount)
	assert.InDelta(t, 0.2, *got[1].AvgSentiment, 1e-12)

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("country,score\nIDN,1\n"), 0o644))
	_, err = ReadSentimentCSV(bad)
	assert.Error(t, err)
}

func TestAggregateSentiment_NoScores(t *testing.T) {
	got := AggregateSentiment([]model.ArticleSentiment{{Country: "TUR"}})
	require.Len(t, got, 1)
	assert.Nil(t, got[0].AvgSentiment)
	assert.Equal(t, 0, got[0].ArticleCount)
}

func TestProcessWorldBank(t *testing.T) {
	dir := t.TempDir()
	idn := `[{"page":1},[
		{"countryiso3code":"IDN","indicator":{"id":"NY.GDP.MKTP.KD.ZG"},"date":"2023","value":5.05},
		{"countryiso3code":"IDN","indicator":{"id":"NY.GDP.MKTP.KD.ZG"},"date":"2022","value":5.31},
		{"countryiso3code":"IDN","indicator":{"id":"FP.CPI.TOTL.ZG"},"date":"2023","value":null},
		{"countryiso3code":"IDN","indicator":{"id":"FP.CPI.TOTL.ZG"},"date":"2022","value":4.2},
		{"countryiso3code":"MYS","indicator":{"id":"NY.GDP.MKTP.KD.ZG"},"date":"2023","value":3.6}
	]]`
	usa := `[{"page":1},[{"countryiso3code":"USA","indicator":{"id":"NY.GDP.MKTP.KD.ZG"},"date":"2023","value":2.5}]]`
	empty := `[{"message":"no data"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "idn.json"), []byte(idn), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "usa.json"), []byte(usa), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.json"), []byte(empty), 0o644))

	u := config.NewUniverse(config.ReferenceCurrencies, map[string][]string{"Asia": {"IDN"}})
	rows, err := ProcessWorldBank(dir, u, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "IDN", rows[0].Country)
	assert.Equal(t, "Asia", rows[0].Region)
	assert.InDelta(t, 5.05, *rows[0].GDPGrowth, 1e-12)
	assert.InDelta(t, 4.2, *rows[0].Inflation, 1e-12)
	assert.Nil(t, rows[0].DebtToGDP)

	// MYS has no region of its own but shares the file's region
	assert.Equal(t, "MYS", rows[1].Country)
	assert.Equal(t, "Asia", rows[1].Region)
	assert.InDelta(t, 3.6, *rows[1].GDPGrowth, 1e-12)
}

func TestProcessWorldBank_NoData(t *testing.T) {
	_, err := ProcessWorldBank(t.TempDir(), config.DefaultUniverse(), zerolog.Nop())
	assert.Error(t, err)
}
