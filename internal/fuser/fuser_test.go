package fuser

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RiskSentinel/internal/config"
	"RiskSentinel/internal/model"
)

func testUniverse() *config.Universe {
	return config.NewUniverse(config.ReferenceCurrencies, map[string][]string{
		"Asia":          {"IDN", "MYS"},
		"Latin America": {"BRA"},
	})
}

func fixtures() ([]model.RiskMetricsRecord, []model.MacroIndicators, []model.Sentiment) {
	records := []model.RiskMetricsRecord{
		{Pair: "USDIDR", Volatility: model.Float(0.1)},
		{Pair: "USDXYZ", Volatility: model.Float(0.9)},
		{Pair: "USDBRL", Volatility: model.Float(0.2)},
		{Pair: "USDMYR", Volatility: model.Float(0.05)},
	}
	macro := []model.MacroIndicators{
		{Country: "IDN", Region: "Asia", GDPGrowth: model.Float(5)},
		{Country: "BRA", Region: "Latin America", GDPGrowth: model.Float(2)},
		{Country: "IDN", Region: "Asia", GDPGrowth: model.Float(-9)},
	}
	sentiment := []model.Sentiment{
		{Country: "IDN", AvgSentiment: model.Float(0.2), ArticleCount: 4},
		{Country: "BRA", AvgSentiment: model.Float(-0.1), ArticleCount: 2},
		{Country: "TUR", AvgSentiment: model.Float(0.0), ArticleCount: 1},
	}
	return records, macro, sentiment
}

func TestResolveCountries(t *testing.T) {
	f := NewFuser(testUniverse(), InnerJoin, zerolog.Nop())
	records := []model.RiskMetricsRecord{
		{Pair: "USDXYZ"},
		{Pair: "USDIDR"},
		{Pair: "EURIDR"},
	}

	got := f.ResolveCountries(records)
	require.Len(t, got, 1)
	assert.Equal(t, "EURIDR", got[0].Pair)
	assert.Equal(t, "IDN", got[0].Country)
	// inputs are not mutated
	assert.Empty(t, records[1].Country)
}

func TestFuse_InnerJoin(t *testing.T) {
	records, macro, sentiment := fixtures()
	f := NewFuser(testUniverse(), InnerJoin, zerolog.Nop())

	profiles := f.Fuse(records, macro, sentiment)
	require.Len(t, profiles, 2)
	assert.Equal(t, "BRA", profiles[0].Country)
	assert.Equal(t, "IDN", profiles[1].Country)

	idn := profiles[1]
	assert.Equal(t, "Asia", idn.Region)
	assert.Equal(t, "USDIDR", idn.Pair)
	assert.Equal(t, 5.0, *idn.GDPGrowth)
	assert.Equal(t, 0.1, *idn.Volatility)
	assert.Equal(t, 4, idn.ArticleCount)
}

func TestFuse_OuterJoin(t *testing.T) {
	records, macro, sentiment := fixtures()
	f := NewFuser(testUniverse(), OuterJoin, zerolog.Nop())

	profiles := f.Fuse(records, macro, sentiment)
	countries := make([]string, len(profiles))
	for i, p := range profiles {
		countries[i] = p.Country
	}
	assert.Equal(t, []string{"BRA", "IDN", "MYS", "TUR"}, countries)

	mys := profiles[2]
	assert.Equal(t, "Asia", mys.Region)
	assert.Nil(t, mys.GDPGrowth)
	assert.Nil(t, mys.AvgSentiment)
	require.NotNil(t, mys.Volatility)

	tur := profiles[3]
	assert.Nil(t, tur.Volatility)
	assert.Empty(t, tur.Region)
}

func TestFuse_UnmappedPairDoesNotFail(t *testing.T) {
	f := NewFuser(testUniverse(), InnerJoin, zerolog.Nop())
	records := []model.RiskMetricsRecord{{Pair: "USDXYZ"}, {Pair: "USDIDR"}}
	macro := []model.MacroIndicators{{Country: "IDN"}}
	sentiment := []model.Sentiment{{Country: "IDN"}}

	profiles := f.Fuse(records, macro, sentiment)
	require.Len(t, profiles, 1)
	assert.Equal(t, "IDN", profiles[0].Country)
}
