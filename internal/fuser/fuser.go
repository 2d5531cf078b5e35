// Package fuser joins per-pair risk metrics, macro indicators and sentiment
// into one profile per country.
package fuser

import (
	"sort"

	"github.com/rs/zerolog"

	"RiskSentinel/internal/config"
	"RiskSentinel/internal/model"
)

// JoinPolicy selects how countries missing from a source are treated.
type JoinPolicy string

const (
	// InnerJoin keeps only countries present in all three sources.
	// This silently shrinks the universe and is the reference behavior.
	InnerJoin JoinPolicy = config.JoinInner
	// OuterJoin keeps every country seen in any source; missing fields stay undefined.
	OuterJoin JoinPolicy = config.JoinOuter
)

// Fuser merges the sources on the country code.
type Fuser struct {
	universe *config.Universe
	policy   JoinPolicy
	log      zerolog.Logger
}

// NewFuser creates a Fuser over an immutable universe.
func NewFuser(u *config.Universe, policy JoinPolicy, log zerolog.Logger) *Fuser {
	return &Fuser{
		universe: u,
		policy:   policy,
		log:      log.With().Str("component", "fuser").Logger(),
	}
}

// ResolveCountries returns copies of the records with Country set. Pairs without
// a mapping are dropped. When several pairs map to one country, the first pair
// in code order is kept.
func (f *Fuser) ResolveCountries(records []model.RiskMetricsRecord) []model.RiskMetricsRecord {
	sorted := make([]model.RiskMetricsRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Pair < sorted[j].Pair })

	out := make([]model.RiskMetricsRecord, 0, len(sorted))
	byCountry := make(map[string]string)
	for _, r := range sorted {
		country, ok := f.universe.CountryForPair(r.Pair)
		if !ok {
			f.log.Info().Str("pair", r.Pair).Msg("no country mapping for pair, dropping")
			continue
		}
		if first, dup := byCountry[country]; dup {
			f.log.Warn().Str("pair", r.Pair).Str("kept", first).Str("country", country).Msg("country already mapped, dropping pair")
			continue
		}
		byCountry[country] = r.Pair
		r.Country = country
		out = append(out, r)
	}
	return out
}

// Fuse resolves the pair countries and merges the three sources.
func (f *Fuser) Fuse(records []model.RiskMetricsRecord, macro []model.MacroIndicators, sentiment []model.Sentiment) []model.CountryProfile {
	return f.Merge(f.ResolveCountries(records), macro, sentiment)
}

// Merge joins records that already carry a country with the macro and
// sentiment rows into one profile per country, sorted by country.
// Duplicate rows for a country within a source keep the first occurrence.
func (f *Fuser) Merge(resolved []model.RiskMetricsRecord, macro []model.MacroIndicators, sentiment []model.Sentiment) []model.CountryProfile {
	fx := make(map[string]model.RiskMetricsRecord, len(resolved))
	for _, r := range resolved {
		if _, dup := fx[r.Country]; dup || r.Country == "" {
			continue
		}
		fx[r.Country] = r
	}

	mac := make(map[string]model.MacroIndicators, len(macro))
	for _, m := range macro {
		if _, dup := mac[m.Country]; dup {
			f.log.Warn().Str("country", m.Country).Msg("duplicate macro row, keeping first")
			continue
		}
		mac[m.Country] = m
	}

	sent := make(map[string]model.Sentiment, len(sentiment))
	for _, s := range sentiment {
		if _, dup := sent[s.Country]; dup {
			f.log.Warn().Str("country", s.Country).Msg("duplicate sentiment row, keeping first")
			continue
		}
		sent[s.Country] = s
	}

	keys := make(map[string]bool)
	for c := range fx {
		keys[c] = true
	}
	for c := range mac {
		keys[c] = true
	}
	for c := range sent {
		keys[c] = true
	}

	out := make([]model.CountryProfile, 0, len(keys))
	dropped := 0
	for country := range keys {
		r, hasFX := fx[country]
		m, hasMacro := mac[country]
		s, hasSent := sent[country]
		if f.policy != OuterJoin && !(hasFX && hasMacro && hasSent) {
			dropped++
			f.log.Debug().
				Str("country", country).
				Bool("fx", hasFX).
				Bool("macro", hasMacro).
				Bool("sentiment", hasSent).
				Msg("country missing from a source, excluded")
			continue
		}

		p := model.CountryProfile{Country: country}
		if hasMacro {
			p.Region = m.Region
			p.GDPGrowth = m.GDPGrowth
			p.Inflation = m.Inflation
			p.DebtToGDP = m.DebtToGDP
			p.CurrentAccount = m.CurrentAccount
		}
		if p.Region == "" {
			p.Region, _ = f.universe.RegionOf(country)
		}
		if hasFX {
			p.Pair = r.Pair
			p.Volatility = r.Volatility
			p.Drawdown = r.Drawdown
			p.VaR = r.VaR
			p.ARIMAForecast = r.ARIMAForecast
			p.ProphetForecast = r.ProphetForecast
		}
		if hasSent {
			p.AvgSentiment = s.AvgSentiment
			p.ArticleCount = s.ArticleCount
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	f.log.Info().
		Str("join", string(f.policy)).
		Int("countries", len(out)).
		Int("excluded", dropped).
		Msg("country profiles fused")
	return out
}
