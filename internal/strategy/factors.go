package strategy

import "RiskSentinel/internal/model"

// Direction tells whether a higher raw value should raise or lower the score.
type Direction int

const (
	// Direct: higher raw value scores higher.
	Direct Direction = iota
	// Inverted: higher raw value is worse, score' = 100 - score.
	Inverted
)

// Indicator describes how one component is read from a profile and scored.
type Indicator struct {
	Component model.Component
	Direction Direction
	Raw       func(p *model.CountryProfile) *float64
	// Fallback replaces an undefined score after scaling. Nil means the
	// undefined value propagates into the risk score.
	Fallback *float64
}

// Indicators is the scoring table in output column order.
// Drawdown and VaR are inverted on their signed values like the higher-is-worse columns.
// A missing debt score counts as 0, the worst case.
var Indicators = []Indicator{
	{
		Component: model.ComponentGDP,
		Direction: Direct,
		Raw:       func(p *model.CountryProfile) *float64 { return p.GDPGrowth },
	},
	{
		Component: model.ComponentInflation,
		Direction: Inverted,
		Raw:       func(p *model.CountryProfile) *float64 { return p.Inflation },
	},
	{
		Component: model.ComponentDebt,
		Direction: Inverted,
		Raw:       func(p *model.CountryProfile) *float64 { return p.DebtToGDP },
		Fallback:  model.Float(0),
	},
	{
		Component: model.ComponentFXVolatility,
		Direction: Inverted,
		Raw:       func(p *model.CountryProfile) *float64 { return p.Volatility },
	},
	{
		Component: model.ComponentDrawdown,
		Direction: Inverted,
		Raw:       func(p *model.CountryProfile) *float64 { return p.Drawdown },
	},
	{
		Component: model.ComponentVaR,
		Direction: Inverted,
		Raw:       func(p *model.CountryProfile) *float64 { return p.VaR },
	},
	{
		Component: model.ComponentARIMA,
		Direction: Direct,
		Raw:       func(p *model.CountryProfile) *float64 { return p.ARIMAForecast },
	},
	{
		Component: model.ComponentProphet,
		Direction: Direct,
		Raw:       func(p *model.CountryProfile) *float64 { return p.ProphetForecast },
	},
	{
		Component: model.ComponentCurrentAccount,
		Direction: Direct,
		Raw:       func(p *model.CountryProfile) *float64 { return p.CurrentAccount },
	},
	{
		Component: model.ComponentSentiment,
		Direction: Direct,
		Raw:       func(p *model.CountryProfile) *float64 { return p.AvgSentiment },
	},
}

// MinMaxScale rescales the defined values to [0,100] over the defined subset.
// Undefined inputs stay undefined. When every defined value is equal, every
// defined value maps to 0.
func MinMaxScale(values []*float64) []*float64 {
	out := make([]*float64, len(values))
	lo, hi := 0.0, 0.0
	seen := false
	for _, v := range values {
		if v == nil {
			continue
		}
		if !seen || *v < lo {
			lo = *v
		}
		if !seen || *v > hi {
			hi = *v
		}
		seen = true
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		if hi == lo {
			out[i] = model.Float(0)
			continue
		}
		out[i] = model.Float((*v - lo) / (hi - lo) * 100)
	}
	return out
}

// scoreIndicator scales one column across the country set and applies the
// direction and fallback rules.
func scoreIndicator(ind Indicator, profiles []model.CountryProfile) []*float64 {
	raw := make([]*float64, len(profiles))
	for i := range profiles {
		raw[i] = ind.Raw(&profiles[i])
	}
	scaled := MinMaxScale(raw)
	degenerate := isDegenerate(raw)
	for i, s := range scaled {
		if s == nil {
			if ind.Fallback != nil {
				scaled[i] = model.Float(*ind.Fallback)
			}
			continue
		}
		if ind.Direction == Inverted && !degenerate {
			*s = 100 - *s
		}
	}
	return scaled
}

// isDegenerate reports whether all defined values are equal.
func isDegenerate(values []*float64) bool {
	var first *float64
	for _, v := range values {
		if v == nil {
			continue
		}
		if first == nil {
			first = v
			continue
		}
		if *v != *first {
			return false
		}
	}
	return true
}
