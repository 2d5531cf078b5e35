package model

// Component names the ten scored dimensions.
type Component string

const (
	ComponentGDP            Component = "gdp_growth"
	ComponentInflation      Component = "inflation"
	ComponentFXVolatility   Component = "fx_volatility"
	ComponentDrawdown       Component = "drawdown"
	ComponentVaR            Component = "var"
	ComponentARIMA          Component = "arima_forecast"
	ComponentProphet        Component = "prophet_forecast"
	ComponentDebt           Component = "debt_to_gdp"
	ComponentCurrentAccount Component = "current_account"
	ComponentSentiment      Component = "sentiment"
)

// Components lists every scored dimension in output column order.
var Components = []Component{
	ComponentGDP,
	ComponentInflation,
	ComponentDebt,
	ComponentFXVolatility,
	ComponentDrawdown,
	ComponentVaR,
	ComponentARIMA,
	ComponentProphet,
	ComponentCurrentAccount,
	ComponentSentiment,
}

// ComponentScore is one dimension's scaled score and its weighted contribution.
type ComponentScore struct {
	Component Component
	Raw       *float64
	Score     *float64 // 0..100 after scaling and inversion
	Weight    float64
	Weighted  *float64
}

// RiskScore is one ranked row of the output table.
type RiskScore struct {
	Rank      int // dense 0-based row index
	Country   string
	Region    string
	RiskScore *float64 // nil when any non-debt component is undefined
	Scores    map[Component]ComponentScore
}

// Score returns the scaled score of a component, or nil.
func (r *RiskScore) Score(c Component) *float64 {
	cs, ok := r.Scores[c]
	if !ok {
		return nil
	}
	return cs.Score
}
