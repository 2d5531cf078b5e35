package model

// MacroIndicators is one row of the macro indicators table.
type MacroIndicators struct {
	Country        string
	Region         string
	GDPGrowth      *float64
	Inflation      *float64
	DebtToGDP      *float64
	CurrentAccount *float64
}

// Sentiment is the per-country news sentiment summary.
type Sentiment struct {
	Country      string
	AvgSentiment *float64
	ArticleCount int
}

// ArticleSentiment is one scored article, before per-country aggregation.
type ArticleSentiment struct {
	Country   string
	Sentiment *float64
}

// CountryProfile is the fused view of one country across all sources.
type CountryProfile struct {
	Country string
	Region  string
	Pair    string

	GDPGrowth      *float64
	Inflation      *float64
	DebtToGDP      *float64
	CurrentAccount *float64

	Volatility      *float64
	Drawdown        *float64
	VaR             *float64
	ARIMAForecast   *float64
	ProphetForecast *float64

	AvgSentiment *float64
	ArticleCount int
}
