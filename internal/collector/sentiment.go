package collector

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"RiskSentinel/internal/model"
)

// AggregateSentiment averages article scores per country. Articles without a
// score are ignored by both the mean and the count.
func AggregateSentiment(articles []model.ArticleSentiment) []model.Sentiment {
	scores := make(map[string][]float64)
	for _, a := range articles {
		if a.Country == "" {
			continue
		}
		if _, ok := scores[a.Country]; !ok {
			scores[a.Country] = nil
		}
		if a.Sentiment != nil {
			scores[a.Country] = append(scores[a.Country], *a.Sentiment)
		}
	}

	out := make([]model.Sentiment, 0, len(scores))
	for country, s := range scores {
		row := model.Sentiment{Country: country, ArticleCount: len(s)}
		if len(s) > 0 {
			row.AvgSentiment = model.Float(stat.Mean(s, nil))
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}
