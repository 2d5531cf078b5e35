// Package strategy turns fused country profiles into ranked composite risk scores.
package strategy

import (
	"errors"
	"fmt"
	"sort"

	"RiskSentinel/internal/model"
)

// ErrNoData is returned when there are no country profiles to score.
var ErrNoData = errors.New("no data to score")

// Engine scores country profiles with a fixed weight per component.
type Engine struct {
	weights map[model.Component]float64
}

// NewEngine requires a non-negative weight for every component in Indicators.
func NewEngine(weights map[model.Component]float64) (*Engine, error) {
	w := make(map[model.Component]float64, len(Indicators))
	for _, ind := range Indicators {
		v, ok := weights[ind.Component]
		if !ok {
			return nil, fmt.Errorf("strategy: missing weight for %s", ind.Component)
		}
		if v < 0 {
			return nil, fmt.Errorf("strategy: negative weight for %s", ind.Component)
		}
		w[ind.Component] = v
	}
	return &Engine{weights: w}, nil
}

// Weight returns the configured weight of a component.
func (e *Engine) Weight(c model.Component) float64 {
	return e.weights[c]
}

// Evaluate scales every indicator across the profiles, computes the weighted
// risk score and returns the rows ranked.
func (e *Engine) Evaluate(profiles []model.CountryProfile) ([]model.RiskScore, error) {
	if len(profiles) == 0 {
		return nil, ErrNoData
	}

	rows := make([]model.RiskScore, len(profiles))
	for i, p := range profiles {
		rows[i] = model.RiskScore{
			Country: p.Country,
			Region:  p.Region,
			Scores:  make(map[model.Component]model.ComponentScore, len(Indicators)),
		}
	}

	for _, ind := range Indicators {
		scores := scoreIndicator(ind, profiles)
		w := e.weights[ind.Component]
		for i := range rows {
			cs := model.ComponentScore{
				Component: ind.Component,
				Raw:       ind.Raw(&profiles[i]),
				Score:     scores[i],
				Weight:    w,
			}
			if cs.Score != nil {
				cs.Weighted = model.Float(*cs.Score * w)
			}
			rows[i].Scores[ind.Component] = cs
		}
	}

	// No weight redistribution: one undefined component leaves the total undefined.
	for i := range rows {
		total := 0.0
		defined := true
		for _, ind := range Indicators {
			cs := rows[i].Scores[ind.Component]
			if cs.Weighted == nil {
				defined = false
				break
			}
			total += *cs.Weighted
		}
		if defined {
			rows[i].RiskScore = model.Float(total)
		}
	}

	Rank(rows)
	return rows, nil
}

// Rank sorts rows by risk score descending, ties by country, with undefined
// scores last, and assigns a dense 0-based rank.
func Rank(rows []model.RiskScore) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].RiskScore, rows[j].RiskScore
		switch {
		case a != nil && b != nil:
			if *a != *b {
				return *a > *b
			}
		case a != nil:
			return true
		case b != nil:
			return false
		}
		return rows[i].Country < rows[j].Country
	})
	for i := range rows {
		rows[i].Rank = i
	}
}
