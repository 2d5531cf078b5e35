package collector

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"RiskSentinel/internal/model"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"20060102",
}

// NormalizeStats counts what the loader discarded.
type NormalizeStats struct {
	Records    int
	Malformed  int
	Duplicates int
}

// NormalizeSeries groups raw records into one date-sorted series per pair.
// Malformed records are dropped; for a repeated (pair, date) the first record wins.
// A pair whose records are all malformed still gets an empty series.
func NormalizeSeries(records []model.RawPriceRecord, log zerolog.Logger) (map[string]*model.PairSeries, NormalizeStats) {
	stats := NormalizeStats{Records: len(records)}
	out := make(map[string]*model.PairSeries)
	seen := make(map[string]map[time.Time]bool)

	for _, r := range records {
		pair := strings.ToUpper(strings.TrimSpace(r.Pair))
		if pair == "" {
			stats.Malformed++
			continue
		}
		s, ok := out[pair]
		if !ok {
			s = &model.PairSeries{Pair: pair, Region: r.Region}
			out[pair] = s
			seen[pair] = make(map[time.Time]bool)
		}

		date, ok := parseDate(r.Date)
		if !ok {
			stats.Malformed++
			continue
		}
		price, ok := parsePrice(r.Close)
		if !ok {
			stats.Malformed++
			continue
		}
		if seen[pair][date] {
			stats.Duplicates++
			log.Warn().
				Str("pair", pair).
				Str("date", date.Format("2006-01-02")).
				Str("origin", r.Origin).
				Msg("duplicate price record, keeping first")
			continue
		}
		seen[pair][date] = true
		s.Points = append(s.Points, model.PricePoint{Pair: pair, Date: date, Close: price})
	}

	for _, s := range out {
		sort.SliceStable(s.Points, func(i, j int) bool { return s.Points[i].Date.Before(s.Points[j].Date) })
	}
	if stats.Malformed > 0 {
		log.Debug().Int("malformed", stats.Malformed).Msg("dropped malformed price records")
	}
	return out, stats
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
