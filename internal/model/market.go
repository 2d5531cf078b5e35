package model

import "time"

// PricePoint is one daily close for a currency pair.
type PricePoint struct {
	Pair  string
	Date  time.Time
	Close float64
}

// RawPriceRecord is an unvalidated price row as read from a source.
// Date and Close are kept as text so malformed rows can be dropped individually.
type RawPriceRecord struct {
	Pair   string
	Region string
	Date   string
	Close  string
	Origin string // file or source the row came from
}

// PairSeries holds the date-ordered closes of one currency pair.
type PairSeries struct {
	Pair   string
	Region string
	Points []PricePoint
}

// Closes returns the closing prices in date order.
func (s *PairSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Dates returns the observation dates in order.
func (s *PairSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Len returns the number of price observations.
func (s *PairSeries) Len() int { return len(s.Points) }
