package model

import "time"

// Bar represents a single daily candlestick. Close is always set; a price-only
// source (CoinGecko market chart) leaves Open/High/Low/Volume at zero.
type Bar struct {
	Timestamp int64     `json:"timestamp"` // epoch milliseconds
	Date      time.Time `json:"date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Series holds the normalized daily price history for one asset, tagged with
// the source that produced it. Bars are sorted by ascending date with no
// duplicate dates; the in-progress day has already been dropped.
type Series struct {
	Symbol    string    `json:"symbol"`
	Source    string    `json:"source"`
	Bars      []Bar     `json:"bars"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Closes extracts the close column.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}
