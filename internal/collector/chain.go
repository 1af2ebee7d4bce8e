package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"CryptoAnalyst/internal/model"
)

// Chain tries fetchers in a fixed priority order and returns the first
// non-empty series, tagged with the source that produced it. No bars are ever
// merged across sources and no adapter is retried within one call.
type Chain struct {
	Fetchers []Fetcher
	Days     int
}

// NewChain creates a fallback chain over the given fetchers.
func NewChain(days int, fetchers ...Fetcher) *Chain {
	return &Chain{Fetchers: fetchers, Days: days}
}

// GetSeries returns the normalized price history for an asset, or ErrNoSource
// when every adapter failed or was skipped.
func (c *Chain) GetSeries(ctx context.Context, symbol string) (*model.Series, error) {
	var failures []string
	for _, f := range c.Fetchers {
		bars, err := f.FetchDailyBars(ctx, symbol, c.Days)
		if err != nil {
			if errors.Is(err, ErrUnmappedAsset) {
				log.Printf("[INFO] %s: skipping, no mapping for %s", f.Name(), symbol)
			} else {
				log.Printf("[WARN] %s: %v", f.Name(), err)
			}
			failures = append(failures, fmt.Sprintf("%s: %v", f.Name(), err))
			continue
		}
		if len(bars) == 0 {
			log.Printf("[WARN] %s: empty series for %s", f.Name(), symbol)
			failures = append(failures, fmt.Sprintf("%s: empty series", f.Name()))
			continue
		}
		return &model.Series{
			Symbol:    symbol,
			Source:    f.Name(),
			Bars:      dedupeByDay(bars),
			FetchedAt: time.Now(),
		}, nil
	}
	return nil, fmt.Errorf("%w for %s: %s", ErrNoSource, symbol, strings.Join(failures, "; "))
}

// dedupeByDay enforces one bar per calendar day, keeping the later entry.
// Input must already be sorted by ascending date.
func dedupeByDay(bars []model.Bar) []model.Bar {
	out := bars[:0:0]
	for _, b := range bars {
		day := b.Date.UTC().Truncate(24 * time.Hour)
		if n := len(out); n > 0 && out[n-1].Date.UTC().Truncate(24*time.Hour).Equal(day) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	FetcherName string
	Bars        []model.Bar
	Err         error
	Calls       int
}

func (m *MockFetcher) Name() string {
	if m.FetcherName == "" {
		return "mock"
	}
	return m.FetcherName
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.Bar, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateBars(100, days), nil
}

// GenerateBars builds a deterministic synthetic daily series around basePrice.
func GenerateBars(basePrice float64, count int) []model.Bar {
	bars := make([]model.Bar, count)
	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		d := start.AddDate(0, 0, i)
		bars[i] = model.Bar{
			Timestamp: d.UnixMilli(),
			Date:      d,
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    1000000,
		}
	}
	return bars
}
