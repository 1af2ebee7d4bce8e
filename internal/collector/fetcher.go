package collector

import (
	"context"

	"CryptoAnalyst/internal/model"
)

// Fetcher defines the interface for fetching daily price history from one
// upstream provider. Implementations normalize the provider payload into
// chronologically sorted bars with millisecond timestamps and drop the
// in-progress day.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error)
	Name() string
}
