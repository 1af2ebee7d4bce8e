package analyst

import (
	"context"
	"errors"
	"testing"
	"time"

	"CryptoAnalyst/internal/cache"
	"CryptoAnalyst/internal/calculator"
	"CryptoAnalyst/internal/collector"
	"CryptoAnalyst/internal/strategy"
)

func newTestAnalyst(fetchers ...collector.Fetcher) *Analyst {
	return New(
		collector.NewChain(300, fetchers...),
		cache.NewMemory(time.Hour),
		calculator.DefaultConfig(),
		strategy.DefaultConfig(),
	)
}

func TestAnalyze_EndToEnd(t *testing.T) {
	mock := &collector.MockFetcher{FetcherName: "mock"}
	a := newTestAnalyst(mock)

	result, err := a.Analyze(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != "mock" {
		t.Errorf("expected mock provenance, got %s", result.Source)
	}
	if result.Frame == nil || result.Frame.Len() == 0 {
		t.Fatal("expected a populated frame")
	}
	if result.Advice == nil {
		t.Fatal("expected an advisory block")
	}
	if _, ok := result.Frame.Last(calculator.ColRSI); !ok {
		t.Error("expected a defined rsi on the latest row")
	}
	if _, ok := result.Frame.Last(calculator.ColMA(200)); !ok {
		t.Error("expected a defined ma200 on the latest row")
	}
}

func TestAnalyze_CacheAvoidsRefetch(t *testing.T) {
	mock := &collector.MockFetcher{FetcherName: "mock"}
	a := newTestAnalyst(mock)

	if _, err := a.Analyze(context.Background(), "BTCUSDT"); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	if _, err := a.Analyze(context.Background(), "BTCUSDT"); err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	if mock.Calls != 1 {
		t.Errorf("second analyze should be served from cache, got %d fetches", mock.Calls)
	}
}

func TestAnalyze_FallbackProvenance(t *testing.T) {
	failing := &collector.MockFetcher{FetcherName: "primary",
		Err: errors.New("upstream down")}
	backup := &collector.MockFetcher{FetcherName: "backup"}
	a := newTestAnalyst(failing, backup)

	result, err := a.Analyze(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != "backup" {
		t.Errorf("expected backup provenance, got %s", result.Source)
	}
}

func TestAnalyze_AllSourcesDown(t *testing.T) {
	failing := &collector.MockFetcher{FetcherName: "primary",
		Err: errors.New("upstream down")}
	a := newTestAnalyst(failing)

	_, err := a.Analyze(context.Background(), "BTCUSDT")
	if !errors.Is(err, collector.ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestAnalyzeWith_ShortHistory(t *testing.T) {
	mock := &collector.MockFetcher{FetcherName: "mock",
		Bars: collector.GenerateBars(100, 50)}
	a := newTestAnalyst(mock)

	_, err := a.Analyze(context.Background(), "BTCUSDT")
	if !errors.Is(err, calculator.ErrComputation) {
		t.Fatalf("expected ErrComputation for short history, got %v", err)
	}

	// a lighter indicator battery still works over the same series
	light := calculator.Config{MAWindows: []int{20}}
	result, err := a.AnalyzeWith(context.Background(), "BTCUSDT", light)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Frame.Len() != 50-19 {
		t.Errorf("expected %d rows, got %d", 50-19, result.Frame.Len())
	}
}
