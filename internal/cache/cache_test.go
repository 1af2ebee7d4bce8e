package cache

import (
	"path/filepath"
	"testing"
	"time"

	"CryptoAnalyst/internal/model"
)

func sampleSeries(symbol string, fetchedAt time.Time) *model.Series {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return &model.Series{
		Symbol: symbol,
		Source: "binance",
		Bars: []model.Bar{
			{Timestamp: day.UnixMilli(), Date: day, Open: 100, High: 105, Low: 99, Close: 104, Volume: 1200},
			{Timestamp: day.AddDate(0, 0, 1).UnixMilli(), Date: day.AddDate(0, 0, 1), Open: 104, High: 108, Low: 103, Close: 107, Volume: 900},
		},
		FetchedAt: fetchedAt,
	}
}

func TestMemory_HitAndExpiry(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	c := NewMemory(time.Hour)

	if _, ok := c.Get("BTCUSDT", now); ok {
		t.Fatal("expected a miss on an empty cache")
	}

	if err := c.Put(sampleSeries("BTCUSDT", now)); err != nil {
		t.Fatalf("put: %v", err)
	}

	s, ok := c.Get("BTCUSDT", now.Add(30*time.Minute))
	if !ok {
		t.Fatal("expected a hit inside the TTL")
	}
	if s.Source != "binance" || len(s.Bars) != 2 {
		t.Errorf("unexpected cached series: %s / %d bars", s.Source, len(s.Bars))
	}

	if _, ok := c.Get("BTCUSDT", now.Add(time.Hour)); ok {
		t.Fatal("expected a miss at exactly the TTL boundary")
	}
	// the expired entry is evicted, not just hidden
	if _, ok := c.Get("BTCUSDT", now); ok {
		t.Fatal("expected the expired entry to be gone")
	}
}

func TestMemory_SymbolsAreIndependent(t *testing.T) {
	now := time.Now()
	c := NewMemory(time.Hour)
	if err := c.Put(sampleSeries("BTCUSDT", now)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := c.Get("ETHUSDT", now); ok {
		t.Fatal("expected a miss for an unrelated symbol")
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := NewSQLite(path, time.Hour)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	now := time.Now().Truncate(time.Second)
	if err := c.Put(sampleSeries("BTCUSDT", now)); err != nil {
		t.Fatalf("put: %v", err)
	}

	s, ok := c.Get("BTCUSDT", now.Add(time.Minute))
	if !ok {
		t.Fatal("expected a hit inside the TTL")
	}
	if s.Symbol != "BTCUSDT" || s.Source != "binance" {
		t.Errorf("unexpected identity: %s / %s", s.Symbol, s.Source)
	}
	if len(s.Bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(s.Bars))
	}
	if s.Bars[1].Close != 107 {
		t.Errorf("bar payload must survive the round trip, got close %f", s.Bars[1].Close)
	}
}

func TestSQLite_ExpiryAndOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := NewSQLite(path, time.Hour)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	now := time.Now().Truncate(time.Second)
	if err := c.Put(sampleSeries("BTCUSDT", now)); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, ok := c.Get("BTCUSDT", now.Add(2*time.Hour)); ok {
		t.Fatal("expected a miss past the TTL")
	}

	// a fresh Put replaces the evicted row
	fresh := sampleSeries("BTCUSDT", now.Add(2*time.Hour))
	fresh.Source = "kraken"
	if err := c.Put(fresh); err != nil {
		t.Fatalf("put after expiry: %v", err)
	}
	s, ok := c.Get("BTCUSDT", now.Add(2*time.Hour+time.Minute))
	if !ok {
		t.Fatal("expected a hit on the refreshed entry")
	}
	if s.Source != "kraken" {
		t.Errorf("expected the refreshed provenance, got %s", s.Source)
	}
}
