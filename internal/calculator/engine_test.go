package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"CryptoAnalyst/internal/model"
)

func makeSeries(closes []float64) *model.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		d := start.AddDate(0, 0, i)
		bars[i] = model.Bar{
			Timestamp: d.UnixMilli(),
			Date:      d,
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	return &model.Series{Symbol: "BTCUSDT", Source: "mock", Bars: bars}
}

func trendingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.3 + 2*math.Sin(float64(i)/5)
	}
	return closes
}

func TestCompute_DropsLookbackRows(t *testing.T) {
	s := makeSeries(trendingCloses(250))
	cfg := Config{MAWindows: []int{200}}

	f, err := Compute(s, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Len() != 250-199 {
		t.Fatalf("expected %d rows after dropping the look-back window, got %d", 250-199, f.Len())
	}
	for i := 0; i < f.Len(); i++ {
		if _, ok := f.Value(ColMA(200), i); !ok {
			t.Fatalf("row %d: ma200 undefined after the drop", i)
		}
	}
	// the surviving rows keep their original bars
	if f.Bars[0].Date != s.Bars[199].Date {
		t.Errorf("first surviving bar should be the 200th input bar, got %v", f.Bars[0].Date)
	}
}

func TestCompute_FullBattery(t *testing.T) {
	s := makeSeries(trendingCloses(300))
	f, err := Compute(s, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Len() == 0 {
		t.Fatal("expected surviving rows with 300 bars of history")
	}

	for _, col := range []string{
		ColRSI, ColMACD, ColMACDSignal, ColMACDHist,
		ColBBUpper, ColBBMid, ColBBLower,
		ColMA(20), ColMA(50), ColMA(200),
		ColPctChange1d, ColPctChange3d,
		ColVolatility, ColMA50Slope,
	} {
		v, ok := f.Last(col)
		if !ok {
			t.Errorf("column %s: expected a defined latest value", col)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("column %s: got non-finite %f", col, v)
		}
	}

	if rsi, _ := f.Last(ColRSI); rsi < 0 || rsi > 100 {
		t.Errorf("rsi out of range: %f", rsi)
	}
	upper, _ := f.Last(ColBBUpper)
	lower, _ := f.Last(ColBBLower)
	if upper <= lower {
		t.Errorf("upper band %f should sit above lower band %f", upper, lower)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	s := makeSeries(trendingCloses(300))
	f1, err := Compute(s, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f2, err := Compute(s, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f1.Len() != f2.Len() {
		t.Fatalf("row counts differ: %d vs %d", f1.Len(), f2.Len())
	}
	for name, col1 := range f1.Columns {
		col2 := f2.Columns[name]
		for i := range col1 {
			if col1[i] != col2[i] {
				t.Fatalf("column %s row %d: %f vs %f", name, i, col1[i], col2[i])
			}
		}
	}
}

func TestCompute_FlatSeries(t *testing.T) {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100
	}
	f, err := Compute(makeSeries(closes), DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi, _ := f.Last(ColRSI); rsi != 50 {
		t.Errorf("flat series rsi should be 50, got %f", rsi)
	}
	if vol, _ := f.Last(ColVolatility); vol != 0 {
		t.Errorf("flat series volatility should be 0, got %f", vol)
	}
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name string
		s    *model.Series
		cfg  Config
	}{
		{"empty series", &model.Series{Symbol: "BTCUSDT"}, DefaultConfig()},
		{"nil series", nil, DefaultConfig()},
		{"negative close", makeSeries([]float64{100, -5, 101}), DefaultConfig()},
		{"not enough history", makeSeries(trendingCloses(50)), DefaultConfig()},
		{"fast above slow", makeSeries(trendingCloses(300)),
			Config{MACD: &MACDParams{Fast: 26, Slow: 12, Signal: 9}}},
		{"zero rsi window", makeSeries(trendingCloses(300)),
			Config{RSI: &RSIParams{Window: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.s, tt.cfg)
			if !errors.Is(err, ErrComputation) {
				t.Fatalf("expected ErrComputation, got %v", err)
			}
		})
	}
}
