package calculator

import (
	"errors"
	"fmt"
	"math"

	"CryptoAnalyst/internal/model"
)

// ErrComputation marks a failed indicator pass. No partial column set is ever
// returned alongside it.
var ErrComputation = errors.New("indicator computation failed")

// RSIParams configures the relative strength index.
type RSIParams struct {
	Window int
}

// MACDParams configures the MACD EMAs.
type MACDParams struct {
	Fast   int
	Slow   int
	Signal int
}

// BollingerParams configures the Bollinger bands.
type BollingerParams struct {
	Window int
	StdDev float64
}

// Config enumerates which indicators to compute and their parameters. Nil
// pointers disable the corresponding indicator; zero values disable the
// scalar-configured ones.
type Config struct {
	RSI              *RSIParams
	MACD             *MACDParams
	Bollinger        *BollingerParams
	MAWindows        []int
	PctHorizons      []int
	VolatilityWindow int
	SlopeSpan        int // slope of the 50-bar MA over this many bars
}

// DefaultConfig mirrors the standard battery: RSI(14), MACD(12,26,9),
// Bollinger(20, 2σ), MA 20/50/200, 1d/3d percent change, 14-day volatility
// and the 3-bar MA50 slope.
func DefaultConfig() Config {
	return Config{
		RSI:              &RSIParams{Window: 14},
		MACD:             &MACDParams{Fast: 12, Slow: 26, Signal: 9},
		Bollinger:        &BollingerParams{Window: 20, StdDev: 2},
		MAWindows:        []int{20, 50, 200},
		PctHorizons:      []int{1, 3},
		VolatilityWindow: 14,
		SlopeSpan:        3,
	}
}

func (c Config) validate() error {
	if c.RSI != nil && c.RSI.Window <= 0 {
		return fmt.Errorf("rsi window must be positive")
	}
	if c.MACD != nil && (c.MACD.Fast <= 0 || c.MACD.Slow <= 0 || c.MACD.Signal <= 0) {
		return fmt.Errorf("macd windows must be positive")
	}
	if c.MACD != nil && c.MACD.Fast >= c.MACD.Slow {
		return fmt.Errorf("macd fast window must be below the slow window")
	}
	if c.Bollinger != nil && (c.Bollinger.Window <= 0 || c.Bollinger.StdDev <= 0) {
		return fmt.Errorf("bollinger window and stddev must be positive")
	}
	for _, w := range c.MAWindows {
		if w <= 0 {
			return fmt.Errorf("ma window must be positive")
		}
	}
	for _, n := range c.PctHorizons {
		if n <= 0 {
			return fmt.Errorf("pct-change horizon must be positive")
		}
	}
	return nil
}

// Compute derives every configured indicator column over the series, then
// drops the rows where any requested column is still undefined. The caller
// must tolerate the frame being shorter than the input series.
func Compute(s *model.Series, cfg Config) (*model.Frame, error) {
	if s == nil || len(s.Bars) == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrComputation)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComputation, err)
	}

	closes := s.Closes()
	for _, c := range closes {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return nil, fmt.Errorf("%w: degenerate close values", ErrComputation)
		}
	}

	f := model.NewFrame(s)

	if cfg.RSI != nil {
		f.Columns[ColRSI] = RSISeries(closes, cfg.RSI.Window)
	}
	if cfg.MACD != nil {
		line, sig, hist := MACDSeries(closes, cfg.MACD.Fast, cfg.MACD.Slow, cfg.MACD.Signal)
		f.Columns[ColMACD] = line
		f.Columns[ColMACDSignal] = sig
		f.Columns[ColMACDHist] = hist
	}
	if cfg.Bollinger != nil {
		upper, mid, lower := BollingerSeries(closes, cfg.Bollinger.Window, cfg.Bollinger.StdDev)
		f.Columns[ColBBUpper] = upper
		f.Columns[ColBBMid] = mid
		f.Columns[ColBBLower] = lower
	}
	for _, w := range cfg.MAWindows {
		f.Columns[ColMA(w)] = SMASeries(closes, w)
	}
	for _, n := range cfg.PctHorizons {
		f.Columns[ColPctChange(n)] = PctChangeSeries(closes, n)
	}
	if cfg.VolatilityWindow > 0 {
		f.Columns[ColVolatility] = VolatilitySeries(closes, cfg.VolatilityWindow)
	}
	if cfg.SlopeSpan > 0 {
		ma50, ok := f.Columns[ColMA(50)]
		if !ok {
			ma50 = SMASeries(closes, 50)
		}
		f.Columns[ColMA50Slope] = SlopeSeries(ma50, cfg.SlopeSpan)
	}

	dropUndefined(f)
	if f.Len() == 0 {
		return nil, fmt.Errorf("%w: not enough history for the requested windows (%d bars)",
			ErrComputation, len(s.Bars))
	}
	return f, nil
}

// dropUndefined removes every row carrying a NaN in any computed column,
// keeping bars and columns aligned.
func dropUndefined(f *model.Frame) {
	keep := make([]int, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		defined := true
		for _, col := range f.Columns {
			if math.IsNaN(col[i]) {
				defined = false
				break
			}
		}
		if defined {
			keep = append(keep, i)
		}
	}
	if len(keep) == f.Len() {
		return
	}

	bars := make([]model.Bar, len(keep))
	for j, i := range keep {
		bars[j] = f.Bars[i]
	}
	f.Bars = bars
	for name, col := range f.Columns {
		trimmed := make([]float64, len(keep))
		for j, i := range keep {
			trimmed[j] = col[i]
		}
		f.Columns[name] = trimmed
	}
}
