package strategy

import (
	"fmt"
	"math"

	"CryptoAnalyst/internal/calculator"
	"CryptoAnalyst/internal/model"
)

// Rule variants. The duplicated reference strategies disagree on two details,
// so both readings are selectable instead of picking a canonical one.
const (
	Drop1d    = "1d"     // pct_change_1d < -5
	Drop3d    = "3d"     // pct_change_3d < -10
	Drop3dSum = "3d_sum" // sum of the trailing 3 pct_change_1d < -10

	RallyBB  = "bb"  // close above the upper Bollinger band
	RallyPct = "pct" // pct_change_1d > 5 or pct_change_3d > 15

	SlopeDiff3Mean = "diff3_mean" // mean of the 3-bar MA50 differences > 2
	SlopePct       = "slope"      // latest MA50 slope percent > 2
)

// Config selects the rule variants.
type Config struct {
	DropVariant  string
	RallyVariant string
	SlopeVariant string
}

// DefaultConfig follows the most complete reference strategy.
func DefaultConfig() Config {
	return Config{
		DropVariant:  Drop1d,
		RallyVariant: RallyBB,
		SlopeVariant: SlopeDiff3Mean,
	}
}

// Evaluate runs both rule families over the latest row of an augmented frame.
// The buy rule is appended first; both may fire on the same bar, and an empty
// result means neutral. The evaluation is stateless.
func Evaluate(f *model.Frame, cfg Config) []model.Signal {
	var signals []model.Signal
	if f == nil || f.Len() == 0 {
		return signals
	}

	if sig, ok := buySignal(f, cfg); ok {
		signals = append(signals, sig)
	}
	if sig, ok := sellSignal(f, cfg); ok {
		signals = append(signals, sig)
	}
	return signals
}

// buySignal is the "Correction Brutale" rule: a sharp short-term drop while
// the price still sits above MA200 and volatility is elevated.
func buySignal(f *model.Frame, cfg Config) (model.Signal, bool) {
	last := f.Len() - 1
	closePrice := f.Close(last)

	ma200, ok := f.Last(calculator.ColMA(200))
	if !ok {
		return model.Signal{}, false
	}
	vol, ok := f.Last(calculator.ColVolatility)
	if !ok {
		return model.Signal{}, false
	}

	var dropped bool
	switch cfg.DropVariant {
	case Drop3d:
		pct3, ok := f.Last(calculator.ColPctChange3d)
		dropped = ok && pct3 < -10
	case Drop3dSum:
		sum, ok := trailingSum(f, calculator.ColPctChange1d, 3)
		dropped = ok && sum < -10
	default: // Drop1d
		pct1, ok := f.Last(calculator.ColPctChange1d)
		dropped = ok && pct1 < -5
	}

	if !(dropped && closePrice > ma200 && vol > 15) {
		return model.Signal{}, false
	}

	rsi, _ := f.Last(calculator.ColRSI)
	return model.Signal{
		Type:  model.SignalBuy,
		Title: "🟥 ACHAT - Correction Brutale",
		Details: []string{
			fmt.Sprintf("RSI: %.1f", rsi),
			fmt.Sprintf("Volatilité: %.1f%%", vol),
			fmt.Sprintf("Distance MA200: %.1f%%", (closePrice/ma200-1)*100),
		},
	}, true
}

// sellSignal is the "Surachat" rule: overbought momentum plus a stretched
// rally and a trending MA50.
func sellSignal(f *model.Frame, cfg Config) (model.Signal, bool) {
	last := f.Len() - 1
	closePrice := f.Close(last)

	rsi, ok := f.Last(calculator.ColRSI)
	if !ok || rsi <= 70 {
		return model.Signal{}, false
	}

	bbUpper, hasBB := f.Last(calculator.ColBBUpper)
	var stretched bool
	switch cfg.RallyVariant {
	case RallyPct:
		pct1, ok1 := f.Last(calculator.ColPctChange1d)
		pct3, ok3 := f.Last(calculator.ColPctChange3d)
		stretched = (ok1 && pct1 > 5) || (ok3 && pct3 > 15)
	default: // RallyBB
		stretched = hasBB && closePrice > bbUpper
	}

	var slope float64
	var trending bool
	switch cfg.SlopeVariant {
	case SlopePct:
		s, ok := f.Last(calculator.ColMA50Slope)
		slope = s
		trending = ok && s > 2
	default: // SlopeDiff3Mean
		s, ok := diff3Mean(f.Column(calculator.ColMA(50)))
		slope = s
		trending = ok && s > 2
	}

	if !(stretched && trending) {
		return model.Signal{}, false
	}

	return model.Signal{
		Type:  model.SignalSell,
		Title: "🟩 VENTE - Surachat",
		Details: []string{
			fmt.Sprintf("RSI: %.1f", rsi),
			fmt.Sprintf("Bande Sup BB: %.2f", bbUpper),
			fmt.Sprintf("Pente MA50: %.1f%%", slope),
		},
	}, true
}

// trailingSum sums the last n values of a column.
func trailingSum(f *model.Frame, name string, n int) (float64, bool) {
	if f.Len() < n {
		return 0, false
	}
	var sum float64
	for i := f.Len() - n; i < f.Len(); i++ {
		v, ok := f.Value(name, i)
		if !ok {
			return 0, false
		}
		sum += v
	}
	return sum, true
}

// diff3Mean averages the 3-bar differences over the whole column, the way the
// reference strategy evaluates the MA50 trend.
func diff3Mean(col []float64) (float64, bool) {
	if len(col) < 4 {
		return 0, false
	}
	var sum float64
	var n int
	for i := 3; i < len(col); i++ {
		if math.IsNaN(col[i]) || math.IsNaN(col[i-3]) {
			continue
		}
		sum += col[i] - col[i-3]
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
