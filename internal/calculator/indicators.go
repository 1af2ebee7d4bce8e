package calculator

import (
	"fmt"
	"math"
)

// Column names, matching the upstream payload vocabulary used across the app.
const (
	ColRSI         = "rsi"
	ColMACD        = "macd"
	ColMACDSignal  = "macd_signal"
	ColMACDHist    = "macd_hist"
	ColBBUpper     = "bb_upper"
	ColBBMid       = "bb_mid"
	ColBBLower     = "bb_lower"
	ColVolatility  = "volatility"
	ColMA50Slope   = "ma50_slope"
	ColPctChange1d = "pct_change_1d"
	ColPctChange3d = "pct_change_3d"
)

// ColMA names a simple-moving-average column for a window.
func ColMA(window int) string { return fmt.Sprintf("ma%d", window) }

// ColPctChange names a percent-change column for a horizon.
func ColPctChange(n int) string { return fmt.Sprintf("pct_change_%dd", n) }

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMASeries computes the simple moving average of closes over a trailing
// window. Positions before window-1 are NaN. window must be positive.
func SMASeries(closes []float64, window int) []float64 {
	out := nanSlice(len(closes))
	if window <= 0 || len(closes) < window {
		return out
	}
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// RSISeries computes the Wilder-smoothed RSI. The first defined value sits at
// index period (seeded from the first period changes); earlier positions are
// NaN. A flat stretch (no gains, no losses) reads as 50.
func RSISeries(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgGain == 0 && avgLoss == 0 {
		return 50.0
	}
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// EMASeries computes an SMA-seeded exponential moving average. A NaN prefix in
// the input (e.g. a MACD line) shifts the seed accordingly.
func EMASeries(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 {
		return out
	}
	start := 0
	for start < len(values) && math.IsNaN(values[start]) {
		start++
	}
	if len(values)-start < period {
		return out
	}

	sum := 0.0
	for i := start; i < start+period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[start+period-1] = ema

	multiplier := 2.0 / float64(period+1)
	for i := start + period; i < len(values); i++ {
		ema = values[i]*multiplier + ema*(1-multiplier)
		out[i] = ema
	}
	return out
}

// MACDSeries computes the MACD line (fast EMA minus slow EMA), its signal EMA
// and the histogram.
func MACDSeries(closes []float64, fast, slow, signal int) (line, sig, hist []float64) {
	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)

	line = nanSlice(len(closes))
	for i := range closes {
		if !math.IsNaN(emaFast[i]) && !math.IsNaN(emaSlow[i]) {
			line[i] = emaFast[i] - emaSlow[i]
		}
	}

	sig = EMASeries(line, signal)

	hist = nanSlice(len(closes))
	for i := range closes {
		if !math.IsNaN(line[i]) && !math.IsNaN(sig[i]) {
			hist[i] = line[i] - sig[i]
		}
	}
	return line, sig, hist
}

// BollingerSeries computes the middle band SMA(window) and the upper/lower
// bands offset by stddev multiples of the rolling population standard
// deviation, matching the conventional band definition.
func BollingerSeries(closes []float64, window int, stddev float64) (upper, mid, lower []float64) {
	mid = SMASeries(closes, window)
	upper = nanSlice(len(closes))
	lower = nanSlice(len(closes))
	for i := window - 1; i < len(closes); i++ {
		m := mid[i]
		if math.IsNaN(m) {
			continue
		}
		var ss float64
		for j := i - window + 1; j <= i; j++ {
			d := closes[j] - m
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(window))
		upper[i] = m + stddev*sd
		lower[i] = m - stddev*sd
	}
	return upper, mid, lower
}

// PctChangeSeries computes (close[t]/close[t-n] - 1) * 100.
func PctChangeSeries(closes []float64, n int) []float64 {
	out := nanSlice(len(closes))
	for i := n; i < len(closes); i++ {
		if closes[i-n] != 0 {
			out[i] = (closes[i]/closes[i-n] - 1) * 100
		}
	}
	return out
}

// VolatilitySeries computes the rolling sample standard deviation of 1-day
// fractional returns over the window, scaled by 100.
func VolatilitySeries(closes []float64, window int) []float64 {
	out := nanSlice(len(closes))
	if window <= 1 {
		return out
	}
	returns := nanSlice(len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			returns[i] = closes[i]/closes[i-1] - 1
		}
	}
	for i := window; i < len(closes); i++ {
		start := i - window + 1
		valid := true
		var mean float64
		for j := start; j <= i; j++ {
			if math.IsNaN(returns[j]) {
				valid = false
				break
			}
			mean += returns[j]
		}
		if !valid {
			continue
		}
		mean /= float64(window)
		var ss float64
		for j := start; j <= i; j++ {
			d := returns[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss/float64(window-1)) * 100
	}
	return out
}

// SlopeSeries computes the percent change of a series over a span:
// (v[t] - v[t-span]) / v[t-span] * 100.
func SlopeSeries(values []float64, span int) []float64 {
	out := nanSlice(len(values))
	for i := span; i < len(values); i++ {
		prev := values[i-span]
		if math.IsNaN(prev) || math.IsNaN(values[i]) || prev == 0 {
			continue
		}
		out[i] = (values[i] - prev) / prev * 100
	}
	return out
}
