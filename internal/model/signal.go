package model

// SignalType classifies a trading signal.
type SignalType string

const (
	SignalBuy     SignalType = "buy"
	SignalSell    SignalType = "sell"
	SignalNeutral SignalType = "neutral"
)

// Signal is one fired rule. A fresh list is produced on every evaluation;
// nothing is persisted.
type Signal struct {
	Type    SignalType
	Title   string
	Details []string
}

// Advice is the output of the secondary advisory heuristic. It is independent
// of the primary rule engine and only looks at the latest bar versus the
// previous one.
type Advice struct {
	Classification SignalType
	Messages       []string

	// Snapshot of the inputs, for display.
	RSI        float64
	MACD       float64
	MACDSignal float64
	MA20       float64
	MA50       float64
	Price      float64
}

// Analysis is the full result handed to the presentation layer.
type Analysis struct {
	Frame   *Frame
	Signals []Signal
	Advice  *Advice
	Source  string
}
