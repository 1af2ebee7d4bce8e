package model

import "math"

// Frame is a price series augmented with indicator columns. Every column is
// aligned with Bars; positions inside an indicator's look-back window hold NaN
// until the undefined rows are dropped.
type Frame struct {
	Symbol  string
	Source  string
	Bars    []Bar
	Columns map[string][]float64
}

// NewFrame creates an empty frame over the given series.
func NewFrame(s *Series) *Frame {
	return &Frame{
		Symbol:  s.Symbol,
		Source:  s.Source,
		Bars:    append([]Bar(nil), s.Bars...),
		Columns: make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Bars) }

// Close returns the close price at index i.
func (f *Frame) Close(i int) float64 { return f.Bars[i].Close }

// Value returns the named column value at index i. ok is false when the column
// does not exist or the value is undefined.
func (f *Frame) Value(name string, i int) (float64, bool) {
	col, exists := f.Columns[name]
	if !exists || i < 0 || i >= len(col) {
		return 0, false
	}
	v := col[i]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Last returns the named column value on the latest row.
func (f *Frame) Last(name string) (float64, bool) {
	return f.Value(name, f.Len()-1)
}

// Column returns the named column, or nil if absent.
func (f *Frame) Column(name string) []float64 { return f.Columns[name] }

// Series rebuilds a Series from the frame's bars. Indicator columns are not
// carried over.
func (f *Frame) Series() *Series {
	return &Series{
		Symbol: f.Symbol,
		Source: f.Source,
		Bars:   append([]Bar(nil), f.Bars...),
	}
}
