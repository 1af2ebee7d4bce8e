package notifier

import (
	"strings"
	"testing"
	"time"

	"CryptoAnalyst/internal/calculator"
	"CryptoAnalyst/internal/model"
)

func sampleAnalysis(signals []model.Signal) *model.Analysis {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := &model.Frame{
		Symbol: "BTCUSDT",
		Source: "binance",
		Bars: []model.Bar{
			{Timestamp: day.UnixMilli(), Date: day, Close: 101000},
			{Timestamp: day.AddDate(0, 0, 1).UnixMilli(), Date: day.AddDate(0, 0, 1), Close: 102500.5},
		},
		Columns: map[string][]float64{
			calculator.ColRSI:        {55, 62.3},
			calculator.ColVolatility: {12, 18.4},
			calculator.ColMACD:       {10, 12.5},
			calculator.ColMA(20):     {100500, 100800},
			calculator.ColMA(50):     {99000, 99200},
			calculator.ColMA(200):    {95000, 95100},
			calculator.ColBBUpper:    {103000, 103500},
			calculator.ColBBLower:    {98000, 98500},
		},
	}
	return &model.Analysis{
		Frame:   f,
		Signals: signals,
		Advice: &model.Advice{
			Classification: model.SignalNeutral,
			Messages:       []string{"Neutre ou signaux mixtes. Analyse plus approfondie nécessaire."},
			RSI:            62.3,
			Price:          102500.5,
		},
		Source: "binance",
	}
}

func TestFormatAnalysis_Neutral(t *testing.T) {
	out := FormatAnalysis("Bitcoin", "BTCUSDT", sampleAnalysis(nil))

	for _, frag := range []string{
		"<b>Bitcoin (BTCUSDT)</b>",
		"Prix actuel: $102500.50",
		"Source: binance",
		"Aucun signal détecté",
		"RSI (14j): 62.3",
		"Volatilité (14j): 18.4%",
		"MA200: 95100.00",
		"BB: 103500.00 / 98500.00",
		"Conseils de Trading",
	} {
		if !strings.Contains(out, frag) {
			t.Errorf("message should contain %q\n%s", frag, out)
		}
	}
}

func TestFormatAnalysis_WithSignals(t *testing.T) {
	signals := []model.Signal{{
		Type:    model.SignalBuy,
		Title:   "🟥 ACHAT - Correction Brutale",
		Details: []string{"RSI: 40.0", "Volatilité: 20.0%"},
	}}
	out := FormatAnalysis("Bitcoin", "BTCUSDT", sampleAnalysis(signals))

	if !strings.Contains(out, "Signaux de Trading") {
		t.Error("expected the signals header")
	}
	if !strings.Contains(out, "🟥 ACHAT - Correction Brutale") {
		t.Error("expected the signal title")
	}
	if strings.Contains(out, "Aucun signal détecté") {
		t.Error("the neutral line must not appear next to a fired rule")
	}
}

func TestFormatSignals_Bullets(t *testing.T) {
	out := FormatSignals([]model.Signal{{
		Type:    model.SignalSell,
		Title:   "🟩 VENTE - Surachat",
		Details: []string{"RSI: 75.0", "Bande Sup BB: 110.00"},
	}})

	if !strings.Contains(out, "<b>🟩 VENTE - Surachat</b>") {
		t.Errorf("expected a bold title, got %s", out)
	}
	if !strings.Contains(out, "  • RSI: 75.0") {
		t.Errorf("expected bulleted details, got %s", out)
	}
}
