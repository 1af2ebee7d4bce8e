package notifier

import (
	"fmt"
	"strings"
	"time"

	"CryptoAnalyst/internal/calculator"
	"CryptoAnalyst/internal/model"
)

// FormatAnalysis renders a full analysis into a Telegram message.
func FormatAnalysis(name, symbol string, a *model.Analysis) string {
	var b strings.Builder

	f := a.Frame
	price := f.Close(f.Len() - 1)
	b.WriteString(fmt.Sprintf("📊 <b>%s (%s)</b> | %s\n", name, symbol, time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Prix actuel: $%.2f | Source: %s\n\n", price, a.Source))

	if len(a.Signals) > 0 {
		b.WriteString("🚨 <b>Signaux de Trading</b>\n")
		b.WriteString(FormatSignals(a.Signals))
		b.WriteString("\n")
	} else {
		b.WriteString("📌 Aucun signal détecté - position neutre recommandée\n\n")
	}

	b.WriteString("📈 <b>Indicateurs</b>\n")
	if rsi, ok := f.Last(calculator.ColRSI); ok {
		b.WriteString(fmt.Sprintf("RSI (14j): %.1f\n", rsi))
	}
	if vol, ok := f.Last(calculator.ColVolatility); ok {
		b.WriteString(fmt.Sprintf("Volatilité (14j): %.1f%%\n", vol))
	}
	if macd, ok := f.Last(calculator.ColMACD); ok {
		b.WriteString(fmt.Sprintf("MACD: %.2f\n", macd))
	}
	for _, w := range []int{20, 50, 200} {
		if ma, ok := f.Last(calculator.ColMA(w)); ok {
			b.WriteString(fmt.Sprintf("MA%d: %.2f\n", w, ma))
		}
	}
	if upper, ok := f.Last(calculator.ColBBUpper); ok {
		lower, _ := f.Last(calculator.ColBBLower)
		b.WriteString(fmt.Sprintf("BB: %.2f / %.2f\n", upper, lower))
	}

	if a.Advice != nil {
		b.WriteString("\n")
		b.WriteString(FormatAdvice(a.Advice))
	}
	return b.String()
}

// FormatSignals renders the fired rules.
func FormatSignals(signals []model.Signal) string {
	var b strings.Builder
	for _, s := range signals {
		b.WriteString(fmt.Sprintf("<b>%s</b>\n", s.Title))
		for _, d := range s.Details {
			b.WriteString(fmt.Sprintf("  • %s\n", d))
		}
	}
	return b.String()
}

// FormatAdvice renders the advisory heuristic output.
func FormatAdvice(adv *model.Advice) string {
	var b strings.Builder
	b.WriteString("💡 <b>Conseils de Trading</b>\n")
	for _, m := range adv.Messages {
		b.WriteString(fmt.Sprintf("%s\n", m))
	}
	b.WriteString(fmt.Sprintf("\nRSI: %.2f | MACD: %.2f | Signal MACD: %.2f\n",
		adv.RSI, adv.MACD, adv.MACDSignal))
	b.WriteString(fmt.Sprintf("MA20: %.2f | MA50: %.2f | Prix: %.2f\n",
		adv.MA20, adv.MA50, adv.Price))
	return b.String()
}
