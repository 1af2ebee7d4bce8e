package strategy

import (
	"CryptoAnalyst/internal/calculator"
	"CryptoAnalyst/internal/model"
)

// Advise runs the secondary advisory heuristic over the latest bar versus the
// previous one. It is independent of Evaluate and deliberately simpler: the
// day-over-day price delta sets the classification first, and RSI only
// overrides a still-neutral one.
func Advise(f *model.Frame) *model.Advice {
	if f == nil || f.Len() < 2 {
		return &model.Advice{
			Classification: model.SignalNeutral,
			Messages:       []string{"Données insuffisantes pour générer des conseils."},
		}
	}

	last := f.Len() - 1
	adv := &model.Advice{
		Classification: model.SignalNeutral,
		Price:          f.Close(last),
	}
	adv.RSI, _ = f.Last(calculator.ColRSI)
	adv.MACD, _ = f.Last(calculator.ColMACD)
	adv.MACDSignal, _ = f.Last(calculator.ColMACDSignal)
	adv.MA20, _ = f.Last(calculator.ColMA(20))
	adv.MA50, _ = f.Last(calculator.ColMA(50))

	priceChange := f.Close(last) - f.Close(last-1)
	if priceChange < 0 {
		adv.Messages = append(adv.Messages,
			"🔴 Baisse récente du prix : surveiller une opportunité d'achat si d'autres indicateurs confirment.")
		adv.Classification = model.SignalBuy
	} else if priceChange > 0 {
		adv.Messages = append(adv.Messages,
			"🟢 Hausse récente du prix : potentiel signal de vente en cas de surachat, prudence si une résistance approche.")
		adv.Classification = model.SignalSell
	}

	if rsi, ok := f.Last(calculator.ColRSI); ok {
		if rsi > 70 {
			adv.Messages = append(adv.Messages,
				"⚠️ RSI élevé (surachat) : possible signal de vente ou de prudence.")
			if adv.Classification == model.SignalNeutral {
				adv.Classification = model.SignalSell
			}
		} else if rsi < 30 {
			adv.Messages = append(adv.Messages,
				"✅ RSI bas (survente) : possible signal d'achat.")
			if adv.Classification == model.SignalNeutral {
				adv.Classification = model.SignalBuy
			}
		}
	}

	macd, okM := f.Last(calculator.ColMACD)
	sig, okS := f.Last(calculator.ColMACDSignal)
	hist, okH := f.Last(calculator.ColMACDHist)
	if okM && okS && okH {
		if macd > sig && hist > 0 {
			adv.Messages = append(adv.Messages, "📈 MACD haussier : momentum positif.")
		} else if macd < sig && hist < 0 {
			adv.Messages = append(adv.Messages, "📉 MACD baissier : momentum négatif.")
		}
	}

	ma20, ok20 := f.Last(calculator.ColMA(20))
	ma50, ok50 := f.Last(calculator.ColMA(50))
	if ok20 && ok50 {
		price := f.Close(last)
		if price > ma20 && price > ma50 {
			adv.Messages = append(adv.Messages,
				"🐂 Prix au-dessus des MA20 et MA50 : tendance potentiellement haussière.")
		} else if price < ma20 && price < ma50 {
			adv.Messages = append(adv.Messages,
				"🐻 Prix en-dessous des MA20 et MA50 : tendance potentiellement baissière.")
		}
	}

	if len(adv.Messages) == 0 {
		adv.Messages = append(adv.Messages,
			"Neutre ou signaux mixtes. Analyse plus approfondie nécessaire.")
	}
	return adv
}
