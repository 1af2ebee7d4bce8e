package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"

	"CryptoAnalyst/internal/model"
)

// BinanceFetcher implements Fetcher using the Binance spot kline API. The
// catalog symbol is already in Binance's namespace (e.g. BTCUSDT), so no
// mapping table is needed here.
type BinanceFetcher struct {
	client *binance.Client
}

// NewBinanceFetcher creates a fetcher with optional proxy support.
func NewBinanceFetcher(proxyURL string, timeout time.Duration) *BinanceFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := binance.NewClient("", "")
	client.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	return &BinanceFetcher{client: client}
}

func (f *BinanceFetcher) Name() string { return "binance" }

func (f *BinanceFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error) {
	// One extra candle: the last one is the open day and gets dropped.
	klines, err := f.client.NewKlinesService().
		Symbol(symbol).
		Interval("1d").
		Limit(days + 1).
		Do(ctx)
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) {
			return nil, malformedErr(f.Name(), err)
		}
		return nil, networkErr(f.Name(), err)
	}
	if len(klines) == 0 {
		return nil, malformedErr(f.Name(), fmt.Errorf("empty kline payload for %s", symbol))
	}

	bars := make([]model.Bar, 0, len(klines))
	for _, k := range klines {
		o, err1 := strconv.ParseFloat(k.Open, 64)
		h, err2 := strconv.ParseFloat(k.High, 64)
		l, err3 := strconv.ParseFloat(k.Low, 64)
		c, err4 := strconv.ParseFloat(k.Close, 64)
		v, err5 := strconv.ParseFloat(k.Volume, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			return nil, malformedErr(f.Name(), fmt.Errorf("non-numeric kline field for %s", symbol))
		}
		bars = append(bars, model.Bar{
			Timestamp: k.OpenTime,
			Date:      time.UnixMilli(k.OpenTime),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    v,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	// Drop the current, not-yet-closed candle.
	bars = bars[:len(bars)-1]
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}
