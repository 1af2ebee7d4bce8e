package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"CryptoAnalyst/internal/model"
)

// KrakenFetcher implements Fetcher using the Kraken public OHLC API.
type KrakenFetcher struct {
	BaseURL string
	PairMap map[string]string // maps catalog symbol to Kraken pair
	Client  *http.Client
}

// NewKrakenFetcher creates a fetcher with optional proxy support.
func NewKrakenFetcher(baseURL, proxyURL string, timeout time.Duration, pairMap map[string]string) *KrakenFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &KrakenFetcher{
		BaseURL: baseURL,
		PairMap: pairMap,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *KrakenFetcher) Name() string { return "kraken" }

// krakenOHLC is the response envelope. Result keys are Kraken's internal pair
// names plus a "last" cursor, so candle arrays are decoded lazily.
type krakenOHLC struct {
	Error  []string                   `json:"error"`
	Result map[string]json.RawMessage `json:"result"`
}

// toFloat converts Kraken's mixed numeric encodings (JSON numbers for
// timestamps, strings for prices) to float64.
func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func (f *KrakenFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error) {
	pair, ok := f.PairMap[symbol]
	if !ok || pair == "" {
		return nil, fmt.Errorf("%s: %w: %s", f.Name(), ErrUnmappedAsset, symbol)
	}

	since := time.Now().AddDate(0, 0, -days-1).Unix()
	endpoint := fmt.Sprintf("%s/0/public/OHLC?pair=%s&interval=1440&since=%d",
		f.BaseURL, url.QueryEscape(pair), since)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, unexpectedErr(f.Name(), err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, networkErr(f.Name(), fmt.Errorf("fetch OHLC: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkErr(f.Name(), fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, malformedErr(f.Name(), fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}

	var ohlc krakenOHLC
	if err := json.Unmarshal(body, &ohlc); err != nil {
		return nil, malformedErr(f.Name(), fmt.Errorf("decode OHLC: %w", err))
	}
	if len(ohlc.Error) > 0 {
		return nil, malformedErr(f.Name(), fmt.Errorf("api error: %v", ohlc.Error))
	}

	var rows [][]interface{}
	for key, raw := range ohlc.Result {
		if key == "last" {
			continue
		}
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, malformedErr(f.Name(), fmt.Errorf("decode candles for %s: %w", key, err))
		}
		break
	}
	if len(rows) == 0 {
		return nil, malformedErr(f.Name(), fmt.Errorf("empty OHLC payload for %s", pair))
	}

	bars := make([]model.Bar, 0, len(rows))
	for _, row := range rows {
		// [time, open, high, low, close, vwap, volume, count]
		if len(row) < 7 {
			return nil, malformedErr(f.Name(), fmt.Errorf("short OHLC row for %s", pair))
		}
		ts, err0 := toFloat(row[0])
		o, err1 := toFloat(row[1])
		h, err2 := toFloat(row[2])
		l, err3 := toFloat(row[3])
		c, err4 := toFloat(row[4])
		v, err5 := toFloat(row[6])
		if err0 != nil || err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			return nil, malformedErr(f.Name(), fmt.Errorf("non-numeric OHLC field for %s", pair))
		}
		ms := int64(ts) * 1000 // Kraken timestamps are seconds
		bars = append(bars, model.Bar{
			Timestamp: ms,
			Date:      time.UnixMilli(ms),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    v,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	// Kraken's last entry is the running day.
	if len(bars) > 1 {
		bars = bars[:len(bars)-1]
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}
