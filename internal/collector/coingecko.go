package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"CryptoAnalyst/internal/model"
)

// CoinGeckoFetcher implements Fetcher using the CoinGecko market-chart API.
// The endpoint is price-only: bars carry just Close.
type CoinGeckoFetcher struct {
	BaseURL string
	IDMap   map[string]string // maps catalog symbol to CoinGecko coin id
	Client  *http.Client
}

// NewCoinGeckoFetcher creates a fetcher with optional proxy support.
func NewCoinGeckoFetcher(baseURL, proxyURL string, timeout time.Duration, idMap map[string]string) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CoinGeckoFetcher{
		BaseURL: baseURL,
		IDMap:   idMap,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// marketChart is the response structure from the market_chart endpoint.
type marketChart struct {
	Prices [][2]float64 `json:"prices"` // [epoch ms, price]
}

func (f *CoinGeckoFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error) {
	coinID, ok := f.IDMap[symbol]
	if !ok || coinID == "" {
		return nil, fmt.Errorf("%s: %w: %s", f.Name(), ErrUnmappedAsset, symbol)
	}

	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		f.BaseURL, url.PathEscape(coinID), days)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, unexpectedErr(f.Name(), err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, networkErr(f.Name(), fmt.Errorf("fetch market chart: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkErr(f.Name(), fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, malformedErr(f.Name(), fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}

	var chart marketChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, malformedErr(f.Name(), fmt.Errorf("decode market chart: %w", err))
	}
	if len(chart.Prices) == 0 {
		return nil, malformedErr(f.Name(), fmt.Errorf("prices missing for %s", coinID))
	}

	bars := make([]model.Bar, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		ts := int64(p[0])
		bars = append(bars, model.Bar{
			Timestamp: ts,
			Date:      time.UnixMilli(ts),
			Close:     p[1],
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	// The final point is the running day, sampled at request time.
	if len(bars) > 1 {
		bars = bars[:len(bars)-1]
	}
	return bars, nil
}
