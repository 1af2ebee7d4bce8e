package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Asset is one entry of the tradable catalog. Symbol is the Binance pair and
// doubles as the user-facing asset key; the other identifiers map it into each
// provider's namespace. An empty identifier means that provider is skipped for
// this asset.
type Asset struct {
	Symbol    string `yaml:"symbol"`
	Name      string `yaml:"name"`
	CoinGecko string `yaml:"coingecko"`
	Kraken    string `yaml:"kraken"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Sources struct {
		Priority       []string `yaml:"priority"`
		CoinGeckoURL   string   `yaml:"coingecko_url"`
		KrakenURL      string   `yaml:"kraken_url"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		Days           int      `yaml:"days"`
	} `yaml:"sources"`
	Cache struct {
		TTLMinutes int    `yaml:"ttl_minutes"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"cache"`
	Indicators struct {
		RSIWindow        int     `yaml:"rsi_window"`
		MACDFast         int     `yaml:"macd_fast"`
		MACDSlow         int     `yaml:"macd_slow"`
		MACDSignal       int     `yaml:"macd_signal"`
		BBWindow         int     `yaml:"bb_window"`
		BBStdDev         float64 `yaml:"bb_stddev"`
		MAWindows        []int   `yaml:"ma_windows"`
		VolatilityWindow int     `yaml:"volatility_window"`
	} `yaml:"indicators"`
	Rules struct {
		DropVariant  string `yaml:"drop_variant"`  // 1d | 3d | 3d_sum
		RallyVariant string `yaml:"rally_variant"` // bb | pct
		SlopeVariant string `yaml:"slope_variant"` // diff3_mean | slope
	} `yaml:"rules"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Assets []Asset `yaml:"assets"`
	Proxy  string  `yaml:"proxy"`
}

// DefaultAssets is the built-in catalog, used when the config file lists none.
var DefaultAssets = []Asset{
	{Symbol: "BTCUSDT", Name: "Bitcoin", CoinGecko: "bitcoin", Kraken: "XBTUSD"},
	{Symbol: "ETHUSDT", Name: "Ethereum", CoinGecko: "ethereum", Kraken: "ETHUSD"},
	{Symbol: "BNBUSDT", Name: "Binance Coin", CoinGecko: "binancecoin"},
	{Symbol: "SOLUSDT", Name: "Solana", CoinGecko: "solana", Kraken: "SOLUSD"},
	{Symbol: "XRPUSDT", Name: "Ripple", CoinGecko: "ripple", Kraken: "XRPUSD"},
	{Symbol: "ADAUSDT", Name: "Cardano", CoinGecko: "cardano", Kraken: "ADAUSD"},
	{Symbol: "DOGEUSDT", Name: "Dogecoin", CoinGecko: "dogecoin", Kraken: "DOGEUSD"},
	{Symbol: "AVAXUSDT", Name: "Avalanche", CoinGecko: "avalanche-2", Kraken: "AVAXUSD"},
	{Symbol: "DOTUSDT", Name: "Polkadot", CoinGecko: "polkadot", Kraken: "DOTUSD"},
	{Symbol: "LINKUSDT", Name: "Chainlink", CoinGecko: "chainlink", Kraken: "LINKUSD"},
	{Symbol: "MATICUSDT", Name: "Polygon", CoinGecko: "matic-network", Kraken: "MATICUSD"},
	{Symbol: "SHIBUSDT", Name: "Shiba Inu", CoinGecko: "shiba-inu", Kraken: "SHIBUSD"},
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("CACHE_TTL_MINUTES"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLMinutes = ttl
		}
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}

	// Defaults
	if len(cfg.Sources.Priority) == 0 {
		cfg.Sources.Priority = []string{"binance", "coingecko", "kraken"}
	}
	if cfg.Sources.CoinGeckoURL == "" {
		cfg.Sources.CoinGeckoURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.Sources.KrakenURL == "" {
		cfg.Sources.KrakenURL = "https://api.kraken.com"
	}
	if cfg.Sources.TimeoutSeconds == 0 {
		cfg.Sources.TimeoutSeconds = 10
	}
	if cfg.Sources.Days == 0 {
		cfg.Sources.Days = 300
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 60
	}
	if cfg.Indicators.RSIWindow == 0 {
		cfg.Indicators.RSIWindow = 14
	}
	if cfg.Indicators.MACDFast == 0 {
		cfg.Indicators.MACDFast = 12
	}
	if cfg.Indicators.MACDSlow == 0 {
		cfg.Indicators.MACDSlow = 26
	}
	if cfg.Indicators.MACDSignal == 0 {
		cfg.Indicators.MACDSignal = 9
	}
	if cfg.Indicators.BBWindow == 0 {
		cfg.Indicators.BBWindow = 20
	}
	if cfg.Indicators.BBStdDev == 0 {
		cfg.Indicators.BBStdDev = 2
	}
	if len(cfg.Indicators.MAWindows) == 0 {
		cfg.Indicators.MAWindows = []int{20, 50, 200}
	}
	if cfg.Indicators.VolatilityWindow == 0 {
		cfg.Indicators.VolatilityWindow = 14
	}
	if cfg.Rules.DropVariant == "" {
		cfg.Rules.DropVariant = "1d"
	}
	if cfg.Rules.RallyVariant == "" {
		cfg.Rules.RallyVariant = "bb"
	}
	if cfg.Rules.SlopeVariant == "" {
		cfg.Rules.SlopeVariant = "diff3_mean"
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 10 0 * * *"
	}
	if len(cfg.Assets) == 0 {
		cfg.Assets = DefaultAssets
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	known := map[string]bool{"binance": true, "coingecko": true, "kraken": true}
	for _, s := range c.Sources.Priority {
		if !known[s] {
			return fmt.Errorf("sources.priority: unknown source %q", s)
		}
	}
	switch c.Rules.DropVariant {
	case "1d", "3d", "3d_sum":
	default:
		return fmt.Errorf("rules.drop_variant: unknown variant %q", c.Rules.DropVariant)
	}
	switch c.Rules.RallyVariant {
	case "bb", "pct":
	default:
		return fmt.Errorf("rules.rally_variant: unknown variant %q", c.Rules.RallyVariant)
	}
	switch c.Rules.SlopeVariant {
	case "diff3_mean", "slope":
	default:
		return fmt.Errorf("rules.slope_variant: unknown variant %q", c.Rules.SlopeVariant)
	}
	return nil
}

// FindAsset returns the catalog entry for a symbol.
func (c *Config) FindAsset(symbol string) (Asset, bool) {
	for _, a := range c.Assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}
