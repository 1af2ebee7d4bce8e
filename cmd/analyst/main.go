package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CryptoAnalyst/internal/analyst"
	"CryptoAnalyst/internal/cache"
	"CryptoAnalyst/internal/calculator"
	"CryptoAnalyst/internal/collector"
	"CryptoAnalyst/internal/config"
	"CryptoAnalyst/internal/notifier"
	"CryptoAnalyst/internal/scheduler"
	"CryptoAnalyst/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CryptoAnalyst starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetchers in priority order
	timeout := time.Duration(cfg.Sources.TimeoutSeconds) * time.Second
	var fetchers []collector.Fetcher
	for _, name := range cfg.Sources.Priority {
		switch name {
		case "binance":
			fetchers = append(fetchers, collector.NewBinanceFetcher(cfg.Proxy, timeout))
		case "coingecko":
			fetchers = append(fetchers, collector.NewCoinGeckoFetcher(cfg.Sources.CoinGeckoURL, cfg.Proxy, timeout, coinGeckoMap(cfg.Assets)))
		case "kraken":
			fetchers = append(fetchers, collector.NewKrakenFetcher(cfg.Sources.KrakenURL, cfg.Proxy, timeout, krakenMap(cfg.Assets)))
		}
	}
	for _, f := range fetchers {
		log.Printf("[INFO] data source: %s", f.Name())
	}
	chain := collector.NewChain(cfg.Sources.Days, fetchers...)

	// Init series cache
	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	var seriesCache cache.Cache
	if cfg.Cache.SQLitePath != "" {
		sc, err := cache.NewSQLite(cfg.Cache.SQLitePath, ttl)
		if err != nil {
			log.Printf("[WARN] init sqlite cache failed, using memory: %v", err)
			seriesCache = cache.NewMemory(ttl)
		} else {
			seriesCache = sc
			defer sc.Close()
		}
	} else {
		seriesCache = cache.NewMemory(ttl)
	}

	// Init analyst
	an := analyst.New(chain, seriesCache, indicatorConfig(cfg), strategy.Config{
		DropVariant:  cfg.Rules.DropVariant,
		RallyVariant: cfg.Rules.RallyVariant,
		SlopeVariant: cfg.Rules.SlopeVariant,
	})

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, an, tn, cfg.Assets)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] CryptoAnalyst is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] CryptoAnalyst stopped")
}

func coinGeckoMap(assets []config.Asset) map[string]string {
	m := make(map[string]string, len(assets))
	for _, a := range assets {
		if a.CoinGecko != "" {
			m[a.Symbol] = a.CoinGecko
		}
	}
	return m
}

func krakenMap(assets []config.Asset) map[string]string {
	m := make(map[string]string, len(assets))
	for _, a := range assets {
		if a.Kraken != "" {
			m[a.Symbol] = a.Kraken
		}
	}
	return m
}

func indicatorConfig(cfg *config.Config) calculator.Config {
	ic := calculator.DefaultConfig()
	if cfg.Indicators.RSIWindow > 0 {
		ic.RSI.Window = cfg.Indicators.RSIWindow
	}
	if cfg.Indicators.MACDFast > 0 {
		ic.MACD.Fast = cfg.Indicators.MACDFast
	}
	if cfg.Indicators.MACDSlow > 0 {
		ic.MACD.Slow = cfg.Indicators.MACDSlow
	}
	if cfg.Indicators.MACDSignal > 0 {
		ic.MACD.Signal = cfg.Indicators.MACDSignal
	}
	if cfg.Indicators.BBWindow > 0 {
		ic.Bollinger.Window = cfg.Indicators.BBWindow
	}
	if cfg.Indicators.BBStdDev > 0 {
		ic.Bollinger.StdDev = cfg.Indicators.BBStdDev
	}
	if len(cfg.Indicators.MAWindows) > 0 {
		ic.MAWindows = cfg.Indicators.MAWindows
	}
	if cfg.Indicators.VolatilityWindow > 0 {
		ic.VolatilityWindow = cfg.Indicators.VolatilityWindow
	}
	return ic
}
