package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"CryptoAnalyst/internal/analyst"
	"CryptoAnalyst/internal/config"
	"CryptoAnalyst/internal/notifier"
)

// Scheduler runs periodic catalog scans and serves Telegram commands.
type Scheduler struct {
	Cron     *cron.Cron
	Analyst  *analyst.Analyst
	Notifier *notifier.TelegramNotifier
	Assets   []config.Asset
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, a *analyst.Analyst, tn *notifier.TelegramNotifier, assets []config.Asset) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Analyst:  a,
		Notifier: tn,
		Assets:   assets,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily scan task.
func (s *Scheduler) RegisterAll(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// scanTask analyzes every asset of the catalog and alerts on fired rules.
func (s *Scheduler) scanTask() {
	log.Println("[INFO] running catalog scan")
	for _, asset := range s.Assets {
		result, err := s.Analyst.Analyze(s.Ctx, asset.Symbol)
		if err != nil {
			log.Printf("[ERROR] scan %s: %v", asset.Symbol, err)
			continue
		}
		if len(result.Signals) == 0 {
			log.Printf("[INFO] %s: no signal (source %s)", asset.Symbol, result.Source)
			continue
		}
		msg := fmt.Sprintf("🚨 <b>%s (%s)</b> | source %s\n\n%s",
			asset.Name, asset.Symbol, result.Source, notifier.FormatSignals(result.Signals))
		s.trySend(msg)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return s.help()
	}

	switch fields[0] {
	case "/scan":
		go s.scanTask()
		return "Scan du catalogue lancé."
	case "/list":
		var b strings.Builder
		b.WriteString("📋 <b>Catalogue</b>\n")
		for _, a := range s.Assets {
			b.WriteString(fmt.Sprintf("• %s - %s\n", a.Symbol, a.Name))
		}
		return b.String()
	case "/analyze":
		if len(fields) < 2 {
			return "Usage: /analyze SYMBOL"
		}
		return s.analyzeReply(strings.ToUpper(fields[1]))
	default:
		// Bare symbol shorthand, e.g. "BTCUSDT".
		symbol := strings.ToUpper(fields[0])
		for _, a := range s.Assets {
			if a.Symbol == symbol {
				return s.analyzeReply(symbol)
			}
		}
		return s.help()
	}
}

func (s *Scheduler) analyzeReply(symbol string) string {
	var name string
	for _, a := range s.Assets {
		if a.Symbol == symbol {
			name = a.Name
			break
		}
	}
	if name == "" {
		return fmt.Sprintf("Symbole inconnu: %s (voir /list)", symbol)
	}

	result, err := s.Analyst.Analyze(s.Ctx, symbol)
	if err != nil {
		log.Printf("[ERROR] analyze %s: %v", symbol, err)
		return fmt.Sprintf("❌ Analyse impossible pour %s: %v", symbol, err)
	}
	return notifier.FormatAnalysis(name, symbol, result)
}

func (s *Scheduler) help() string {
	return "Commandes:\n• /analyze SYMBOL\n• /list\n• /scan"
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
