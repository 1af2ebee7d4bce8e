package analyst

import (
	"context"
	"log"
	"time"

	"CryptoAnalyst/internal/cache"
	"CryptoAnalyst/internal/calculator"
	"CryptoAnalyst/internal/collector"
	"CryptoAnalyst/internal/model"
	"CryptoAnalyst/internal/strategy"
)

// Analyst runs the full pipeline for one asset: acquisition through the cache,
// indicator computation, rule evaluation and the advisory heuristic. Each
// invocation is synchronous and owns its data end to end.
type Analyst struct {
	Chain      *collector.Chain
	Cache      cache.Cache
	Indicators calculator.Config
	Rules      strategy.Config
}

// New creates an Analyst with the given defaults.
func New(chain *collector.Chain, c cache.Cache, ind calculator.Config, rules strategy.Config) *Analyst {
	return &Analyst{Chain: chain, Cache: c, Indicators: ind, Rules: rules}
}

// Analyze runs the pipeline with the analyst's default indicator config.
func (a *Analyst) Analyze(ctx context.Context, symbol string) (*model.Analysis, error) {
	return a.AnalyzeWith(ctx, symbol, a.Indicators)
}

// AnalyzeWith runs the pipeline with per-call indicator parameters.
func (a *Analyst) AnalyzeWith(ctx context.Context, symbol string, cfg calculator.Config) (*model.Analysis, error) {
	series, err := a.getSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}

	frame, err := calculator.Compute(series, cfg)
	if err != nil {
		return nil, err
	}

	return &model.Analysis{
		Frame:   frame,
		Signals: strategy.Evaluate(frame, a.Rules),
		Advice:  strategy.Advise(frame),
		Source:  series.Source,
	}, nil
}

func (a *Analyst) getSeries(ctx context.Context, symbol string) (*model.Series, error) {
	if a.Cache != nil {
		if s, ok := a.Cache.Get(symbol, time.Now()); ok {
			log.Printf("[INFO] cache hit for %s (source %s)", symbol, s.Source)
			return s, nil
		}
	}

	series, err := a.Chain.GetSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if a.Cache != nil {
		if err := a.Cache.Put(series); err != nil {
			log.Printf("[WARN] cache store for %s: %v", symbol, err)
		}
	}
	return series, nil
}
