// Package collector retrieves paginated daily OHLCV history for a set of
// base symbols, tolerating per-symbol failure.
package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"coinpilot/internal/logger"
	"coinpilot/internal/market"
	symbolpkg "coinpilot/internal/pkg/symbol"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

type Config struct {
	Quote       string
	Interval    string
	PageLimit   int
	MaxParallel int
}

type Collector struct {
	source market.Source
	cfg    Config

	// now is swappable for tests
	now func() time.Time
}

func New(source market.Source, cfg Config) *Collector {
	if cfg.Quote == "" {
		cfg.Quote = symbolpkg.DefaultQuote
	}
	if cfg.Interval == "" {
		cfg.Interval = "1d"
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 1000
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 4
	}
	return &Collector{source: source, cfg: cfg, now: time.Now}
}

// Collect fetches history for every base symbol over the lookback window.
// Symbols whose pair does not exist or whose every page fails are left out
// of the result; one symbol's failure never aborts the others. The fan-out
// is bounded to respect provider rate limits, and results merge into the
// map independent of arrival order.
func (c *Collector) Collect(ctx context.Context, bases []string, lookbackYears int) (map[string]market.Series, error) {
	bases = symbolpkg.NormalizeList(bases)
	if len(bases) == 0 {
		return map[string]market.Series{}, nil
	}
	if lookbackYears <= 0 {
		lookbackYears = 1
	}
	end := c.now().UTC()
	start := end.AddDate(0, 0, -365*lookbackYears)

	var (
		mu  sync.Mutex
		out = make(map[string]market.Series, len(bases))
	)
	sem := semaphore.NewWeighted(int64(c.cfg.MaxParallel))
	g, gctx := errgroup.WithContext(ctx)
	for _, base := range bases {
		base := base
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			series, ok := c.collectOne(gctx, base, start, end)
			if !ok {
				return nil
			}
			mu.Lock()
			out[base] = series
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// only context cancellation reaches here; per-symbol errors are
		// swallowed inside collectOne
		return nil, err
	}
	return out, nil
}

func (c *Collector) collectOne(ctx context.Context, base string, start, end time.Time) (market.Series, bool) {
	pair := symbolpkg.Pair(base, c.cfg.Quote)
	series := market.Series{Symbol: base}
	nextStart := start
	lastOpen := int64(-1)

	for {
		page, err := c.source.FetchKlinesRange(ctx, pair, c.cfg.Interval, nextStart, end, c.cfg.PageLimit)
		if err != nil {
			if errors.Is(err, market.ErrInvalidSymbol) {
				logger.Warnf("collector: %s is not a tradable pair, skipping", pair)
				return market.Series{}, false
			}
			logger.Warnf("collector: fetching %s klines failed: %v", pair, err)
			break
		}
		if len(page) == 0 {
			break
		}
		for _, candle := range page {
			if candle.OpenTime <= lastOpen {
				continue
			}
			series.Candles = append(series.Candles, candle)
			lastOpen = candle.OpenTime
		}
		if len(page) < c.cfg.PageLimit {
			break
		}
		advance := time.UnixMilli(page[len(page)-1].OpenTime + 1).UTC()
		if !advance.After(nextStart) {
			logger.Warnf("collector: %s pagination did not advance, stopping", pair)
			break
		}
		nextStart = advance
	}

	if len(series.Candles) == 0 {
		logger.Warnf("collector: no data for %s, skipping", pair)
		return market.Series{}, false
	}
	logger.Infof("collector: fetched %d candles for %s", len(series.Candles), pair)
	return series, true
}
