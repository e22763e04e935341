// Package app assembles the object graph from config and runs it.
package app

import (
	"context"
	"fmt"

	"coinpilot/internal/approval"
	"coinpilot/internal/collector"
	"coinpilot/internal/config"
	"coinpilot/internal/decision"
	"coinpilot/internal/executor"
	"coinpilot/internal/forecast"
	binancegw "coinpilot/internal/gateway/binance"
	"coinpilot/internal/gateway/notifier"
	"coinpilot/internal/ledger"
	"coinpilot/internal/logger"
	"coinpilot/internal/market"
	"coinpilot/internal/pipeline"
	"coinpilot/internal/scheduler"
	"coinpilot/internal/store/runstore"
	reporthttp "coinpilot/internal/transport/http/report"
	"coinpilot/internal/universe"

	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	sched    *scheduler.Scheduler
	httpSrv  *reporthttp.Server
	store    *runstore.Store
}

// NewApp constructs every component exactly once and threads the shared
// exchange client through them explicitly. No package-level singletons.
func NewApp(cfg *config.Config) (*App, error) {
	source, err := binancegw.New(binancegw.Config{
		APIKey:      cfg.Binance.APIKey,
		APISecret:   cfg.Binance.APISecret,
		RESTBaseURL: cfg.Binance.RESTBaseURL,
		HTTPTimeout: cfg.Binance.Timeout(),
		ProxyURL:    cfg.Binance.ProxyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("building binance gateway: %w", err)
	}

	// the mutating client is only handed out in live mode
	var trader market.Trader
	if cfg.Trading.Live {
		trader = source
	}

	var channel notifier.Channel
	if cfg.Approval.Enabled {
		channel = notifier.NewTelegram(cfg.Approval.BotToken, cfg.Approval.ChatID)
	}
	gate := approval.NewGate(channel, cfg.Approval.Timeout(), cfg.Approval.PollInterval(), cfg.Approval.FailOpen)

	led := ledger.New(cfg.Ledger.Path)

	var store *runstore.Store
	var saver pipeline.RunSaver
	if cfg.Store.Path != "" {
		store, err = runstore.New(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("opening run store: %w", err)
		}
		saver = store
	}

	pipe := pipeline.New(
		pipeline.Config{
			UniverseSize:  cfg.Universe.Size,
			LookbackYears: cfg.Collector.LookbackYears,
			Quote:         cfg.Universe.Quote,
			Live:          cfg.Trading.Live,
		},
		universe.New(source, cfg.Universe.Quote),
		collector.New(source, collector.Config{
			Quote:       cfg.Universe.Quote,
			Interval:    cfg.Collector.Interval,
			PageLimit:   cfg.Collector.PageLimit,
			MaxParallel: cfg.Collector.MaxParallel,
		}),
		forecast.New(cfg.Forecast.HorizonDays, cfg.Forecast.MinSamples),
		decision.NewEngine(cfg.Decision.TopK),
		gate,
		executor.New(source, trader, executor.Config{
			Quote:         cfg.Universe.Quote,
			USDAllocation: cfg.Trading.USDAllocation,
			Live:          cfg.Trading.Live,
		}),
		led,
		saver,
	)

	var httpSrv *reporthttp.Server
	if cfg.App.HTTPAddr != "" {
		srvCfg := reporthttp.ServerConfig{Addr: cfg.App.HTTPAddr, Ledger: led}
		if store != nil {
			srvCfg.Runs = store
		}
		httpSrv, err = reporthttp.NewServer(srvCfg)
		if err != nil {
			return nil, fmt.Errorf("building report http server: %w", err)
		}
	}

	return &App{
		cfg:      cfg,
		pipeline: pipe,
		sched:    scheduler.New(cfg.Scheduler.Cron, cfg.Scheduler.RunImmediately),
		httpSrv:  httpSrv,
		store:    store,
	}, nil
}

// Run drives the scheduler (and the optional HTTP server) until ctx is
// cancelled or, with no cron spec, until the single run finishes.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	if a.httpSrv != nil {
		g.Go(func() error { return a.httpSrv.Start(gctx) })
	}
	g.Go(func() error {
		defer cancel()
		return a.sched.Run(gctx, func(jobCtx context.Context) {
			if _, err := a.pipeline.Run(jobCtx); err != nil {
				logger.Errorf("pipeline run failed: %v", err)
			}
		})
	})
	err := g.Wait()
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil {
			logger.Warnf("closing run store: %v", cerr)
		}
	}
	return err
}
