// Package pipeline runs one end-to-end decision cycle: resolve symbols,
// collect history, forecast, decide, confirm, execute, record.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coinpilot/internal/decision"
	"coinpilot/internal/forecast"
	"coinpilot/internal/logger"
	"coinpilot/internal/market"
	symbolpkg "coinpilot/internal/pkg/symbol"
	"coinpilot/internal/store/runstore"

	"github.com/google/uuid"
)

// Stage interfaces are defined here, on the consumer side, so tests can
// substitute fakes without touching gateway code.
type (
	SymbolResolver interface {
		TopByVolume(ctx context.Context, n int) ([]string, error)
	}
	HistoryCollector interface {
		Collect(ctx context.Context, bases []string, lookbackYears int) (map[string]market.Series, error)
	}
	Approver interface {
		Request(ctx context.Context, decisions map[string]decision.Action) (bool, error)
	}
	OrderPlacer interface {
		Execute(ctx context.Context, decisions map[string]decision.Action) []market.Order
	}
	LedgerAppender interface {
		Append(orders []market.Order) error
	}
	RunSaver interface {
		SaveRun(ctx context.Context, run *runstore.RunRecord, decisions []runstore.DecisionRecord) error
	}
)

type Config struct {
	UniverseSize  int
	LookbackYears int
	Quote         string
	Live          bool
}

// Pipeline is the single parameterized decision cycle. Components receive
// their clients at construction; nothing here reaches for globals.
type Pipeline struct {
	cfg        Config
	resolver   SymbolResolver
	collector  HistoryCollector
	forecaster *forecast.Forecaster
	engine     *decision.Engine
	gate       Approver
	executor   OrderPlacer
	ledger     LedgerAppender
	store      RunSaver // optional

	now func() time.Time
}

func New(cfg Config, resolver SymbolResolver, collector HistoryCollector, forecaster *forecast.Forecaster,
	engine *decision.Engine, gate Approver, executor OrderPlacer, led LedgerAppender, store RunSaver) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		resolver:   resolver,
		collector:  collector,
		forecaster: forecaster,
		engine:     engine,
		gate:       gate,
		executor:   executor,
		ledger:     led,
		store:      store,
		now:        time.Now,
	}
}

// Result is what one cycle produced, consumed by logs and the run store.
type Result struct {
	RunID     string
	Symbols   []string
	Forecasts map[string][]float64
	Decisions map[string]decision.Action
	Approved  bool
	Orders    []market.Order
}

// Run executes one cycle. Per-symbol faults stay inside their stage;
// only pipeline-level failures (no symbols at all, ledger unavailable)
// abort the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	startedAt := p.now().UTC()
	logger.Infof("pipeline %s: starting (universe=%d lookback=%dy live=%t)",
		runID, p.cfg.UniverseSize, p.cfg.LookbackYears, p.cfg.Live)

	symbols, err := p.resolver.TopByVolume(ctx, p.cfg.UniverseSize)
	if err != nil {
		return nil, fmt.Errorf("resolving symbol universe: %w", err)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("resolving symbol universe: %w", market.ErrNoSymbols)
	}
	logger.Infof("pipeline %s: universe %v", runID, symbols)

	history, err := p.collector.Collect(ctx, symbols, p.cfg.LookbackYears)
	if err != nil {
		return nil, fmt.Errorf("collecting history: %w", err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("collecting history: %w", market.ErrNoSymbols)
	}

	forecasts := p.forecaster.Predict(history)
	metrics := make(map[string]float64, len(forecasts))
	for base, preds := range forecasts {
		if len(preds) == 0 {
			continue
		}
		metrics[base] = preds[len(preds)-1]
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("forecasting: no symbol had enough history")
	}

	decisions := p.engine.Evaluate(symbols, metrics)
	logger.Infof("pipeline %s: %d decisions (%d buy)", runID, len(decisions), countBuys(decisions))

	approved, err := p.gate.Request(ctx, decisions)
	if err != nil {
		return nil, fmt.Errorf("requesting approval: %w", err)
	}
	result := &Result{
		RunID:     runID,
		Symbols:   symbols,
		Forecasts: forecasts,
		Decisions: decisions,
		Approved:  approved,
	}
	if !approved {
		logger.Infof("pipeline %s: not approved, no orders placed", runID)
		p.saveRun(ctx, result, metrics, startedAt, "")
		return result, nil
	}

	result.Orders = p.executor.Execute(ctx, decisions)
	if err := p.ledger.Append(result.Orders); err != nil {
		p.saveRun(ctx, result, metrics, startedAt, err.Error())
		return nil, fmt.Errorf("appending to ledger: %w", err)
	}
	logger.Infof("pipeline %s: done, %d orders", runID, len(result.Orders))
	p.saveRun(ctx, result, metrics, startedAt, "")
	return result, nil
}

// saveRun records history for reporting. The CSV ledger is the durable
// record of trades, so store failures log and continue.
func (p *Pipeline) saveRun(ctx context.Context, res *Result, metrics map[string]float64, startedAt time.Time, runErr string) {
	if p.store == nil {
		return
	}
	payload, err := json.Marshal(res.Forecasts)
	if err != nil {
		logger.Warnf("pipeline %s: marshaling forecasts failed: %v", res.RunID, err)
		payload = nil
	}
	statusBySymbol := make(map[string]string, len(res.Orders))
	for _, o := range res.Orders {
		statusBySymbol[o.Symbol] = string(o.Status)
	}
	rows := make([]runstore.DecisionRecord, 0, len(res.Decisions))
	for base, action := range res.Decisions {
		rows = append(rows, runstore.DecisionRecord{
			Symbol:      base,
			Action:      string(action),
			Metric:      metrics[base],
			OrderStatus: statusBySymbol[symbolpkg.Pair(base, p.cfg.Quote)],
		})
	}
	run := &runstore.RunRecord{
		ID:          res.RunID,
		StartedAt:   startedAt,
		FinishedAt:  p.now().UTC(),
		SymbolCount: len(res.Symbols),
		Approved:    res.Approved,
		Live:        p.cfg.Live,
		Error:       runErr,
		Forecasts:   payload,
	}
	if err := p.store.SaveRun(ctx, run, rows); err != nil {
		logger.Warnf("pipeline %s: saving run history failed: %v", res.RunID, err)
	}
}

func countBuys(decisions map[string]decision.Action) int {
	n := 0
	for _, a := range decisions {
		if a == decision.ActionBuy {
			n++
		}
	}
	return n
}
