// Package executor turns buy/sell decisions into simulated or live
// market orders, sizing quantity from a fixed USD allocation.
package executor

import (
	"context"
	"fmt"
	"math"
	"sort"

	"coinpilot/internal/decision"
	"coinpilot/internal/logger"
	"coinpilot/internal/market"
	symbolpkg "coinpilot/internal/pkg/symbol"

	"github.com/shopspring/decimal"
)

// qtyPrecision 数量精度（小数位）。
const qtyPrecision = 6

type Config struct {
	Quote         string
	USDAllocation float64
	Live          bool
}

type Executor struct {
	source market.Source
	trader market.Trader
	cfg    Config
}

// New builds an executor. trader may be nil when cfg.Live is false;
// live mode without a trader is rejected at execution time.
func New(source market.Source, trader market.Trader, cfg Config) *Executor {
	if cfg.Quote == "" {
		cfg.Quote = symbolpkg.DefaultQuote
	}
	return &Executor{source: source, trader: trader, cfg: cfg}
}

// Execute places (or simulates) one market order per non-hold decision.
// Hold decisions never produce an order. Per-symbol failures are logged
// and skipped so the remaining symbols still execute. Symbols are
// processed in sorted order for reproducible logs and ledger rows.
func (e *Executor) Execute(ctx context.Context, decisions map[string]decision.Action) []market.Order {
	bases := make([]string, 0, len(decisions))
	for base, action := range decisions {
		if action != decision.ActionHold {
			bases = append(bases, base)
		}
	}
	sort.Strings(bases)

	orders := make([]market.Order, 0, len(bases))
	for _, base := range bases {
		order, err := e.executeOne(ctx, base, decisions[base])
		if err != nil {
			logger.Warnf("executor: %s %s failed: %v", decisions[base], base, err)
			continue
		}
		orders = append(orders, *order)
	}
	return orders
}

func (e *Executor) executeOne(ctx context.Context, base string, action decision.Action) (*market.Order, error) {
	side, err := sideFor(action)
	if err != nil {
		return nil, err
	}
	pair := symbolpkg.Pair(base, e.cfg.Quote)

	price, err := e.source.GetPrice(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("price lookup: %w", err)
	}
	qty, err := quantityFor(e.cfg.USDAllocation, price)
	if err != nil {
		return nil, err
	}

	if !e.cfg.Live {
		notional := qty.Mul(decimal.NewFromFloat(price)).Round(2)
		logger.Infof("executor: simulated %s %s qty=%s @ %.8g", side, pair, qty.String(), price)
		return &market.Order{
			Symbol:       pair,
			Side:         side,
			RequestedQty: qty.String(),
			ExecutedQty:  qty.String(),
			Price:        decimal.NewFromFloat(price).String(),
			QuoteQty:     notional.String(),
			Status:       market.StatusSimulated,
		}, nil
	}

	if e.trader == nil {
		return nil, fmt.Errorf("live mode without a trader")
	}
	fill, err := e.trader.PlaceMarketOrder(ctx, pair, side, qty.String())
	if err != nil {
		return nil, fmt.Errorf("placing order: %w", err)
	}
	status := market.StatusFilled
	if fill.Status != "FILLED" {
		status = market.StatusRejected
	}
	logger.Infof("executor: %s %s qty=%s status=%s", side, pair, fill.ExecutedQty, fill.Status)
	return &market.Order{
		Symbol:       pair,
		Side:         side,
		RequestedQty: qty.String(),
		ExecutedQty:  fill.ExecutedQty,
		Price:        fill.AvgPrice,
		QuoteQty:     fill.QuoteQty,
		Status:       status,
	}, nil
}

// quantityFor computes allocation/price rounded to the fixed precision,
// rejecting non-positive or non-finite inputs before any quantity math.
func quantityFor(allocation, price float64) (decimal.Decimal, error) {
	if allocation <= 0 || math.IsNaN(allocation) || math.IsInf(allocation, 0) {
		return decimal.Zero, fmt.Errorf("allocation must be positive and finite, got %v", allocation)
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return decimal.Zero, fmt.Errorf("price must be positive and finite, got %v", price)
	}
	qty := decimal.NewFromFloat(allocation).
		Div(decimal.NewFromFloat(price)).
		RoundBank(qtyPrecision)
	if qty.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("allocation %v too small at price %v", allocation, price)
	}
	return qty, nil
}

func sideFor(action decision.Action) (market.Side, error) {
	switch action {
	case decision.ActionBuy:
		return market.SideBuy, nil
	case decision.ActionSell:
		return market.SideSell, nil
	default:
		return "", fmt.Errorf("no order side for action %q", action)
	}
}
