package market

import (
	"context"
	"time"
)

// PairStats is one entry of the exchange's 24h ticker statistics.
type PairStats struct {
	Symbol      string
	QuoteVolume float64
	LastPrice   float64
}

// Source is the read-only market-data surface the pipeline consumes.
type Source interface {
	// ListPairStats returns 24h statistics for every trading pair.
	ListPairStats(ctx context.Context) ([]PairStats, error)

	// FetchKlinesRange returns at most limit candles for the pair and
	// interval whose open time falls in [start, end].
	FetchKlinesRange(ctx context.Context, pair, interval string, start, end time.Time, limit int) ([]Candle, error)

	// GetPrice returns the current price for the pair.
	GetPrice(ctx context.Context, pair string) (float64, error)

	// ListTradablePairs returns the pairs currently open for trading.
	ListTradablePairs(ctx context.Context) (map[string]bool, error)
}

// Trader is the order-submission surface. It is kept separate from Source
// so simulate-mode code paths never hold a mutating client.
type Trader interface {
	// PlaceMarketOrder submits a market order and reports the fill.
	PlaceMarketOrder(ctx context.Context, pair string, side Side, quantity string) (*Fill, error)
}

// Fill is the exchange's report for a placed order.
type Fill struct {
	ExecutedQty string
	AvgPrice    string
	QuoteQty    string
	Status      string
}
