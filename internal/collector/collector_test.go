package collector

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"coinpilot/internal/market"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = int64(86_400_000)

func candles(firstOpen int64, n int) []market.Candle {
	out := make([]market.Candle, n)
	for i := range out {
		open := firstOpen + int64(i)*day
		out[i] = market.Candle{OpenTime: open, CloseTime: open + day - 1, Close: 100}
	}
	return out
}

// pagedSource serves scripted kline pages per pair and records the start
// times it was asked for.
type pagedSource struct {
	mu     sync.Mutex
	pages  map[string][][]market.Candle
	errs   map[string]error
	calls  map[string]int
	starts map[string][]int64
}

func newPagedSource() *pagedSource {
	return &pagedSource{
		pages:  map[string][][]market.Candle{},
		errs:   map[string]error{},
		calls:  map[string]int{},
		starts: map[string][]int64{},
	}
}

func (p *pagedSource) ListPairStats(context.Context) ([]market.PairStats, error) { return nil, nil }
func (p *pagedSource) GetPrice(context.Context, string) (float64, error)         { return 0, nil }
func (p *pagedSource) ListTradablePairs(context.Context) (map[string]bool, error) {
	return nil, nil
}

func (p *pagedSource) FetchKlinesRange(_ context.Context, pair, _ string, start, _ time.Time, _ int) ([]market.Candle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.starts[pair] = append(p.starts[pair], start.UnixMilli())
	if err, ok := p.errs[pair]; ok {
		return nil, err
	}
	idx := p.calls[pair]
	p.calls[pair]++
	script := p.pages[pair]
	if idx >= len(script) {
		return nil, nil
	}
	return script[idx], nil
}

func TestCollectPagination(t *testing.T) {
	src := newPagedSource()
	// two full pages then a short one
	src.pages["BTCUSDT"] = [][]market.Candle{
		candles(0, 3),
		candles(3*day, 3),
		candles(6*day, 1),
	}
	c := New(src, Config{PageLimit: 3, MaxParallel: 1})
	// pin the clock so the scripted epoch-based candles sit inside the
	// lookback window and each page start advances past the previous one
	c.now = func() time.Time { return time.UnixMilli(10 * day) }

	out, err := c.Collect(context.Background(), []string{"BTC"}, 1)
	require.NoError(t, err)
	require.Contains(t, out, "BTC")
	series := out["BTC"]
	assert.Equal(t, 7, series.Len())
	assert.NoError(t, series.Validate())

	// the second request starts one ms past the last candle of page one
	starts := src.starts["BTCUSDT"]
	require.Len(t, starts, 3)
	assert.Equal(t, 2*day+1, starts[1])
	assert.Equal(t, 5*day+1, starts[2])
}

func TestCollectStopsOnShortPage(t *testing.T) {
	src := newPagedSource()
	src.pages["ETHUSDT"] = [][]market.Candle{candles(0, 2)}
	c := New(src, Config{PageLimit: 5, MaxParallel: 1})

	out, err := c.Collect(context.Background(), []string{"ETH"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, out["ETH"].Len())
	assert.Equal(t, 1, src.calls["ETHUSDT"], "short page must end pagination")
}

func TestCollectStopsWhenPaginationStalls(t *testing.T) {
	src := newPagedSource()
	// a provider repeating the same full page cannot advance the cursor;
	// pagination must stop with the partial series, not loop
	src.pages["BTCUSDT"] = [][]market.Candle{
		candles(0, 3),
		candles(0, 3),
		candles(3*day, 3),
	}
	c := New(src, Config{PageLimit: 3, MaxParallel: 1})
	c.now = func() time.Time { return time.UnixMilli(10 * day) }

	out, err := c.Collect(context.Background(), []string{"BTC"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, out["BTC"].Len())
	assert.Equal(t, 2, src.calls["BTCUSDT"], "a stalled cursor must end pagination")
}

func TestCollectFailureIsolation(t *testing.T) {
	src := newPagedSource()
	src.pages["BTCUSDT"] = [][]market.Candle{candles(0, 2)}
	src.errs["DOWNUSDT"] = fmt.Errorf("connection reset")
	src.errs["FAKEUSDT"] = fmt.Errorf("%w: FAKEUSDT", market.ErrInvalidSymbol)
	c := New(src, Config{PageLimit: 5, MaxParallel: 2})

	out, err := c.Collect(context.Background(), []string{"BTC", "DOWN", "FAKE"}, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Contains(t, out, "BTC")
}

func TestCollectEmptyFirstPageSkipsSymbol(t *testing.T) {
	src := newPagedSource()
	c := New(src, Config{PageLimit: 5, MaxParallel: 1})
	out, err := c.Collect(context.Background(), []string{"NEW"}, 1)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCollectSeriesStrictlyIncreasing(t *testing.T) {
	src := newPagedSource()
	// overlapping second page must be deduplicated
	src.pages["BTCUSDT"] = [][]market.Candle{
		candles(0, 3),
		append(candles(2*day, 1), candles(3*day, 2)...),
	}
	c := New(src, Config{PageLimit: 3, MaxParallel: 1})
	c.now = func() time.Time { return time.UnixMilli(10 * day) }

	out, err := c.Collect(context.Background(), []string{"BTC"}, 1)
	require.NoError(t, err)
	series := out["BTC"]
	assert.NoError(t, series.Validate())
	assert.Equal(t, 5, series.Len())
}

func TestCollectNoSymbols(t *testing.T) {
	c := New(newPagedSource(), Config{})
	out, err := c.Collect(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Empty(t, out)
}
