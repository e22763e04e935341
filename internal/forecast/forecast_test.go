package forecast

import (
	"testing"

	"coinpilot/internal/market"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesFromCloses(symbol string, closes []float64) market.Series {
	s := market.Series{Symbol: symbol}
	for i, c := range closes {
		s.Candles = append(s.Candles, market.Candle{OpenTime: int64(i) * 86_400_000, Close: c})
	}
	return s
}

func TestPredictLinearTrend(t *testing.T) {
	// perfectly linear closes: close(i) = 100 + 10*i over 10 days
	closes := make([]float64, 10)
	for i := range closes {
		closes[i] = 100 + 10*float64(i)
	}
	f := New(7, 2)
	out := f.Predict(map[string]market.Series{"BTC": seriesFromCloses("BTC", closes)})

	require.Contains(t, out, "BTC")
	require.Len(t, out["BTC"], 7)
	for i, pred := range out["BTC"] {
		expected := 100 + 10*float64(len(closes)+i)
		assert.InDelta(t, expected, pred, 1e-9, "day +%d", i+1)
	}
}

func TestPredictBelowFloorOmitted(t *testing.T) {
	f := New(7, 2)
	out := f.Predict(map[string]market.Series{
		"ONE":  seriesFromCloses("ONE", []float64{42}),
		"NONE": seriesFromCloses("NONE", nil),
		"OK":   seriesFromCloses("OK", []float64{1, 2}),
	})
	assert.NotContains(t, out, "ONE")
	assert.NotContains(t, out, "NONE")
	require.Contains(t, out, "OK")
	assert.Len(t, out["OK"], 7)
}

func TestPredictDeterministic(t *testing.T) {
	history := map[string]market.Series{
		"ETH": seriesFromCloses("ETH", []float64{3000, 3100, 3050, 3200}),
	}
	f := New(7, 2)
	first := f.Predict(history)
	second := f.Predict(history)
	assert.Equal(t, first, second)
}

func TestPredictFlatSeries(t *testing.T) {
	// zero slope still yields a defined line
	f := New(7, 2)
	out := f.Predict(map[string]market.Series{
		"FLAT": seriesFromCloses("FLAT", []float64{5, 5, 5, 5}),
	})
	require.Len(t, out["FLAT"], 7)
	for _, pred := range out["FLAT"] {
		assert.InDelta(t, 5.0, pred, 1e-9)
	}
}

func TestPredictRaisedFloor(t *testing.T) {
	f := New(7, 30)
	out := f.Predict(map[string]market.Series{
		"SHORT": seriesFromCloses("SHORT", []float64{1, 2, 3}),
	})
	assert.Empty(t, out)
}
