package decision

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateTopK(t *testing.T) {
	symbols := []string{"BTC", "ETH", "SOL", "XRP"}
	metrics := map[string]float64{"BTC": 71000, "ETH": 4000, "SOL": 150, "XRP": 0.5}

	t.Run("top 2 buy rest hold", func(t *testing.T) {
		out := NewEngine(2).Evaluate(symbols, metrics)
		assert.Equal(t, ActionBuy, out["BTC"])
		assert.Equal(t, ActionBuy, out["ETH"])
		assert.Equal(t, ActionHold, out["SOL"])
		assert.Equal(t, ActionHold, out["XRP"])
	})

	t.Run("k larger than input buys everything", func(t *testing.T) {
		out := NewEngine(30).Evaluate(symbols, metrics)
		require.Len(t, out, 4)
		for sym, action := range out {
			assert.Equal(t, ActionBuy, action, sym)
		}
	})

	t.Run("covers every metric symbol", func(t *testing.T) {
		out := NewEngine(1).Evaluate(symbols, metrics)
		require.Len(t, out, len(metrics))
	})
}

func TestEvaluateBuyCount(t *testing.T) {
	// exactly min(M, K) symbols classify as buy
	for _, m := range []int{0, 5, 30, 45} {
		symbols := make([]string, m)
		metrics := make(map[string]float64, m)
		for i := 0; i < m; i++ {
			sym := fmt.Sprintf("S%03d", i)
			symbols[i] = sym
			metrics[sym] = float64(i)
		}
		out := NewEngine(30).Evaluate(symbols, metrics)
		buys := 0
		for _, action := range out {
			if action == ActionBuy {
				buys++
			}
		}
		expected := m
		if expected > 30 {
			expected = 30
		}
		assert.Equal(t, expected, buys, "m=%d", m)
	}
}

func TestEvaluateTiesKeepInputOrder(t *testing.T) {
	// AAA and BBB tie on the boundary; AAA comes first in the input so it
	// takes the last buy slot
	symbols := []string{"TOP", "AAA", "BBB"}
	metrics := map[string]float64{"TOP": 100, "AAA": 50, "BBB": 50}
	out := NewEngine(2).Evaluate(symbols, metrics)
	assert.Equal(t, ActionBuy, out["TOP"])
	assert.Equal(t, ActionBuy, out["AAA"])
	assert.Equal(t, ActionHold, out["BBB"])

	// flipping the input order flips the winner
	out = NewEngine(2).Evaluate([]string{"TOP", "BBB", "AAA"}, metrics)
	assert.Equal(t, ActionBuy, out["BBB"])
	assert.Equal(t, ActionHold, out["AAA"])
}

func TestEvaluateNeverEmitsSell(t *testing.T) {
	out := NewEngine(1).Evaluate([]string{"A", "B"}, map[string]float64{"A": 2, "B": 1})
	for _, action := range out {
		assert.NotEqual(t, ActionSell, action)
	}
}
