package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	entries := []Entry{
		{Timestamp: "2026-08-30T09:00:00Z", Action: "BUY", QuoteQty: "100"},
		{Timestamp: "2026-08-30T10:00:00Z", Action: "SELL", QuoteQty: "130"},
		{Timestamp: "2026-08-31T09:00:00Z", Action: "BUY", QuoteQty: "50"},
		{Timestamp: "2026-08-31T09:05:00Z", Action: "buy", QuoteQty: "50"},
		{Timestamp: "bad", Action: "BUY", QuoteQty: "999"},
	}
	days := Summarize(entries)
	require.Len(t, days, 2)

	assert.Equal(t, "2026-08-30", days[0].Date)
	assert.InDelta(t, 100.0, days[0].Buys, 1e-9)
	assert.InDelta(t, 130.0, days[0].Sells, 1e-9)
	assert.InDelta(t, 30.0, days[0].Net, 1e-9)

	assert.Equal(t, "2026-08-31", days[1].Date)
	assert.InDelta(t, 100.0, days[1].Buys, 1e-9)
	assert.InDelta(t, -100.0, days[1].Net, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}
