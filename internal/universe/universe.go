// Package universe resolves which base symbols a pipeline run considers,
// ranked by recent trading volume.
package universe

import (
	"context"
	"fmt"
	"sort"

	"coinpilot/internal/logger"
	"coinpilot/internal/market"
	symbolpkg "coinpilot/internal/pkg/symbol"
)

type Universe struct {
	source market.Source
	quote  string
}

func New(source market.Source, quote string) *Universe {
	if quote == "" {
		quote = symbolpkg.DefaultQuote
	}
	return &Universe{source: source, quote: quote}
}

// TopByVolume returns the top n base symbols among pairs quoted in the
// configured currency, ordered by descending 24h quote volume.
func (u *Universe) TopByVolume(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("universe size must be positive, got %d", n)
	}
	stats, err := u.source.ListPairStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pair stats: %w", err)
	}
	// exchange metadata filters out delisted pairs that still report
	// 24h stats; on failure ranking proceeds unfiltered
	tradable, err := u.source.ListTradablePairs(ctx)
	if err != nil {
		logger.Warnf("universe: listing tradable pairs failed: %v", err)
		tradable = nil
	}
	type ranked struct {
		base   string
		volume float64
	}
	candidates := make([]ranked, 0, len(stats))
	for _, st := range stats {
		base := symbolpkg.Base(st.Symbol, u.quote)
		if base == "" {
			continue
		}
		if tradable != nil && !tradable[st.Symbol] {
			continue
		}
		candidates = append(candidates, ranked{base: base, volume: st.QuoteVolume})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].volume > candidates[j].volume
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]string, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.base)
	}
	return out, nil
}
