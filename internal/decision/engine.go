// Package decision ranks symbols by a forward-looking metric and
// classifies each as buy or hold.
package decision

import "sort"

type Action string

const (
	ActionBuy  Action = "buy"
	ActionHold Action = "hold"

	// ActionSell is modeled by the executor and ledger but never emitted
	// by the ranking rule.
	ActionSell Action = "sell"
)

// Engine classifies the top K symbols by metric as buys, the rest holds.
// The observed system never emits a sell from the ranking; the order and
// ledger models stay side-generic so a symmetric rule can be added here
// without touching downstream stages.
type Engine struct {
	topK int
}

func NewEngine(topK int) *Engine {
	if topK <= 0 {
		topK = 30
	}
	return &Engine{topK: topK}
}

// Evaluate returns an action for every symbol present in metrics. symbols
// fixes the pre-sort order so boundary ties keep their original relative
// position; metric entries absent from symbols are appended alphabetically
// to keep the ranking deterministic. Pure and side-effect free.
func (e *Engine) Evaluate(symbols []string, metrics map[string]float64) map[string]Action {
	seen := make(map[string]struct{}, len(metrics))
	ranked := make([]string, 0, len(metrics))
	for _, s := range symbols {
		if _, ok := metrics[s]; ok {
			ranked = append(ranked, s)
			seen[s] = struct{}{}
		}
	}
	var extra []string
	for s := range metrics {
		if _, ok := seen[s]; !ok {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	ranked = append(ranked, extra...)

	sort.SliceStable(ranked, func(i, j int) bool {
		return metrics[ranked[i]] > metrics[ranked[j]]
	})

	top := e.topK
	if top > len(ranked) {
		top = len(ranked)
	}
	out := make(map[string]Action, len(ranked))
	for i, s := range ranked {
		if i < top {
			out[s] = ActionBuy
		} else {
			out[s] = ActionHold
		}
	}
	return out
}
