package ledger

import (
	"sort"
	"strconv"
	"strings"
)

// DailySummary nets one day's quote-currency flows: net = sells - buys.
type DailySummary struct {
	Date  string  `json:"date"`
	Buys  float64 `json:"buys"`
	Sells float64 `json:"sells"`
	Net   float64 `json:"net"`
}

// Summarize aggregates ledger entries into per-day P&L, ordered by date.
// Rows with unparseable quote amounts count as zero.
func Summarize(entries []Entry) []DailySummary {
	byDate := make(map[string]*DailySummary)
	for _, e := range entries {
		if len(e.Timestamp) < 10 {
			continue
		}
		date := e.Timestamp[:10]
		day, ok := byDate[date]
		if !ok {
			day = &DailySummary{Date: date}
			byDate[date] = day
		}
		quote, _ := strconv.ParseFloat(strings.TrimSpace(e.QuoteQty), 64)
		switch strings.ToLower(strings.TrimSpace(e.Action)) {
		case "buy":
			day.Buys += quote
		case "sell":
			day.Sells += quote
		}
	}
	out := make([]DailySummary, 0, len(byDate))
	for _, day := range byDate {
		day.Net = day.Sells - day.Buys
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
