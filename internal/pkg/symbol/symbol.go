package symbol

import "strings"

// DefaultQuote is the quote currency every traded pair is priced in.
const DefaultQuote = "USDT"

// Pair joins a base symbol with its quote currency in exchange form,
// e.g. ("BTC", "USDT") -> "BTCUSDT".
func Pair(base, quote string) string {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" {
		return ""
	}
	if quote == "" {
		quote = DefaultQuote
	}
	return base + quote
}

// Base strips the quote suffix from an exchange pair, returning "" when
// the pair is not quoted in the given currency.
func Base(pair, quote string) string {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if quote == "" {
		quote = DefaultQuote
	}
	if !strings.HasSuffix(pair, quote) || len(pair) <= len(quote) {
		return ""
	}
	return pair[:len(pair)-len(quote)]
}

// NormalizeList uppercases, trims and de-duplicates base symbols while
// preserving order.
func NormalizeList(symbols []string) []string {
	if len(symbols) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		norm := strings.ToUpper(strings.TrimSpace(s))
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}
