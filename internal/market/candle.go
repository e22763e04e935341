package market

import "fmt"

type Candle struct {
	OpenTime    int64   `json:"open_time"`
	CloseTime   int64   `json:"close_time"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      float64 `json:"volume"`
	QuoteVolume float64 `json:"quote_volume"`
	Trades      int64   `json:"trades"`
}

// Series is one symbol's candle history, ordered by open time.
type Series struct {
	Symbol  string   `json:"symbol"`
	Candles []Candle `json:"candles"`
}

func (s Series) Len() int { return len(s.Candles) }

// Closes returns the closing prices in bar order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Validate checks that candles are strictly increasing by open time,
// which also rules out duplicate timestamps.
func (s Series) Validate() error {
	for i := 1; i < len(s.Candles); i++ {
		if s.Candles[i].OpenTime <= s.Candles[i-1].OpenTime {
			return fmt.Errorf("series %s: candle %d open time %d not after %d",
				s.Symbol, i, s.Candles[i].OpenTime, s.Candles[i-1].OpenTime)
		}
	}
	return nil
}
