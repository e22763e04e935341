// Package forecast fits a per-symbol linear trend over historical closes
// and extrapolates a fixed horizon.
package forecast

import (
	"coinpilot/internal/logger"
	"coinpilot/internal/market"
)

const (
	// DefaultHorizon is the number of future days predicted per symbol.
	DefaultHorizon = 7

	// DefaultMinSamples is the smallest series with a defined trend line.
	// Symbols below the floor are omitted from the result, never an error.
	DefaultMinSamples = 2
)

type Forecaster struct {
	horizon    int
	minSamples int
}

func New(horizon, minSamples int) *Forecaster {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if minSamples < DefaultMinSamples {
		minSamples = DefaultMinSamples
	}
	return &Forecaster{horizon: horizon, minSamples: minSamples}
}

// Predict regresses each symbol's closing price against its zero-based day
// index and extrapolates the next horizon day indices. Only values up to
// the forecast origin enter the fit. Deterministic for identical input.
func (f *Forecaster) Predict(history map[string]market.Series) map[string][]float64 {
	out := make(map[string][]float64, len(history))
	for base, series := range history {
		closes := series.Closes()
		if len(closes) < f.minSamples {
			logger.Warnf("forecast: %s has %d samples (floor %d), omitting",
				base, len(closes), f.minSamples)
			continue
		}
		slope, intercept, ok := fitLine(closes)
		if !ok {
			logger.Warnf("forecast: %s trend is undefined, omitting", base)
			continue
		}
		preds := make([]float64, f.horizon)
		for i := 0; i < f.horizon; i++ {
			x := float64(len(closes) + i)
			preds[i] = intercept + slope*x
		}
		out[base] = preds
	}
	return out
}

// fitLine computes the ordinary least-squares line y = intercept + slope*x
// for y values indexed x = 0..n-1.
func fitLine(ys []float64) (slope, intercept float64, ok bool) {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, false
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, true
}
