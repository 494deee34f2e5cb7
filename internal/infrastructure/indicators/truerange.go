package indicators

import "math"

// CalculateTrueRange computes the per-bar true range:
// max(high-low, |high - prior close|, |low - prior close|).
// The first bar has no prior close, so its true range is high-low.
func CalculateTrueRange(highs, lows, closes []float64) []float64 {
	length := len(closes)
	trs := make([]float64, length)
	if length == 0 {
		return trs
	}

	trs[0] = highs[0] - lows[0]
	for i := 1; i < length; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])

		maxVal := hl
		if hc > maxVal {
			maxVal = hc
		}
		if lc > maxVal {
			maxVal = lc
		}
		trs[i] = maxVal
	}

	return trs
}

// CalculateTrueRangeEMA smooths the true range with a span-seeded EMA,
// producing the volatility estimate the Keltner channels are built from.
func CalculateTrueRangeEMA(highs, lows, closes []float64, span int) []float64 {
	return CalculateEMASpan(CalculateTrueRange(highs, lows, closes), span)
}
