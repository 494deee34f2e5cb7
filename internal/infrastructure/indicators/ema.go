package indicators

// CalculateEMASpan computes an exponential moving average with span semantics:
// alpha = 2/(span+1), seeded with the first observation. Matching the charting
// convention for Keltner smoothing, every index carries a value.
func CalculateEMASpan(data []float64, span int) []float64 {
	ema := make([]float64, len(data))
	if len(data) == 0 || span < 1 {
		return ema
	}

	k := 2.0 / (float64(span) + 1.0)

	ema[0] = data[0]
	for i := 1; i < len(data); i++ {
		prevEma := ema[i-1]
		ema[i] = (data[i] * k) + (prevEma * (1 - k))
	}

	return ema
}
