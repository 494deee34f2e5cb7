package indicators

// CalculateTTMMomentum computes the TTM squeeze momentum oscillator.
//
// The midline is the average of the Donchian channel midpoint and the SMA of
// close, both over the same trailing window. The oscillator value for a bar
// is the endpoint of the least-squares line fitted to the deviation series
// (close - midline) across the trailing window: intercept + slope*(n-1).
//
// Deviations only exist once the midline window is full, so momentum values
// before index 2*(length-1) are left at zero.
func CalculateTTMMomentum(closes, highs, lows []float64, length int) []float64 {
	n := len(closes)
	momentum := make([]float64, n)
	if n < length || length < 1 {
		return momentum
	}

	donchianMid := CalculateDonchianMid(highs, lows, length)
	smaClose := CalculateSMA(closes, length)

	deviation := make([]float64, n)
	for i := length - 1; i < n; i++ {
		midline := (donchianMid[i] + smaClose[i]) / 2
		deviation[i] = closes[i] - midline
	}

	for i := 2*(length-1); i < n; i++ {
		momentum[i] = linRegEndpoint(deviation[i-length+1 : i+1])
	}

	return momentum
}

// linRegEndpoint fits an ordinary least-squares line y = intercept + slope*x
// over x = 0..n-1 and returns its value at x = n-1. Fewer than 2 points
// cannot define a line, so the result defaults to 0.
func linRegEndpoint(y []float64) float64 {
	n := len(y)
	if n < 2 {
		return 0
	}

	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0
	for i := 0; i < n; i++ {
		x := float64(i)
		sumX += x
		sumY += y[i]
		sumXY += x * y[i]
		sumX2 += x * x
	}

	denominator := float64(n)*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0
	}

	slope := (float64(n)*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / float64(n)
	return intercept + slope*float64(n-1)
}
