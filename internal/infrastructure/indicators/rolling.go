package indicators

// CalculateSMA computes the simple moving average over a trailing window.
// Indices before period-1 are left at zero.
func CalculateSMA(data []float64, period int) []float64 {
	length := len(data)
	sma := make([]float64, length)
	if length < period || period < 1 {
		return sma
	}

	sum := 0.0
	for i := 0; i < length; i++ {
		sum += data[i]
		if i >= period {
			sum -= data[i-period]
		}
		if i >= period-1 {
			sma[i] = sum / float64(period)
		}
	}

	return sma
}

// CalculateDonchianMid computes the midpoint of the Donchian channel: the
// average of the rolling max high and rolling min low over a trailing window.
// Indices before period-1 are left at zero.
func CalculateDonchianMid(highs, lows []float64, period int) []float64 {
	length := len(highs)
	mid := make([]float64, length)
	if length < period || period < 1 || len(lows) != length {
		return mid
	}

	for i := period - 1; i < length; i++ {
		hh := highs[i]
		ll := lows[i]
		for j := 1; j < period; j++ {
			if highs[i-j] > hh {
				hh = highs[i-j]
			}
			if lows[i-j] < ll {
				ll = lows[i-j]
			}
		}
		mid[i] = (hh + ll) / 2
	}

	return mid
}
