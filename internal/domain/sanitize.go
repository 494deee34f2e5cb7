package domain

import "math"

// SanitizeNumber makes a float safe for external sinks: NaN and ±Inf become
// 0.0, everything else is rounded to 4 decimal places. Idempotent.
func SanitizeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return math.Round(v*10000) / 10000
}
