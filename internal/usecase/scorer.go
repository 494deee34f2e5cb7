package usecase

import (
	"math"

	"squeeze-scanner/internal/domain"
)

// CalculateSetupScore ranks a bullish fire on a 0-100 scale from four capped
// components: momentum magnitude (40), positive momentum acceleration (20),
// compression duration (20), and period price change magnitude (20).
// Negative acceleration contributes nothing rather than subtracting.
func CalculateSetupScore(v *domain.Verdict) float64 {
	momentumScore := math.Min(math.Abs(v.Momentum)/30*40, 40)
	accelScore := math.Min(math.Max(v.MomentumAccel, 0)/5*20, 20)
	durationScore := math.Min(float64(v.BarsInCompression)/12*20, 20)
	changeScore := math.Min(math.Abs(v.PeriodChangePct)/10*20, 20)

	return domain.SanitizeNumber(momentumScore + accelScore + durationScore + changeScore)
}
