package indicators

// SqueezeConfig parameterizes the compression detector. KCMults lists the
// Keltner channel multipliers ordered widest to tightest; a single multiplier
// gives the legacy single-tier squeeze, three give the tiered LOW/MID/HIGH
// detector.
type SqueezeConfig struct {
	BBLength int
	BBMult   float64
	KCLength int
	KCMults  []float64
}

// DefaultSqueezeConfig matches the TTM Squeeze Pro setup: 20-period Bollinger
// at 2 standard deviations against 20-period Keltner channels at 1.5/1.2/1.0.
func DefaultSqueezeConfig() SqueezeConfig {
	return SqueezeConfig{
		BBLength: 20,
		BBMult:   2.0,
		KCLength: 20,
		KCMults:  []float64{1.5, 1.2, 1.0},
	}
}

// CalculateSqueeze classifies every bar by the tightest Keltner channel that
// strictly contains the Bollinger band: the band's lower bound must sit above
// the channel's lower bound AND its upper bound below the channel's upper
// bound. The result holds, per bar, the index into KCMults of that channel,
// or -1 when no channel contains the band. Because the channels are nested,
// the tightest containing channel implies containment in all wider ones, so
// exactly one classification holds per bar.
func CalculateSqueeze(closes, highs, lows []float64, cfg SqueezeConfig) []int {
	length := len(closes)
	depth := make([]int, length)
	for i := range depth {
		depth[i] = -1
	}
	if length < cfg.BBLength || length < cfg.KCLength || len(cfg.KCMults) == 0 {
		return depth
	}

	bb := CalculateBollingerBands(closes, cfg.BBLength, cfg.BBMult)
	atr := CalculateTrueRangeEMA(highs, lows, closes, cfg.KCLength)
	kcMid := CalculateSMA(closes, cfg.KCLength)

	start := cfg.BBLength - 1
	if cfg.KCLength-1 > start {
		start = cfg.KCLength - 1
	}

	for i := start; i < length; i++ {
		// Walk from tightest to widest; first hit wins.
		for m := len(cfg.KCMults) - 1; m >= 0; m-- {
			halfWidth := cfg.KCMults[m] * atr[i]
			if bb.Lower[i] > kcMid[i]-halfWidth && bb.Upper[i] < kcMid[i]+halfWidth {
				depth[i] = m
				break
			}
		}
	}

	return depth
}
