package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quietThenSpike builds a series that oscillates tightly around 100 for n-1
// bars, then expands violently on the final bar. The tight stretch keeps the
// Bollinger band well inside even the tightest Keltner channel once the
// 20-bar windows are full; the spike blows the band outside all of them.
func quietThenSpike(n int) (closes, highs, lows []float64) {
	closes = make([]float64, n)
	highs = make([]float64, n)
	lows = make([]float64, n)
	for i := 0; i < n-1; i++ {
		c := 99.9
		if i%2 == 0 {
			c = 100.1
		}
		closes[i] = c
		highs[i] = c + 0.5
		lows[i] = c - 0.5
	}
	closes[n-1] = 120
	highs[n-1] = 121
	lows[n-1] = 118
	return closes, highs, lows
}

func TestCalculateSqueezeTieredClassification(t *testing.T) {
	closes, highs, lows := quietThenSpike(30)
	cfg := DefaultSqueezeConfig()

	depth := CalculateSqueeze(closes, highs, lows, cfg)
	require.Equal(t, 30, len(depth))

	for i := 0; i < 19; i++ {
		assert.Equal(t, -1, depth[i], "bar %d has no full window yet", i)
	}
	for i := 19; i < 29; i++ {
		assert.Equal(t, 2, depth[i], "bar %d should sit in the tightest channel", i)
	}
	assert.Equal(t, -1, depth[29], "expansion bar must leave every channel")
}

func TestCalculateSqueezeExactlyOneClassification(t *testing.T) {
	closes, highs, lows := quietThenSpike(40)
	cfg := DefaultSqueezeConfig()

	depth := CalculateSqueeze(closes, highs, lows, cfg)
	for i, d := range depth {
		assert.GreaterOrEqual(t, d, -1, "bar %d", i)
		assert.Less(t, d, len(cfg.KCMults), "bar %d", i)
	}
}

func TestCalculateSqueezeSingleTier(t *testing.T) {
	// Legacy single-tier squeeze: one multiplier, depth is 0 or -1.
	closes, highs, lows := quietThenSpike(30)
	cfg := SqueezeConfig{BBLength: 20, BBMult: 2.0, KCLength: 20, KCMults: []float64{1.2}}

	depth := CalculateSqueeze(closes, highs, lows, cfg)
	assert.Equal(t, 0, depth[25])
	assert.Equal(t, -1, depth[29])
}

func TestCalculateSqueezeShortSeries(t *testing.T) {
	closes, highs, lows := quietThenSpike(10)
	depth := CalculateSqueeze(closes, highs, lows, DefaultSqueezeConfig())
	for _, d := range depth {
		assert.Equal(t, -1, d)
	}
}

func TestCalculateBollingerBandsSampleStd(t *testing.T) {
	// Window (1,2,3): mean 2, sample std 1 → bands at 2±2.
	bb := CalculateBollingerBands([]float64{1, 2, 3, 4}, 3, 2.0)

	assert.Zero(t, bb.Upper[1], "no full window yet")
	assert.InDelta(t, 2.0, bb.Middle[2], 1e-9)
	assert.InDelta(t, 4.0, bb.Upper[2], 1e-9)
	assert.InDelta(t, 0.0, bb.Lower[2], 1e-9)
	assert.InDelta(t, 5.0, bb.Upper[3], 1e-9)
	assert.InDelta(t, 1.0, bb.Lower[3], 1e-9)
}

func TestCalculateTrueRangeUsesPriorClose(t *testing.T) {
	highs := []float64{10, 12}
	lows := []float64{9, 11}
	closes := []float64{9.5, 11.5}

	trs := CalculateTrueRange(highs, lows, closes)
	assert.InDelta(t, 1.0, trs[0], 1e-9, "first bar falls back to high-low")
	assert.InDelta(t, 2.5, trs[1], 1e-9, "gap to prior close dominates")
}

func TestCalculateEMASpanSeedsWithFirstValue(t *testing.T) {
	ema := CalculateEMASpan([]float64{1, 2.5}, 2)
	assert.InDelta(t, 1.0, ema[0], 1e-9)
	assert.InDelta(t, 2.0, ema[1], 1e-9) // 2.5*(2/3) + 1*(1/3)
}

func TestCalculateSMA(t *testing.T) {
	sma := CalculateSMA([]float64{1, 2, 3, 4}, 2)
	assert.Equal(t, []float64{0, 1.5, 2.5, 3.5}, sma)
}

func TestCalculateDonchianMid(t *testing.T) {
	mid := CalculateDonchianMid([]float64{1, 3, 2}, []float64{0, 1, 1}, 2)
	assert.InDelta(t, 0.0, mid[0], 1e-9)
	assert.InDelta(t, 1.5, mid[1], 1e-9)
	assert.InDelta(t, 2.0, mid[2], 1e-9)
}
