package usecase

import (
	"errors"
	"math"
	"time"

	"squeeze-scanner/internal/domain"
	"squeeze-scanner/internal/infrastructure/indicators"
)

// ErrInsufficientData marks a bar series too short for the indicator windows.
// Callers skip the symbol silently; it is not a scan error.
var ErrInsufficientData = errors.New("insufficient data for squeeze analysis")

// AnalyzerConfig carries the indicator windows and the fire/state thresholds.
type AnalyzerConfig struct {
	Squeeze     indicators.SqueezeConfig
	MomLength   int
	MinFireBars int           // meaningful bars required before a release counts as a fire
	MaxLookback int           // hard cap when counting trailing compression bars
	StaleAfter  time.Duration // last bar older than this flags the verdict as stale
}

// DefaultAnalyzerConfig returns the reference setup: 20/2.0 Bollinger,
// 20-period tiered Keltner, 12-bar momentum, 6-bar minimum squeeze,
// 50-bar lookback cap, 10-day staleness threshold.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Squeeze:     indicators.DefaultSqueezeConfig(),
		MomLength:   12,
		MinFireBars: 6,
		MaxLookback: 50,
		StaleAfter:  10 * 24 * time.Hour,
	}
}

// MinBars is the shortest series the analyzer accepts.
func (c AnalyzerConfig) MinBars() int {
	min := c.Squeeze.BBLength
	if c.Squeeze.KCLength > min {
		min = c.Squeeze.KCLength
	}
	if c.MomLength > min {
		min = c.MomLength
	}
	return min + 5
}

// tierForDepth maps a channel index from indicators.CalculateSqueeze onto a
// compression tier: the tightest band is HIGH, the next MID, anything wider
// LOW. With a single configured band the legacy squeeze maps to HIGH.
func tierForDepth(depth, bands int) domain.CompressionTier {
	switch {
	case depth < 0:
		return domain.TierNone
	case depth == bands-1:
		return domain.TierHigh
	case depth == bands-2:
		return domain.TierMid
	default:
		return domain.TierLow
	}
}

// barsInCompression counts consecutive trailing bars of meaningful
// compression. The count starts at the current bar while it is still
// compressed, otherwise at the bar before it, so a fresh release reports the
// full run length that just ended. The scan stops at the first gap or at the
// lookback cap.
func barsInCompression(meaningful []bool, maxLookback int) int {
	n := len(meaningful)
	if n == 0 {
		return 0
	}
	start := n - 1
	if !meaningful[start] {
		start--
	}
	count := 0
	for i := start; i >= 0 && count < maxLookback; i-- {
		if !meaningful[i] {
			break
		}
		count++
	}
	return count
}

// squeezeState is the terminal state-machine outcome for the current bar.
type squeezeState struct {
	fired     bool
	direction domain.FireDirection
	bars      int
	ready     bool
}

// evaluateSqueezeState runs the fire/state transition for the latest bar.
// A fire requires meaningful compression on the prior bar, none on the
// current one, and at least MinFireBars of accumulated compression; shorter
// releases are treated as if no squeeze happened. Direction follows the sign
// of momentum at release.
func evaluateSqueezeState(meaningful []bool, momentum float64, cfg AnalyzerConfig) squeezeState {
	n := len(meaningful)
	var cur, prev bool
	if n > 0 {
		cur = meaningful[n-1]
	}
	if n > 1 {
		prev = meaningful[n-2]
	}

	st := squeezeState{bars: barsInCompression(meaningful, cfg.MaxLookback)}

	if prev && !cur && st.bars >= cfg.MinFireBars {
		st.fired = true
		if momentum > 0 {
			st.direction = domain.FireGreen
		} else {
			st.direction = domain.FireRed
		}
	}
	st.ready = cur && st.bars >= cfg.MinFireBars
	return st
}

// AnalyzeSeries produces the current-bar verdict for one symbol's bar history.
func AnalyzeSeries(series domain.BarSeries, cfg AnalyzerConfig, now time.Time) (*domain.Verdict, error) {
	n := series.Len()
	if n < cfg.MinBars() {
		return nil, ErrInsufficientData
	}

	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()

	depth := indicators.CalculateSqueeze(closes, highs, lows, cfg.Squeeze)
	momentum := indicators.CalculateTTMMomentum(closes, highs, lows, cfg.MomLength)

	meaningful := make([]bool, n)
	for i, d := range depth {
		meaningful[i] = tierForDepth(d, len(cfg.Squeeze.KCMults)).Meaningful()
	}

	curMom := nanToZero(momentum[n-1])
	prevMom := nanToZero(momentum[n-2])

	st := evaluateSqueezeState(meaningful, curMom, cfg)

	v := &domain.Verdict{
		Symbol:            series.Symbol,
		Tier:              tierForDepth(depth[n-1], len(cfg.Squeeze.KCMults)),
		MeaningfulOn:      meaningful[n-1],
		MeaningfulOnPrev:  meaningful[n-2],
		Fired:             st.fired,
		FireDirection:     st.direction,
		BarsInCompression: st.bars,
		Ready:             st.ready,
		Momentum:          curMom,
		MomentumAccel:     curMom - prevMom,
		MomentumRising:    curMom > prevMom,
		MomentumPositive:  curMom > 0,
		CurrentPrice:      closes[n-1],
		PriorPrice:        closes[n-2],
		LastBarTime:       series.Bars[n-1].Time,
	}

	if v.PriorPrice > 0 {
		v.PeriodChangePct = (v.CurrentPrice - v.PriorPrice) / v.PriorPrice * 100
	}
	v.DataStale = now.Sub(v.LastBarTime) > cfg.StaleAfter

	return v, nil
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
