package domain

import "time"

// Bar is one period's OHLCV data.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// BarSeries is the ascending-time bar history for one symbol. Immutable once
// fetched; calculators never modify it.
type BarSeries struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of bars.
func (s BarSeries) Len() int { return len(s.Bars) }

// Closes returns the close column.
func (s BarSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high column.
func (s BarSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column.
func (s BarSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// CompressionTier classifies how tightly the Bollinger bands sit inside the
// Keltner channels on a given bar. Exactly one tier holds per bar; HIGH wins
// over MID wins over LOW.
type CompressionTier int

const (
	TierNone CompressionTier = iota
	TierLow
	TierMid
	TierHigh
)

func (t CompressionTier) String() string {
	switch t {
	case TierHigh:
		return "HIGH"
	case TierMid:
		return "MID"
	case TierLow:
		return "LOW"
	default:
		return "NONE"
	}
}

// Meaningful reports whether the tier counts toward fire detection.
// LOW compression is tracked but too weak to qualify.
func (t CompressionTier) Meaningful() bool { return t == TierMid || t == TierHigh }

// FireDirection is the breakout direction when a squeeze releases.
type FireDirection string

const (
	FireGreen FireDirection = "GREEN"
	FireRed   FireDirection = "RED"
	FireNone  FireDirection = ""
)

// SqueezeStatus is the store-facing classification of a verdict.
type SqueezeStatus string

const (
	StatusFiredGreen SqueezeStatus = "FIRED_GREEN"
	StatusFiredRed   SqueezeStatus = "FIRED_RED"
	StatusReady      SqueezeStatus = "READY"
	StatusInSqueeze  SqueezeStatus = "IN_SQUEEZE"
)

// Verdict is the current-bar squeeze assessment for one symbol.
type Verdict struct {
	Symbol string `json:"symbol"`
	Sector string `json:"sector,omitempty"`

	Tier              CompressionTier `json:"tier"`
	MeaningfulOn      bool            `json:"meaningfulOn"`
	MeaningfulOnPrev  bool            `json:"meaningfulOnPrev"`
	Fired             bool            `json:"fired"`
	FireDirection     FireDirection   `json:"fireDirection,omitempty"`
	BarsInCompression int             `json:"barsInCompression"`
	Ready             bool            `json:"ready"`

	Momentum         float64 `json:"momentum"`
	MomentumAccel    float64 `json:"momentumAccel"`
	MomentumRising   bool    `json:"momentumRising"`
	MomentumPositive bool    `json:"momentumPositive"`

	CurrentPrice    float64 `json:"currentPrice"`
	PriorPrice      float64 `json:"priorPrice"`
	PeriodChangePct float64 `json:"periodChangePct"`
	AvgVolume       float64 `json:"avgVolume,omitempty"`

	LastBarTime time.Time `json:"lastBarTime"`
	DataStale   bool      `json:"dataStale"`
}

// Status maps the verdict onto the store-facing classification using the
// fired → ready → in-compression precedence. Returns false when the verdict
// falls into none of the four buckets.
func (v *Verdict) Status() (SqueezeStatus, bool) {
	switch {
	case v.Fired && v.FireDirection == FireGreen:
		return StatusFiredGreen, true
	case v.Fired:
		return StatusFiredRed, true
	case v.Ready:
		return StatusReady, true
	case v.Tier != TierNone:
		return StatusInSqueeze, true
	default:
		return "", false
	}
}

// RankedSignal is a Verdict with its composite setup score. Scores are only
// computed for bullish fires.
type RankedSignal struct {
	Verdict
	Score float64 `json:"score"`
}

// ScanResult holds the four result buckets of one scan, each independently
// sorted. A result is built fresh per scan; nothing carries over between runs.
type ScanResult struct {
	ScannedAt     time.Time      `json:"scannedAt"`
	Timeframe     string         `json:"timeframe"`
	FiredBullish  []RankedSignal `json:"firedBullish"`
	FiredBearish  []Verdict      `json:"firedBearish"`
	Ready         []Verdict      `json:"ready"`
	InCompression []Verdict      `json:"inCompression"`
}

// Total returns the number of verdicts across all buckets.
func (r *ScanResult) Total() int {
	return len(r.FiredBullish) + len(r.FiredBearish) + len(r.Ready) + len(r.InCompression)
}
