package domain

import "context"

// ScanRepository holds the most recent scan result for delivery.
type ScanRepository interface {
	SaveResult(result *ScanResult)
	GetResult() *ScanResult
}

// SignalStore persists bullish fires to an external tabular store,
// keyed by ticker (update-if-exists, else insert).
type SignalStore interface {
	UpsertSignals(ctx context.Context, signals []RankedSignal) error
}

// BarProvider fetches bar history and profile data for one symbol.
// Implementations own retry/backoff policy for transient provider errors.
type BarProvider interface {
	// WeeklyBars returns Friday-ended weekly bars covering roughly the given
	// number of weeks, resampled from daily data.
	WeeklyBars(ctx context.Context, symbol string, weeks int) (BarSeries, error)
	// DailyBars returns daily bars covering roughly the given number of days.
	DailyBars(ctx context.Context, symbol string, days int) (BarSeries, error)
	// Profile returns the average daily volume and sector label for a symbol.
	// Sector falls back to "Unknown" when the provider has no classification.
	Profile(ctx context.Context, symbol string) (avgVolume float64, sector string, err error)
}
