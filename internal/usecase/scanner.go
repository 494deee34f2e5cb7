package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"squeeze-scanner/internal/domain"
)

const (
	TimeframeWeekly = "weekly"
	TimeframeDaily  = "daily"
)

// ErrEmptyUniverse is returned when a scan is started with no symbols.
var ErrEmptyUniverse = errors.New("no symbols to scan")

// ScanConfig controls the orchestrator: pool size, history depth, the
// liquidity floor, and the per-symbol fetch jitter window.
type ScanConfig struct {
	Timeframe    string
	Workers      int
	HistoryWeeks int
	HistoryDays  int
	MinAvgVolume float64
	JitterMin    time.Duration
	JitterMax    time.Duration
}

// DefaultScanConfig returns the weekly scan defaults: 10 workers, two years
// of weekly history, a 500k average-volume floor, and 50-150ms of jitter
// before each fetch to avoid hammering the data provider.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Timeframe:    TimeframeWeekly,
		Workers:      10,
		HistoryWeeks: 104,
		HistoryDays:  365,
		MinAvgVolume: 500_000,
		JitterMin:    50 * time.Millisecond,
		JitterMax:    150 * time.Millisecond,
	}
}

// ScanUsecase fans symbol analysis out over a bounded worker pool and folds
// the verdicts into the four sorted result buckets.
type ScanUsecase struct {
	bars     domain.BarProvider
	analyzer AnalyzerConfig
	cfg      ScanConfig
	log      zerolog.Logger
}

func NewScanUsecase(bars domain.BarProvider, analyzer AnalyzerConfig, cfg ScanConfig, log zerolog.Logger) *ScanUsecase {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &ScanUsecase{bars: bars, analyzer: analyzer, cfg: cfg, log: log}
}

type scanOutcome struct {
	symbol  string
	verdict *domain.Verdict
	err     error
}

// Scan analyzes every symbol concurrently and returns the bucketed result.
// Individual symbol failures are logged and absorbed; only an empty universe
// or a cancelled context fails the scan itself.
func (uc *ScanUsecase) Scan(ctx context.Context, symbols []string) (*domain.ScanResult, error) {
	if len(symbols) == 0 {
		return nil, ErrEmptyUniverse
	}

	uc.log.Info().
		Int("symbols", len(symbols)).
		Int("workers", uc.cfg.Workers).
		Str("timeframe", uc.cfg.Timeframe).
		Msg("scan started")

	jobs := make(chan string)
	outcomes := make(chan scanOutcome)

	var wg sync.WaitGroup
	for i := 0; i < uc.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				verdict, err := uc.AnalyzeSymbol(ctx, symbol)
				select {
				case outcomes <- scanOutcome{symbol: symbol, verdict: verdict, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, s := range symbols {
			select {
			case jobs <- s:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Buckets are only touched here, on the draining goroutine.
	result := &domain.ScanResult{
		ScannedAt: time.Now().UTC(),
		Timeframe: uc.cfg.Timeframe,
	}
	completed := 0
	for out := range outcomes {
		completed++
		if completed%50 == 0 {
			uc.log.Info().Int("completed", completed).Int("total", len(symbols)).Msg("scan progress")
		}
		if out.err != nil {
			uc.log.Debug().Str("symbol", out.symbol).Err(out.err).Msg("symbol skipped")
			continue
		}
		if out.verdict == nil {
			continue
		}
		uc.bucket(result, out.verdict)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortResult(result)

	uc.log.Info().
		Int("firedBullish", len(result.FiredBullish)).
		Int("firedBearish", len(result.FiredBearish)).
		Int("ready", len(result.Ready)).
		Int("inCompression", len(result.InCompression)).
		Msg("scan finished")

	return result, nil
}

func (uc *ScanUsecase) bucket(result *domain.ScanResult, v *domain.Verdict) {
	status, ok := v.Status()
	if !ok {
		return
	}
	switch status {
	case domain.StatusFiredGreen:
		result.FiredBullish = append(result.FiredBullish, domain.RankedSignal{
			Verdict: *v,
			Score:   CalculateSetupScore(v),
		})
	case domain.StatusFiredRed:
		result.FiredBearish = append(result.FiredBearish, *v)
	case domain.StatusReady:
		result.Ready = append(result.Ready, *v)
	case domain.StatusInSqueeze:
		result.InCompression = append(result.InCompression, *v)
	}
}

// sortResult orders every bucket deterministically. Ties break on symbol so
// repeated scans over the same data produce identical output.
func sortResult(r *domain.ScanResult) {
	sort.Slice(r.FiredBullish, func(i, j int) bool {
		a, b := r.FiredBullish[i], r.FiredBullish[j]
		if a.Momentum != b.Momentum {
			return a.Momentum > b.Momentum
		}
		return a.Symbol < b.Symbol
	})
	sort.Slice(r.FiredBearish, func(i, j int) bool {
		a, b := r.FiredBearish[i], r.FiredBearish[j]
		if a.Momentum != b.Momentum {
			return a.Momentum < b.Momentum
		}
		return a.Symbol < b.Symbol
	})
	sort.Slice(r.Ready, func(i, j int) bool {
		a, b := r.Ready[i], r.Ready[j]
		if a.BarsInCompression != b.BarsInCompression {
			return a.BarsInCompression > b.BarsInCompression
		}
		return a.Symbol < b.Symbol
	})
	sort.Slice(r.InCompression, func(i, j int) bool {
		a, b := r.InCompression[i], r.InCompression[j]
		if a.Momentum != b.Momentum {
			return a.Momentum > b.Momentum
		}
		return a.Symbol < b.Symbol
	})
}

// AnalyzeSymbol fetches one symbol's profile and bar history and runs the
// squeeze analysis. A nil verdict with a nil error means the symbol was
// filtered out (below the liquidity floor) rather than failed.
func (uc *ScanUsecase) AnalyzeSymbol(ctx context.Context, symbol string) (*domain.Verdict, error) {
	if err := uc.jitter(ctx); err != nil {
		return nil, err
	}

	avgVolume, sector, err := uc.bars.Profile(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if avgVolume < uc.cfg.MinAvgVolume {
		return nil, nil
	}

	var series domain.BarSeries
	if uc.cfg.Timeframe == TimeframeDaily {
		series, err = uc.bars.DailyBars(ctx, symbol, uc.cfg.HistoryDays)
	} else {
		series, err = uc.bars.WeeklyBars(ctx, symbol, uc.cfg.HistoryWeeks)
	}
	if err != nil {
		return nil, err
	}

	verdict, err := AnalyzeSeries(series, uc.analyzer, time.Now())
	if err != nil {
		return nil, err
	}
	verdict.Sector = sector
	verdict.AvgVolume = avgVolume
	return verdict, nil
}

// jitter sleeps a random interval inside the configured window so the pool
// does not burst-fetch when a scan kicks off.
func (uc *ScanUsecase) jitter(ctx context.Context) error {
	window := uc.cfg.JitterMax - uc.cfg.JitterMin
	if window <= 0 {
		if uc.cfg.JitterMin <= 0 {
			return nil
		}
		window = 1
	}
	delay := uc.cfg.JitterMin + time.Duration(rand.Int63n(int64(window)))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
