package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squeeze-scanner/internal/domain"
)

type fakeBarProvider struct {
	series map[string]domain.BarSeries
	volume map[string]float64
	fail   map[string]error
}

func (f *fakeBarProvider) WeeklyBars(_ context.Context, symbol string, _ int) (domain.BarSeries, error) {
	if err := f.fail[symbol]; err != nil {
		return domain.BarSeries{}, err
	}
	return f.series[symbol], nil
}

func (f *fakeBarProvider) DailyBars(ctx context.Context, symbol string, _ int) (domain.BarSeries, error) {
	return f.WeeklyBars(ctx, symbol, 0)
}

func (f *fakeBarProvider) Profile(_ context.Context, symbol string) (float64, string, error) {
	if err := f.fail[symbol]; err != nil {
		return 0, "", err
	}
	if vol, ok := f.volume[symbol]; ok {
		return vol, "Technology", nil
	}
	return 1_000_000, "Technology", nil
}

func testScanConfig() ScanConfig {
	cfg := DefaultScanConfig()
	cfg.Workers = 4
	cfg.JitterMin = 0
	cfg.JitterMax = 0
	return cfg
}

func newTestScanner(provider *fakeBarProvider) *ScanUsecase {
	return NewScanUsecase(provider, DefaultAnalyzerConfig(), testScanConfig(), zerolog.Nop())
}

func TestScanEmptyUniverse(t *testing.T) {
	uc := newTestScanner(&fakeBarProvider{})

	_, err := uc.Scan(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyUniverse)
}

func TestScanBucketsVerdictsAndAbsorbsFailures(t *testing.T) {
	lastBar := time.Now().AddDate(0, 0, -2)
	fired := quietThenSpikeSeries("FIRE", 30, lastBar)
	ready := quietThenSpikeSeries("ARMD", 31, lastBar)
	ready.Bars = ready.Bars[:30]

	provider := &fakeBarProvider{
		series: map[string]domain.BarSeries{
			"FIRE": fired,
			"ARMD": ready,
			"THIN": fired,
		},
		volume: map[string]float64{"THIN": 100_000},
		fail:   map[string]error{"DEAD": errors.New("provider exploded")},
	}
	uc := newTestScanner(provider)

	result, err := uc.Scan(context.Background(), []string{"FIRE", "ARMD", "THIN", "DEAD"})
	require.NoError(t, err)

	require.Len(t, result.FiredBullish, 1)
	assert.Equal(t, "FIRE", result.FiredBullish[0].Symbol)
	assert.Greater(t, result.FiredBullish[0].Score, 0.0)
	assert.Equal(t, "Technology", result.FiredBullish[0].Sector)

	require.Len(t, result.Ready, 1)
	assert.Equal(t, "ARMD", result.Ready[0].Symbol)

	// The illiquid and the failing symbol contribute nothing.
	assert.Equal(t, 2, result.Total())
}

func TestScanShortHistorySkippedSilently(t *testing.T) {
	provider := &fakeBarProvider{
		series: map[string]domain.BarSeries{
			"IPO": quietThenSpikeSeries("IPO", 10, time.Now()),
		},
	}
	uc := newTestScanner(provider)

	result, err := uc.Scan(context.Background(), []string{"IPO"})
	require.NoError(t, err)
	assert.Zero(t, result.Total())
}

func TestScanDeterministicAcrossRuns(t *testing.T) {
	lastBar := time.Now().AddDate(0, 0, -2)
	series := map[string]domain.BarSeries{}
	symbols := []string{"AAA", "BBB", "CCC", "DDD", "EEE"}
	for _, s := range symbols {
		series[s] = quietThenSpikeSeries(s, 30, lastBar)
	}
	uc := newTestScanner(&fakeBarProvider{series: series})

	first, err := uc.Scan(context.Background(), symbols)
	require.NoError(t, err)
	second, err := uc.Scan(context.Background(), symbols)
	require.NoError(t, err)

	assert.Equal(t, first.FiredBullish, second.FiredBullish)
	assert.Equal(t, first.FiredBearish, second.FiredBearish)
	assert.Equal(t, first.Ready, second.Ready)
	assert.Equal(t, first.InCompression, second.InCompression)

	// All five share identical data, so momentum ties break on symbol.
	require.Len(t, first.FiredBullish, 5)
	for i, s := range symbols {
		assert.Equal(t, s, first.FiredBullish[i].Symbol)
	}
}

func TestScanCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := newTestScanner(&fakeBarProvider{
		series: map[string]domain.BarSeries{"AAA": quietThenSpikeSeries("AAA", 30, time.Now())},
	})

	_, err := uc.Scan(ctx, []string{"AAA"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortResultOrdering(t *testing.T) {
	r := &domain.ScanResult{
		FiredBullish: []domain.RankedSignal{
			{Verdict: domain.Verdict{Symbol: "LOW", Momentum: 2}},
			{Verdict: domain.Verdict{Symbol: "TIE2", Momentum: 9}},
			{Verdict: domain.Verdict{Symbol: "TIE1", Momentum: 9}},
		},
		FiredBearish: []domain.Verdict{
			{Symbol: "A", Momentum: -1},
			{Symbol: "B", Momentum: -7},
		},
		Ready: []domain.Verdict{
			{Symbol: "SHORT", BarsInCompression: 6},
			{Symbol: "LONG", BarsInCompression: 14},
		},
		InCompression: []domain.Verdict{
			{Symbol: "N", Momentum: -2},
			{Symbol: "P", Momentum: 3},
		},
	}

	sortResult(r)

	assert.Equal(t, "TIE1", r.FiredBullish[0].Symbol)
	assert.Equal(t, "TIE2", r.FiredBullish[1].Symbol)
	assert.Equal(t, "LOW", r.FiredBullish[2].Symbol)

	assert.Equal(t, "B", r.FiredBearish[0].Symbol, "most negative momentum first")
	assert.Equal(t, "LONG", r.Ready[0].Symbol, "longest compression first")
	assert.Equal(t, "P", r.InCompression[0].Symbol, "highest momentum first")
}
