package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"squeeze-scanner/internal/domain"
)

// PostgresSignalRepository persists bullish fire signals keyed by ticker, so
// re-scanning the same week refreshes a row instead of duplicating it.
type PostgresSignalRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSignalRepository(pool *pgxpool.Pool) *PostgresSignalRepository {
	return &PostgresSignalRepository{pool: pool}
}

func (r *PostgresSignalRepository) UpsertSignals(ctx context.Context, signals []domain.RankedSignal) error {
	for _, sig := range signals {
		status, ok := sig.Status()
		if !ok {
			continue
		}
		_, err := r.pool.Exec(ctx, `
			insert into squeeze_signals(
				ticker, sector, status, score, momentum, momentum_accel,
				bars_in_squeeze, price, change_pct, avg_volume, fired_at, updated_at
			) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, now())
			on conflict (ticker) do update set
				sector = excluded.sector,
				status = excluded.status,
				score = excluded.score,
				momentum = excluded.momentum,
				momentum_accel = excluded.momentum_accel,
				bars_in_squeeze = excluded.bars_in_squeeze,
				price = excluded.price,
				change_pct = excluded.change_pct,
				avg_volume = excluded.avg_volume,
				fired_at = excluded.fired_at,
				updated_at = now()
		`,
			sig.Symbol,
			sig.Sector,
			string(status),
			domain.SanitizeNumber(sig.Score),
			domain.SanitizeNumber(sig.Momentum),
			domain.SanitizeNumber(sig.MomentumAccel),
			sig.BarsInCompression,
			domain.SanitizeNumber(sig.CurrentPrice),
			domain.SanitizeNumber(sig.PeriodChangePct),
			domain.SanitizeNumber(sig.AvgVolume),
			sig.LastBarTime,
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", sig.Symbol, err)
		}
	}
	return nil
}

// RecordScanRun appends one bookkeeping row per completed scan.
func (r *PostgresSignalRepository) RecordScanRun(ctx context.Context, result *domain.ScanResult) error {
	_, err := r.pool.Exec(ctx, `
		insert into scan_runs(scanned_at, timeframe, fired_bullish, fired_bearish, ready, in_compression)
		values ($1,$2,$3,$4,$5,$6)
	`,
		result.ScannedAt,
		result.Timeframe,
		len(result.FiredBullish),
		len(result.FiredBearish),
		len(result.Ready),
		len(result.InCompression),
	)
	return err
}

var _ domain.SignalStore = (*PostgresSignalRepository)(nil)
