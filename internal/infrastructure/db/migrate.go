package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the tables this app needs. Schema is small enough that an
// external migration tool would be overkill.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists squeeze_signals (
			ticker text primary key,
			sector text not null default '',
			status text not null,
			score double precision not null default 0,
			momentum double precision not null default 0,
			momentum_accel double precision not null default 0,
			bars_in_squeeze int not null default 0,
			price double precision not null default 0,
			change_pct double precision not null default 0,
			avg_volume double precision not null default 0,
			fired_at timestamptz not null,
			updated_at timestamptz not null default now()
		);`,
		`create index if not exists squeeze_signals_status_idx on squeeze_signals(status);`,
		`create index if not exists squeeze_signals_score_idx on squeeze_signals(score desc);`,
		`create table if not exists scan_runs (
			id bigserial primary key,
			scanned_at timestamptz not null,
			timeframe text not null,
			fired_bullish int not null default 0,
			fired_bearish int not null default 0,
			ready int not null default 0,
			in_compression int not null default 0
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
