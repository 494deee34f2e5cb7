package repository

import (
	"encoding/csv"
	"fmt"
	"io"

	"squeeze-scanner/internal/domain"
)

// WriteFiredCSV writes the bullish fire bucket as CSV, preserving its sort
// order. The header row is always emitted, even for an empty scan.
func WriteFiredCSV(w io.Writer, result *domain.ScanResult) error {
	cw := csv.NewWriter(w)

	header := []string{"ticker", "sector", "score", "momentum", "momentum_accel", "bars_in_squeeze", "price", "change_pct", "avg_volume"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, sig := range result.FiredBullish {
		row := []string{
			sig.Symbol,
			sig.Sector,
			fmt.Sprintf("%.1f", sig.Score),
			fmt.Sprintf("%.4f", sig.Momentum),
			fmt.Sprintf("%.4f", sig.MomentumAccel),
			fmt.Sprintf("%d", sig.BarsInCompression),
			fmt.Sprintf("%.2f", sig.CurrentPrice),
			fmt.Sprintf("%.2f", sig.PeriodChangePct),
			fmt.Sprintf("%.0f", sig.AvgVolume),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
