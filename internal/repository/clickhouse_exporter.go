package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"CoinLake/internal/domain/models"
	applogger "CoinLake/pkg/logger"
)

// ClickHouseExporter mirrors the aggregated indicator table into ClickHouse
// so dashboards can query it with plain SQL. The Parquet table in the blob
// store stays the source of truth; export failures are reported, not fatal.
type ClickHouseExporter struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewClickHouseExporter(db *sql.DB, table string, l *applogger.Logger) *ClickHouseExporter {
	return &ClickHouseExporter{db: db, table: table, l: l}
}

// Schema returns the idempotent DDL for the mirror table. ReplacingMergeTree
// collapses re-exported (asset, date) rows to the latest version.
func Schema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            asset_id String,
            date Date,
            price Float64,
            sma Nullable(Float64),
            volatility Nullable(Float64),
            momentum Nullable(Float64),
            signal String,
            exported_at DateTime
        ) ENGINE = ReplacingMergeTree(exported_at) ORDER BY (asset_id, date)`, table),
	}
}

// Export upserts the given rows. Chunked multi-row VALUES inserts keep
// round-trips down.
func (e *ClickHouseExporter) Export(ctx context.Context, rows []models.IndicatorRow) error {
	if len(rows) == 0 {
		return nil
	}
	start := time.Now()
	exportedAt := start.UTC()

	const chunkSize = 2000
	for lo := 0; lo < len(rows); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(rows) {
			hi = len(rows)
		}

		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*8)
		for _, r := range rows[lo:hi] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				r.AssetID,
				r.Date,
				r.Price,
				r.SMA,
				r.Volatility,
				r.Momentum,
				string(r.Signal),
				exportedAt,
			)
		}
		q := fmt.Sprintf("INSERT INTO %s (asset_id, date, price, sma, volatility, momentum, signal, exported_at) VALUES %s",
			e.table, strings.Join(values, ","))
		if _, err := e.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("export indicators: %w", err)
		}
	}

	if e.l != nil {
		e.l.Info("clickhouse export ok",
			applogger.String("table", e.table),
			applogger.Int("rows", len(rows)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}
