package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinLake/internal/domain/models"
	"CoinLake/internal/domain/repository"
	"CoinLake/internal/emitter"
	"CoinLake/internal/indicator"
	internalrepo "CoinLake/internal/repository"
	applogger "CoinLake/pkg/logger"
)

// GoldRunner merges reconciled history against the prior aggregate table,
// recomputes indicators, persists the result, and only then emits alerts.
// Write-then-notify: a dispatch failure can never invalidate the table.
type GoldRunner struct {
	aggregate repository.AggregateTable
	engine    *indicator.Engine
	emitter   *emitter.Emitter
	exporter  *internalrepo.ClickHouseExporter // optional warehouse mirror
	metrics   repository.Metrics
	l         *applogger.Logger
}

func NewGoldRunner(
	aggregate repository.AggregateTable,
	engine *indicator.Engine,
	em *emitter.Emitter,
	exporter *internalrepo.ClickHouseExporter,
	m repository.Metrics,
	l *applogger.Logger,
) *GoldRunner {
	return &GoldRunner{aggregate: aggregate, engine: engine, emitter: em, exporter: exporter, metrics: m, l: l}
}

// Run computes the updated aggregate table from the given history rows.
func (r *GoldRunner) Run(ctx context.Context, history []models.HistoryRow) ([]models.IndicatorRow, error) {
	start := time.Now()
	defer func() {
		r.metrics.RecordStageDuration("gold", time.Since(start).Seconds())
	}()

	if len(history) == 0 {
		r.metrics.RecordError("gold_empty_history")
		return nil, fmt.Errorf("gold: empty reconciled history")
	}

	prior, err := r.aggregate.Load(ctx)
	if err != nil {
		r.metrics.RecordError("gold_load")
		return nil, fmt.Errorf("gold: %w", err)
	}

	rows := r.engine.Compute(history, prior)

	if err := r.aggregate.Save(ctx, rows); err != nil {
		r.metrics.RecordError("gold_save")
		return nil, fmt.Errorf("gold: %w", err)
	}
	r.metrics.RecordAggregated(len(rows))

	// Everything past the save is best-effort.
	if r.exporter != nil {
		if err := r.exporter.Export(ctx, rows); err != nil {
			r.metrics.RecordError("gold_export")
			r.l.Error("warehouse export failed", applogger.Error(err))
		}
	}

	latest := indicator.LatestPerAsset(rows)
	sent, failed := r.emitter.Emit(ctx, latest)

	r.l.Info("gold run complete",
		applogger.Int("history_rows", len(history)),
		applogger.Int("prior_rows", len(prior)),
		applogger.Int("rows", len(rows)),
		applogger.Int("alerts_sent", sent),
		applogger.Int("alerts_failed", failed),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return rows, nil
}
