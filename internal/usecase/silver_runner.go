package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinLake/internal/domain/models"
	"CoinLake/internal/domain/repository"
	"CoinLake/internal/reconcile"
	applogger "CoinLake/pkg/logger"
)

// SilverRunner rebuilds the reconciled history table from the union of all
// raw snapshots ever ingested. The rebuild is idempotent: re-running over
// the same raw set produces an identical table.
type SilverRunner struct {
	source     repository.SnapshotSource
	history    repository.HistoryTable
	reconciler *reconcile.Reconciler
	metrics    repository.Metrics
	l          *applogger.Logger
}

func NewSilverRunner(
	source repository.SnapshotSource,
	history repository.HistoryTable,
	reconciler *reconcile.Reconciler,
	m repository.Metrics,
	l *applogger.Logger,
) *SilverRunner {
	return &SilverRunner{source: source, history: history, reconciler: reconciler, metrics: m, l: l}
}

// Run loads every raw batch, reconciles, and persists the history table.
// The table is written only after reconciliation fully succeeded.
func (r *SilverRunner) Run(ctx context.Context) ([]models.HistoryRow, error) {
	start := time.Now()
	defer func() {
		r.metrics.RecordStageDuration("silver", time.Since(start).Seconds())
	}()

	paths, err := r.source.ListBatches(ctx)
	if err != nil {
		r.metrics.RecordError("silver_list")
		return nil, fmt.Errorf("silver: %w", err)
	}

	batches := make([]*models.SnapshotBatch, 0, len(paths))
	for _, p := range paths {
		batch, err := r.source.LoadBatch(ctx, p)
		if err != nil {
			// One unreadable blob must not sink the whole rebuild.
			r.metrics.RecordError("silver_load")
			r.l.Warn("skipping unreadable raw batch",
				applogger.String("path", p),
				applogger.Error(err),
			)
			continue
		}
		batches = append(batches, batch)
	}

	res, err := r.reconciler.Reconcile(batches)
	if err != nil {
		r.metrics.RecordError("silver_reconcile")
		return nil, fmt.Errorf("silver: %w", err)
	}
	for reason, n := range res.Dropped {
		for i := 0; i < n; i++ {
			r.metrics.RecordDropped(reason)
		}
	}

	if err := r.history.Save(ctx, res.Rows); err != nil {
		r.metrics.RecordError("silver_save")
		return nil, fmt.Errorf("silver: %w", err)
	}
	r.metrics.RecordReconciled(len(res.Rows))

	if gaps := reconcile.FindGaps(res.Rows); len(gaps) > 0 {
		r.l.Warn("history has date gaps", applogger.Int("gaps", len(gaps)))
	}
	r.l.Info("silver run complete",
		applogger.Int("batches", len(batches)),
		applogger.Int("input_records", res.Input),
		applogger.Int("rows", len(res.Rows)),
		applogger.Int("dropped", res.DroppedTotal()),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return res.Rows, nil
}
