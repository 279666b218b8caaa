package repository

import (
	"context"

	"CoinLake/internal/domain/models"
)

// SnapshotSource lists and loads raw bronze batches.
type SnapshotSource interface {
	// ListBatches returns the paths of every raw batch ever ingested.
	ListBatches(ctx context.Context) ([]string, error)
	// LoadBatch decodes one raw batch. Records with unknown extra fields
	// or missing optional fields must decode without error.
	LoadBatch(ctx context.Context, path string) (*models.SnapshotBatch, error)
}

// HistoryTable persists the reconciled history table.
type HistoryTable interface {
	// Load returns the table rows, or (nil, nil) when no table exists yet.
	Load(ctx context.Context) ([]models.HistoryRow, error)
	// Save replaces the whole table. Callers only invoke this after a
	// fully successful reconciliation run.
	Save(ctx context.Context, rows []models.HistoryRow) error
}

// AggregateTable persists the aggregated indicator table.
type AggregateTable interface {
	Load(ctx context.Context) ([]models.IndicatorRow, error)
	Save(ctx context.Context, rows []models.IndicatorRow) error
}

// Notifier dispatches one alert to an external channel. Implementations
// carry no retry logic; a failed send is reported and forgotten.
type Notifier interface {
	Send(ctx context.Context, alert models.Alert) error
	Close() error
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordIngested(asset string)
	RecordDropped(reason string)
	RecordReconciled(n int)
	RecordAggregated(n int)
	RecordSignal(signal, outcome string)
	RecordError(kind string)
	RecordStageDuration(stage string, seconds float64)
}
