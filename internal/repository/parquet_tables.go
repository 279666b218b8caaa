package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"CoinLake/internal/domain/models"
	"CoinLake/internal/domain/repository"
	"CoinLake/pkg/storage"
)

// ParquetHistoryTable persists the reconciled history as one snappy
// Parquet object in the blob store. The whole table is replaced on save;
// the blob store's overwrite gives last-writer-wins idempotency.
type ParquetHistoryTable struct {
	store storage.Store
	key   string
}

func NewParquetHistoryTable(store storage.Store, key string) repository.HistoryTable {
	return &ParquetHistoryTable{store: store, key: key}
}

func (t *ParquetHistoryTable) Load(ctx context.Context) ([]models.HistoryRow, error) {
	return loadParquet[models.HistoryRow](ctx, t.store, t.key)
}

func (t *ParquetHistoryTable) Save(ctx context.Context, rows []models.HistoryRow) error {
	return saveParquet(ctx, t.store, t.key, rows)
}

// ParquetAggregateTable persists the aggregated indicator table the same way.
type ParquetAggregateTable struct {
	store storage.Store
	key   string
}

func NewParquetAggregateTable(store storage.Store, key string) repository.AggregateTable {
	return &ParquetAggregateTable{store: store, key: key}
}

func (t *ParquetAggregateTable) Load(ctx context.Context) ([]models.IndicatorRow, error) {
	return loadParquet[models.IndicatorRow](ctx, t.store, t.key)
}

func (t *ParquetAggregateTable) Save(ctx context.Context, rows []models.IndicatorRow) error {
	return saveParquet(ctx, t.store, t.key, rows)
}

func loadParquet[T any](ctx context.Context, store storage.Store, key string) ([]T, error) {
	b, err := store.Read(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Absent table is a first run, not an error.
			return nil, nil
		}
		return nil, fmt.Errorf("load table %s: %w", key, err)
	}
	rows, err := parquet.Read[T](bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("decode table %s: %w", key, err)
	}
	return rows, nil
}

func saveParquet[T any](ctx context.Context, store storage.Store, key string, rows []T) error {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[T](&buf, parquet.Compression(&parquet.Snappy))
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			return fmt.Errorf("encode table %s: %w", key, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode table %s: %w", key, err)
	}
	// The table only reaches storage after the stage fully succeeded;
	// Write replaces the previous object in one shot.
	if err := store.Write(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("save table %s: %w", key, err)
	}
	return nil
}
