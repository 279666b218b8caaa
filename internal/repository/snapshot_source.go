package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"CoinLake/internal/domain/models"
	"CoinLake/internal/domain/repository"
	"CoinLake/pkg/storage"
)

// BlobSnapshotSource reads raw bronze batches out of the blob store.
type BlobSnapshotSource struct {
	store  storage.Store
	prefix string
}

func NewBlobSnapshotSource(store storage.Store, prefix string) repository.SnapshotSource {
	return &BlobSnapshotSource{store: store, prefix: prefix}
}

func (s *BlobSnapshotSource) ListBatches(ctx context.Context) ([]string, error) {
	paths, err := s.store.List(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("list raw batches: %w", err)
	}
	return paths, nil
}

func (s *BlobSnapshotSource) LoadBatch(ctx context.Context, path string) (*models.SnapshotBatch, error) {
	b, err := s.store.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read raw batch %s: %w", path, err)
	}
	var batch models.SnapshotBatch
	// encoding/json drops unknown fields, so records from older or newer
	// ingestion schemas decode cleanly.
	if err := json.Unmarshal(b, &batch); err != nil {
		return nil, fmt.Errorf("decode raw batch %s: %w", path, err)
	}
	return &batch, nil
}
