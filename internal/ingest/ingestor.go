package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"CoinLake/internal/domain/models"
	"CoinLake/internal/domain/repository"
	applogger "CoinLake/pkg/logger"
	"CoinLake/pkg/storage"
)

// MarketFetcher is the slice of the API client the ingestor needs.
type MarketFetcher interface {
	FetchMarkets(ctx context.Context, coins []string) ([]models.Snapshot, error)
}

// Ingestor is the bronze stage: fetch one snapshot batch and persist it as
// an immutable raw blob. Blobs are never rewritten, only superseded by
// later batches under new paths.
type Ingestor struct {
	fetcher MarketFetcher
	store   storage.Store
	prefix  string
	coins   []string
	metrics repository.Metrics
	l       *applogger.Logger
	now     func() time.Time
}

func NewIngestor(fetcher MarketFetcher, store storage.Store, prefix string, coins []string, m repository.Metrics, l *applogger.Logger) *Ingestor {
	return &Ingestor{
		fetcher: fetcher,
		store:   store,
		prefix:  prefix,
		coins:   coins,
		metrics: m,
		l:       l,
		now:     time.Now,
	}
}

// Run fetches the tracked coins and writes one raw batch blob. Returns the
// blob path.
func (i *Ingestor) Run(ctx context.Context) (string, error) {
	fetchedAt := i.now().UTC()
	records, err := i.fetcher.FetchMarkets(ctx, i.coins)
	if err != nil {
		i.metrics.RecordError("ingest_fetch")
		return "", fmt.Errorf("ingest: %w", err)
	}

	batch := models.SnapshotBatch{
		FetchedAt: fetchedAt,
		Source:    "coingecko",
		Records:   records,
	}
	b, err := json.Marshal(&batch)
	if err != nil {
		return "", fmt.Errorf("ingest: encode batch: %w", err)
	}

	path := fmt.Sprintf("%sraw_prices_%s.json", i.prefix, fetchedAt.Format("20060102_150405"))
	if err := i.store.Write(ctx, path, b); err != nil {
		i.metrics.RecordError("ingest_write")
		return "", fmt.Errorf("ingest: %w", err)
	}

	for _, r := range records {
		i.metrics.RecordIngested(r.ID)
	}
	i.l.Info("bronze batch written",
		applogger.String("path", path),
		applogger.Int("records", len(records)),
	)
	return path, nil
}
