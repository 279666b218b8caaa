package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CoinLake/internal/domain/models"
	"CoinLake/internal/domain/repository"
	"CoinLake/internal/indicator"
	"CoinLake/internal/reconcile"
	"CoinLake/pkg/cache"
)

const queryCacheTTL = 30 * time.Second

// ErrUnknownAsset is returned when a queried asset has no aggregate rows.
var ErrUnknownAsset = errors.New("unknown asset")

// QueryService answers read-only dashboard queries against the persisted
// tables. Results are cached briefly so a polling UI does not re-read the
// Parquet blobs on every request; the tables only change when a pipeline
// run completes.
type QueryService struct {
	history   repository.HistoryTable
	aggregate repository.AggregateTable
	cache     cache.Service
}

func NewQueryService(history repository.HistoryTable, aggregate repository.AggregateTable, c cache.Service) *QueryService {
	return &QueryService{history: history, aggregate: aggregate, cache: c}
}

// LatestSignals returns the most recent aggregate row per asset.
func (s *QueryService) LatestSignals(ctx context.Context, actionableOnly bool) ([]models.IndicatorRow, error) {
	rows, err := s.loadAggregate(ctx)
	if err != nil {
		return nil, err
	}
	latest := indicator.LatestPerAsset(rows)
	if !actionableOnly {
		return latest, nil
	}
	out := make([]models.IndicatorRow, 0, len(latest))
	for _, r := range latest {
		if r.Signal.Actionable() {
			out = append(out, r)
		}
	}
	return out, nil
}

// AssetHistory returns up to limit trailing aggregate rows for one asset,
// date ascending.
func (s *QueryService) AssetHistory(ctx context.Context, asset string, limit int) ([]models.IndicatorRow, error) {
	rows, err := s.loadAggregate(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.IndicatorRow
	for _, r := range rows {
		if r.AssetID == asset {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// Gaps reports missing-date runs in the reconciled history.
func (s *QueryService) Gaps(ctx context.Context) ([]reconcile.Gap, error) {
	key := cache.GenerateKey("query", "gaps")
	if s.cache != nil {
		var v interface{}
		if err := s.cache.Get(ctx, key, &v); err == nil {
			if gaps, ok := v.([]reconcile.Gap); ok {
				return gaps, nil
			}
		}
	}

	rows, err := s.history.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	gaps := reconcile.FindGaps(rows)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, gaps, queryCacheTTL)
	}
	return gaps, nil
}

func (s *QueryService) loadAggregate(ctx context.Context) ([]models.IndicatorRow, error) {
	key := cache.GenerateKey("query", "aggregate")
	if s.cache != nil {
		var v interface{}
		if err := s.cache.Get(ctx, key, &v); err == nil {
			if rows, ok := v.([]models.IndicatorRow); ok {
				return rows, nil
			}
		}
	}

	rows, err := s.aggregate.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rows, queryCacheTTL)
	}
	return rows, nil
}
