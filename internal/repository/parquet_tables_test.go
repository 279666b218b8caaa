package repository

import (
	"context"
	"testing"
	"time"

	"CoinLake/internal/domain/models"
	"CoinLake/pkg/storage"
)

func fp(v float64) *float64 { return &v }

func newStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestHistoryTableFirstRun(t *testing.T) {
	table := NewParquetHistoryTable(newStore(t), "silver/market_history.parquet")
	rows, err := table.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rows != nil {
		t.Fatalf("expected nil rows on first run, got %d", len(rows))
	}
}

func TestHistoryTableRoundTrip(t *testing.T) {
	table := NewParquetHistoryTable(newStore(t), "silver/market_history.parquet")
	ctx := context.Background()

	in := []models.HistoryRow{
		{
			AssetID:       "bitcoin",
			Symbol:        "btc",
			Date:          "2024-10-10",
			ObservedAt:    time.Date(2024, 10, 10, 8, 0, 0, 0, time.UTC),
			Price:         100,
			MaxSupply:     fp(21),
			SafeValuation: fp(2100),
		},
		{
			// Sparse row: every optional column stays null.
			AssetID:    "dogecoin",
			Date:       "2024-10-10",
			ObservedAt: time.Date(2024, 10, 10, 8, 0, 0, 0, time.UTC),
			Price:      0.1,
		},
	}
	if err := table.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := table.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].AssetID != "bitcoin" || out[0].MaxSupply == nil || *out[0].MaxSupply != 21 {
		t.Fatalf("bitcoin row mangled: %+v", out[0])
	}
	if out[1].MaxSupply != nil || out[1].SafeValuation != nil {
		t.Fatalf("null columns did not survive: %+v", out[1])
	}
	if !out[0].ObservedAt.Equal(in[0].ObservedAt) {
		t.Fatalf("timestamp mangled: %v", out[0].ObservedAt)
	}
}

func TestAggregateTableRoundTrip(t *testing.T) {
	table := NewParquetAggregateTable(newStore(t), "gold/market_indicators.parquet")
	ctx := context.Background()

	in := []models.IndicatorRow{
		{AssetID: "bitcoin", Date: "2024-10-09", Price: 60, Signal: models.SignalInsufficientData},
		{AssetID: "bitcoin", Date: "2024-10-10", Price: 55, SMA: fp(70), Volatility: fp(3.2), Momentum: fp(25), Signal: models.SignalBuy},
	}
	if err := table.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := table.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].SMA != nil || out[0].Signal != models.SignalInsufficientData {
		t.Fatalf("gated row mangled: %+v", out[0])
	}
	if out[1].Signal != models.SignalBuy || out[1].Momentum == nil || *out[1].Momentum != 25 {
		t.Fatalf("signal row mangled: %+v", out[1])
	}
}
