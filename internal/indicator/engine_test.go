package indicator

import (
	"reflect"
	"testing"

	"CoinLake/internal/domain/models"
)

func hrow(asset, date string, price float64) models.HistoryRow {
	return models.HistoryRow{AssetID: asset, Date: date, Price: price}
}

func declineHistory() []models.HistoryRow {
	dates := []string{
		"2024-10-01", "2024-10-02", "2024-10-03", "2024-10-04", "2024-10-05",
		"2024-10-06", "2024-10-07", "2024-10-08", "2024-10-09", "2024-10-10",
	}
	prices := []float64{100, 95, 90, 85, 80, 75, 70, 65, 60, 55}
	rows := make([]models.HistoryRow, len(dates))
	for i := range dates {
		rows[i] = hrow("bitcoin", dates[i], prices[i])
	}
	return rows
}

func TestComputeDecliningSeries(t *testing.T) {
	e := NewEngine(Params{MAWindow: 7, MomentumWindow: 14, Thresholds: testThresholds})
	out := e.Compute(declineHistory(), nil)

	if len(out) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(out))
	}
	for i := 0; i < 6; i++ {
		if out[i].SMA != nil {
			t.Fatalf("row %d: SMA defined before window fills", i)
		}
		if out[i].Signal != models.SignalInsufficientData {
			t.Fatalf("row %d: expected INSUFFICIENT_DATA, got %s", i, out[i].Signal)
		}
	}
	if out[6].SMA == nil || *out[6].SMA != 85 {
		t.Fatalf("row 6: expected SMA 85, got %v", out[6].SMA)
	}
	if out[6].Volatility == nil {
		t.Fatalf("row 6: expected volatility alongside SMA")
	}
	// 14 deltas need 15 rows; never defined here.
	for i, r := range out {
		if r.Momentum != nil {
			t.Fatalf("row %d: momentum defined with only 10 rows", i)
		}
	}
	// A steady 5%-per-step decline sits below the dip band once the
	// average is defined.
	for i := 6; i < 10; i++ {
		if out[i].Signal != models.SignalBuy {
			t.Fatalf("row %d: expected BUY, got %s", i, out[i].Signal)
		}
	}
}

func TestComputeFirstRunMatchesRerun(t *testing.T) {
	e := NewEngine(Params{MAWindow: 7, MomentumWindow: 14, Thresholds: testThresholds})
	hist := declineHistory()
	first := e.Compute(hist, nil)
	second := e.Compute(hist, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recomputation over identical input diverged")
	}
}

func TestComputeNoNewDatesKeepsPriorVerbatim(t *testing.T) {
	e := NewEngine(Params{MAWindow: 3, MomentumWindow: 2, Thresholds: testThresholds})
	hist := declineHistory()[:5]
	prior := e.Compute(hist, nil)

	out := e.Compute(hist, prior)
	if !reflect.DeepEqual(out, prior) {
		t.Fatalf("prior rows changed without new history")
	}
}

func TestComputeIncrementalMerge(t *testing.T) {
	e := NewEngine(Params{MAWindow: 3, MomentumWindow: 2, Thresholds: testThresholds})
	full := declineHistory()
	hist5 := full[:5]
	hist6 := full[:6]

	prior := e.Compute(hist5, nil)
	if len(prior) != 5 {
		t.Fatalf("expected 5 prior rows, got %d", len(prior))
	}

	// Lookback is 3, so the new 2024-10-06 date forces recomputation from
	// 2024-10-04 on. Tamper rows on both sides of the cutoff to observe
	// which ones the merge actually touches.
	tampered := make([]models.IndicatorRow, len(prior))
	copy(tampered, prior)
	tampered[1].Price = 999 // 2024-10-02, before cutoff
	tampered[4].Price = 888 // 2024-10-05, inside cutoff

	out := e.Compute(hist6, tampered)
	if len(out) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(out))
	}
	if out[1].Price != 999 {
		t.Fatalf("row before cutoff was recomputed, price %v", out[1].Price)
	}
	if out[4].Price != prior[4].Price {
		t.Fatalf("row inside cutoff kept tampered value, price %v", out[4].Price)
	}
	// Recomputed overlap rows equal a from-scratch run over the same input.
	fresh := e.Compute(hist6, nil)
	for i := 2; i < 6; i++ {
		if !reflect.DeepEqual(out[i], fresh[i]) {
			t.Fatalf("row %d: merged output differs from full recompute", i)
		}
	}
}

func TestComputeReprocessDays(t *testing.T) {
	e := NewEngine(Params{MAWindow: 3, MomentumWindow: 2, Thresholds: testThresholds, ReprocessDays: 2})
	hist := declineHistory()[:5]
	prior := NewEngine(Params{MAWindow: 3, MomentumWindow: 2, Thresholds: testThresholds}).Compute(hist, nil)

	tampered := make([]models.IndicatorRow, len(prior))
	copy(tampered, prior)
	tampered[4].Price = 888 // 2024-10-05, inside the trailing 2 days

	out := e.Compute(hist, tampered)
	if out[4].Price != prior[4].Price {
		t.Fatalf("trailing row not reprocessed, price %v", out[4].Price)
	}
	if out[1].Price != prior[1].Price {
		t.Fatalf("row outside reprocess window changed")
	}
}

func TestComputeKeepsVanishedAssets(t *testing.T) {
	e := NewEngine(Params{MAWindow: 3, MomentumWindow: 2, Thresholds: testThresholds})
	prior := []models.IndicatorRow{
		{AssetID: "delisted", Date: "2024-09-01", Price: 1, Signal: models.SignalInsufficientData},
	}
	hist := []models.HistoryRow{hrow("bitcoin", "2024-10-01", 100)}

	out := e.Compute(hist, prior)
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].AssetID != "bitcoin" || out[1].AssetID != "delisted" {
		t.Fatalf("unexpected asset order: %s, %s", out[0].AssetID, out[1].AssetID)
	}
}

func TestLatestPerAsset(t *testing.T) {
	rows := []models.IndicatorRow{
		{AssetID: "ethereum", Date: "2024-10-01", Price: 10},
		{AssetID: "bitcoin", Date: "2024-10-02", Price: 101},
		{AssetID: "bitcoin", Date: "2024-10-01", Price: 100},
		{AssetID: "ethereum", Date: "2024-10-03", Price: 12},
	}
	latest := LatestPerAsset(rows)
	if len(latest) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(latest))
	}
	if latest[0].AssetID != "bitcoin" || latest[0].Date != "2024-10-02" {
		t.Fatalf("unexpected bitcoin row: %+v", latest[0])
	}
	if latest[1].AssetID != "ethereum" || latest[1].Date != "2024-10-03" {
		t.Fatalf("unexpected ethereum row: %+v", latest[1])
	}
}
