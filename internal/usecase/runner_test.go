package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"CoinLake/internal/domain/models"
	"CoinLake/internal/emitter"
	"CoinLake/internal/indicator"
	"CoinLake/internal/reconcile"
	applogger "CoinLake/pkg/logger"
)

func fp(v float64) *float64 { return &v }

type fakeSource struct {
	batches map[string]*models.SnapshotBatch
	broken  map[string]bool
}

func (f *fakeSource) ListBatches(context.Context) ([]string, error) {
	out := make([]string, 0, len(f.batches)+len(f.broken))
	for p := range f.batches {
		out = append(out, p)
	}
	for p := range f.broken {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeSource) LoadBatch(_ context.Context, path string) (*models.SnapshotBatch, error) {
	if f.broken[path] {
		return nil, errors.New("corrupt blob")
	}
	return f.batches[path], nil
}

type fakeHistoryTable struct {
	rows  []models.HistoryRow
	saves int
}

func (f *fakeHistoryTable) Load(context.Context) ([]models.HistoryRow, error) { return f.rows, nil }
func (f *fakeHistoryTable) Save(_ context.Context, rows []models.HistoryRow) error {
	f.rows = rows
	f.saves++
	return nil
}

type fakeAggregateTable struct {
	rows []models.IndicatorRow
	seq  *[]string
}

func (f *fakeAggregateTable) Load(context.Context) ([]models.IndicatorRow, error) {
	return f.rows, nil
}

func (f *fakeAggregateTable) Save(_ context.Context, rows []models.IndicatorRow) error {
	f.rows = rows
	if f.seq != nil {
		*f.seq = append(*f.seq, "save")
	}
	return nil
}

type seqNotifier struct {
	seq  *[]string
	fail bool
}

func (n *seqNotifier) Send(context.Context, models.Alert) error {
	if n.seq != nil {
		*n.seq = append(*n.seq, "send")
	}
	if n.fail {
		return errors.New("channel down")
	}
	return nil
}

func (n *seqNotifier) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordIngested(string)               {}
func (nopMetrics) RecordDropped(string)                {}
func (nopMetrics) RecordReconciled(int)                {}
func (nopMetrics) RecordAggregated(int)                {}
func (nopMetrics) RecordSignal(string, string)         {}
func (nopMetrics) RecordError(string)                  {}
func (nopMetrics) RecordStageDuration(string, float64) {}

func marketBatch(stamp string, prices map[string]float64) *models.SnapshotBatch {
	ts, _ := time.Parse(time.RFC3339, stamp)
	b := &models.SnapshotBatch{FetchedAt: ts, Source: "coingecko"}
	for id, p := range prices {
		b.Records = append(b.Records, models.Snapshot{
			ID: id, CurrentPrice: fp(p), LastUpdated: stamp,
		})
	}
	return b
}

func testParams() indicator.Params {
	return indicator.Params{
		MAWindow:       3,
		MomentumWindow: 2,
		Thresholds:     indicator.Thresholds{Dip: 0.05, Rally: 0.05, Oversold: 30, Overbought: 70},
	}
}

func TestSilverRunnerSkipsUnreadableBatches(t *testing.T) {
	source := &fakeSource{
		batches: map[string]*models.SnapshotBatch{
			"raw/raw_prices_20241010_080000.json": marketBatch("2024-10-10T08:00:00Z", map[string]float64{"bitcoin": 100}),
		},
		broken: map[string]bool{"raw/raw_prices_20241011_080000.json": true},
	}
	table := &fakeHistoryTable{}
	r := NewSilverRunner(source, table, reconcile.New(), nopMetrics{}, applogger.Nop())

	rows, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].AssetID != "bitcoin" {
		t.Fatalf("expected the readable batch to survive, got %+v", rows)
	}
	if table.saves != 1 {
		t.Fatalf("expected one table write, got %d", table.saves)
	}
}

func TestSilverRunnerNoWriteOnEmpty(t *testing.T) {
	source := &fakeSource{}
	table := &fakeHistoryTable{}
	r := NewSilverRunner(source, table, reconcile.New(), nopMetrics{}, applogger.Nop())

	if _, err := r.Run(context.Background()); !errors.Is(err, reconcile.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if table.saves != 0 {
		t.Fatalf("table written despite failed reconciliation")
	}
}

func decliningHistory(asset string, n int) []models.HistoryRow {
	rows := make([]models.HistoryRow, n)
	date := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		rows[i] = models.HistoryRow{
			AssetID: asset,
			Date:    date.AddDate(0, 0, i).Format("2006-01-02"),
			Price:   100 - float64(i)*5,
		}
	}
	return rows
}

func TestGoldRunnerWritesBeforeNotifying(t *testing.T) {
	var seq []string
	table := &fakeAggregateTable{seq: &seq}
	notifier := &seqNotifier{seq: &seq}
	em := emitter.New(notifier, nopMetrics{}, applogger.Nop())
	r := NewGoldRunner(table, indicator.NewEngine(testParams()), em, nil, nopMetrics{}, applogger.Nop())

	rows, err := r.Run(context.Background(), decliningHistory("bitcoin", 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if len(seq) < 2 || seq[0] != "save" || seq[1] != "send" {
		t.Fatalf("expected save before send, got %v", seq)
	}
}

func TestGoldRunnerDispatchFailureNotFatal(t *testing.T) {
	var seq []string
	table := &fakeAggregateTable{seq: &seq}
	notifier := &seqNotifier{seq: &seq, fail: true}
	em := emitter.New(notifier, nopMetrics{}, applogger.Nop())
	r := NewGoldRunner(table, indicator.NewEngine(testParams()), em, nil, nopMetrics{}, applogger.Nop())

	if _, err := r.Run(context.Background(), decliningHistory("bitcoin", 5)); err != nil {
		t.Fatalf("dispatch failure must not fail the run: %v", err)
	}
	if len(table.rows) != 5 {
		t.Fatalf("aggregate table not persisted, got %d rows", len(table.rows))
	}
}

func TestGoldRunnerEmptyHistoryFatal(t *testing.T) {
	table := &fakeAggregateTable{}
	em := emitter.New(&seqNotifier{}, nopMetrics{}, applogger.Nop())
	r := NewGoldRunner(table, indicator.NewEngine(testParams()), em, nil, nopMetrics{}, applogger.Nop())

	if _, err := r.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error on empty history")
	}
}
