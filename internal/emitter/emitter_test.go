package emitter

import (
	"context"
	"errors"
	"testing"
	"time"

	"CoinLake/internal/domain/models"
	applogger "CoinLake/pkg/logger"
)

type fakeNotifier struct {
	alerts []models.Alert
	fail   bool
}

func (f *fakeNotifier) Send(_ context.Context, alert models.Alert) error {
	if f.fail {
		return errors.New("channel down")
	}
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakeNotifier) Close() error { return nil }

type nopMetrics struct {
	signals map[string]int
}

func (m *nopMetrics) RecordIngested(string)             {}
func (m *nopMetrics) RecordDropped(string)              {}
func (m *nopMetrics) RecordReconciled(int)              {}
func (m *nopMetrics) RecordAggregated(int)              {}
func (m *nopMetrics) RecordError(string)                {}
func (m *nopMetrics) RecordStageDuration(string, float64) {}
func (m *nopMetrics) RecordSignal(signal, outcome string) {
	if m.signals == nil {
		m.signals = make(map[string]int)
	}
	m.signals[signal+"/"+outcome]++
}

func fp(v float64) *float64 { return &v }

func latestRows() []models.IndicatorRow {
	return []models.IndicatorRow{
		{AssetID: "bitcoin", Date: "2024-10-10", Price: 55, SMA: fp(70), Signal: models.SignalBuy},
		{AssetID: "ethereum", Date: "2024-10-10", Price: 10, SMA: fp(10), Signal: models.SignalWait},
		{AssetID: "solana", Date: "2024-10-10", Price: 200, SMA: fp(180), Signal: models.SignalSell},
		{AssetID: "dogecoin", Date: "2024-10-10", Price: 0.1, Signal: models.SignalInsufficientData},
	}
}

func TestEmitOnlyActionable(t *testing.T) {
	n := &fakeNotifier{}
	m := &nopMetrics{}
	e := New(n, m, applogger.Nop())

	sent, failed := e.Emit(context.Background(), latestRows())
	if sent != 2 || failed != 0 {
		t.Fatalf("expected 2 sent 0 failed, got %d/%d", sent, failed)
	}
	if len(n.alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(n.alerts))
	}
	if n.alerts[0].AssetID != "bitcoin" || n.alerts[0].Signal != models.SignalBuy {
		t.Fatalf("unexpected first alert: %+v", n.alerts[0])
	}
	if n.alerts[1].AssetID != "solana" || n.alerts[1].Signal != models.SignalSell {
		t.Fatalf("unexpected second alert: %+v", n.alerts[1])
	}
	if m.signals["BUY/ok"] != 1 || m.signals["SELL/ok"] != 1 {
		t.Fatalf("unexpected signal metrics: %v", m.signals)
	}
}

func TestEmitAlertCarriesIndicators(t *testing.T) {
	n := &fakeNotifier{}
	e := New(n, &nopMetrics{}, applogger.Nop())
	stamp := time.Date(2024, 10, 10, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return stamp }

	rows := []models.IndicatorRow{{
		AssetID: "bitcoin", Date: "2024-10-10", Price: 55,
		SMA: fp(70), Volatility: fp(3.2), Momentum: fp(25),
		Signal: models.SignalBuy,
	}}
	e.Emit(context.Background(), rows)

	a := n.alerts[0]
	if a.SMA == nil || *a.SMA != 70 || a.Momentum == nil || *a.Momentum != 25 {
		t.Fatalf("alert missing indicator context: %+v", a)
	}
	if !a.EmittedAt.Equal(stamp) {
		t.Fatalf("unexpected emit stamp %v", a.EmittedAt)
	}
}

func TestEmitFailuresCountedNotFatal(t *testing.T) {
	n := &fakeNotifier{fail: true}
	m := &nopMetrics{}
	e := New(n, m, applogger.Nop())

	sent, failed := e.Emit(context.Background(), latestRows())
	if sent != 0 || failed != 2 {
		t.Fatalf("expected 0 sent 2 failed, got %d/%d", sent, failed)
	}
	if m.signals["BUY/error"] != 1 || m.signals["SELL/error"] != 1 {
		t.Fatalf("unexpected signal metrics: %v", m.signals)
	}
}
