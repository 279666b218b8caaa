package emitter

import (
	"context"
	"time"

	"CoinLake/internal/domain/models"
	"CoinLake/internal/domain/repository"
	applogger "CoinLake/pkg/logger"
)

// Emitter maps the latest aggregated row per asset to outbound alerts.
// It runs strictly after the aggregate table has been persisted: a failed
// dispatch is counted and logged, never retried here, and never affects
// the table.
type Emitter struct {
	notifier repository.Notifier
	metrics  repository.Metrics
	l        *applogger.Logger
	now      func() time.Time
}

func New(notifier repository.Notifier, m repository.Metrics, l *applogger.Logger) *Emitter {
	return &Emitter{notifier: notifier, metrics: m, l: l, now: time.Now}
}

// Emit dispatches one alert per actionable latest row. Returns the number
// of alerts sent and the number of dispatch failures.
func (e *Emitter) Emit(ctx context.Context, latest []models.IndicatorRow) (sent, failed int) {
	for _, row := range latest {
		if !row.Signal.Actionable() {
			continue
		}
		alert := models.Alert{
			AssetID:    row.AssetID,
			Date:       row.Date,
			Price:      row.Price,
			Signal:     row.Signal,
			SMA:        row.SMA,
			Volatility: row.Volatility,
			Momentum:   row.Momentum,
			EmittedAt:  e.now().UTC(),
		}
		if err := e.notifier.Send(ctx, alert); err != nil {
			failed++
			e.metrics.RecordSignal(string(row.Signal), "error")
			e.l.Error("alert dispatch failed",
				applogger.String("asset", row.AssetID),
				applogger.String("signal", string(row.Signal)),
				applogger.Error(err),
			)
			continue
		}
		sent++
		e.metrics.RecordSignal(string(row.Signal), "ok")
	}
	return sent, failed
}
