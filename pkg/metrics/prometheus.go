package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes pipeline counters via Prometheus.
type Recorder struct {
	recordsIngested *prometheus.CounterVec
	recordsDropped  *prometheus.CounterVec
	rowsReconciled  prometheus.Counter
	rowsAggregated  prometheus.Counter
	signalsEmitted  *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		recordsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinlake_records_ingested_total",
				Help: "Raw snapshot records fetched per asset",
			},
			[]string{"asset"},
		),
		recordsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinlake_records_dropped_total",
				Help: "Raw records dropped during reconciliation",
			},
			[]string{"reason"},
		),
		rowsReconciled: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "coinlake_rows_reconciled_total",
				Help: "Rows written to the reconciled history table",
			},
		),
		rowsAggregated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "coinlake_rows_aggregated_total",
				Help: "Rows written to the aggregated indicator table",
			},
		),
		signalsEmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinlake_signals_emitted_total",
				Help: "Alerts dispatched per signal kind and outcome",
			},
			[]string{"signal", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinlake_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		stageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coinlake_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordIngested counts a fetched snapshot record for an asset.
func (r *Recorder) RecordIngested(asset string) {
	r.recordsIngested.WithLabelValues(asset).Inc()
}

// RecordDropped counts a record dropped during reconciliation.
func (r *Recorder) RecordDropped(reason string) {
	r.recordsDropped.WithLabelValues(reason).Inc()
}

// RecordReconciled counts rows written to the history table.
func (r *Recorder) RecordReconciled(n int) {
	r.rowsReconciled.Add(float64(n))
}

// RecordAggregated counts rows written to the indicator table.
func (r *Recorder) RecordAggregated(n int) {
	r.rowsAggregated.Add(float64(n))
}

// RecordSignal counts an alert dispatch attempt.
func (r *Recorder) RecordSignal(signal, outcome string) {
	r.signalsEmitted.WithLabelValues(signal, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordStageDuration records a stage run in seconds.
func (r *Recorder) RecordStageDuration(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}
