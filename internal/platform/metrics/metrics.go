package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	ReconcileRuns      prometheus.Counter
	ReconcileDuration  prometheus.Histogram
	RemoteFetchErrors  prometheus.Counter
	OverlaySize        prometheus.Gauge
	PaymentsFinalized  prometheus.Counter
	IssuancesRecorded  *prometheus.CounterVec
	SeriesBuildSeconds prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ReconcileRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "regdesk_reconcile_runs_total",
			Help: "Total number of reconciliation passes over the remote listing",
		}),
		ReconcileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "regdesk_reconcile_duration_seconds",
			Help:    "Latency of a full refresh (remote fetch plus merge)",
			Buckets: prometheus.DefBuckets,
		}),
		RemoteFetchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "regdesk_remote_fetch_errors_total",
			Help: "Failed fetches of the remote participant listing",
		}),
		OverlaySize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "regdesk_overlay_entries",
			Help: "Locally finalized payments awaiting server confirmation",
		}),
		PaymentsFinalized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "regdesk_payments_finalized_total",
			Help: "Payments finalized at the desk",
		}),
		IssuancesRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_issuances_recorded_total",
			Help: "Document handovers recorded, by document kind",
		}, []string{"kind"}),
		SeriesBuildSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "regdesk_series_build_seconds",
			Help:    "Latency of building the registration series",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

// ObserveReconcile records one reconciliation pass with its duration.
func (m *Metrics) ObserveReconcile(d time.Duration) {
	m.ReconcileRuns.Inc()
	m.ReconcileDuration.Observe(d.Seconds())
}
