package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetches      *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	snapshots    prometheus.Counter
	snapLatency  prometheus.Histogram
	riskIndex    prometheus.Gauge
	alerts       prometheus.Gauge
	fallbacks    *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
}

// New creates a recorder on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder on reg. Tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "risklens_provider_fetches_total",
				Help: "Provider calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "risklens_provider_fetch_duration_seconds",
				Help:    "Duration of provider calls in seconds, pacing included",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"provider"},
		),
		snapshots: f.NewCounter(prometheus.CounterOpts{
			Name: "risklens_snapshots_total",
			Help: "Aggregate snapshots built",
		}),
		snapLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "risklens_snapshot_duration_seconds",
			Help:    "Time to build one aggregate snapshot",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		riskIndex: f.NewGauge(prometheus.GaugeOpts{
			Name: "risklens_risk_index",
			Help: "Risk index of the latest snapshot",
		}),
		alerts: f.NewGauge(prometheus.GaugeOpts{
			Name: "risklens_alerts",
			Help: "Alerts in the latest snapshot",
		}),
		fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "risklens_fallbacks_total",
				Help: "Fallbacks to bundled or default data by reason",
			},
			[]string{"reason"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "risklens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordFetch records one provider call.
func (r *Recorder) RecordFetch(provider, outcome string, d time.Duration) {
	r.fetches.WithLabelValues(provider, outcome).Inc()
	r.fetchLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordSnapshot records a completed snapshot.
func (r *Recorder) RecordSnapshot(riskIndex, alerts int, d time.Duration) {
	r.snapshots.Inc()
	r.snapLatency.Observe(d.Seconds())
	r.riskIndex.Set(float64(riskIndex))
	r.alerts.Set(float64(alerts))
}

// RecordFallback records use of sample data or default values.
func (r *Recorder) RecordFallback(reason string) {
	r.fallbacks.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
