package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	EventsLoaded     prometheus.Counter
	LoadErrors       *prometheus.CounterVec
	UniqueSignatures prometheus.Gauge
	RunDuration      prometheus.Histogram

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers all collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them through promhttp.Handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "secevents_runs_total",
			Help: "Total number of analysis runs",
		}, []string{"result"}),

		EventsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "secevents_events_loaded_total",
			Help: "Total number of events loaded across runs",
		}),

		LoadErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "secevents_load_errors_total",
			Help: "Total number of failed loads by error kind",
		}, []string{"kind"}),

		UniqueSignatures: factory.NewGauge(prometheus.GaugeOpts{
			Name: "secevents_unique_signatures",
			Help: "Unique signatures seen by the last successful run",
		}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "secevents_run_duration_seconds",
			Help:    "Duration of analysis runs",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}
