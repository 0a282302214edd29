package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsStartedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_runs_started_total",
			Help: "Total number of scrape runs started against the vendor",
		},
		[]string{"mode"},
	)

	RunPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_run_polls_total",
			Help: "Total number of run status checks, by observed status",
		},
		[]string{"status"},
	)

	RunFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_run_failures_total",
			Help: "Total number of failed search operations, by error code",
		},
		[]string{"code"},
	)

	RowsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_rows_emitted_total",
			Help: "Total number of normalized rows returned, by row kind",
		},
		[]string{"kind"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "research_upstream_request_duration_seconds",
			Help:    "Duration of scraping vendor API requests in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"endpoint", "status"},
	)
)

// ObserveUpstream records one vendor API call
func ObserveUpstream(endpoint, status string, d time.Duration) {
	UpstreamDuration.WithLabelValues(endpoint, status).Observe(d.Seconds())
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
