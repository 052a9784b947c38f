// Package metrics exposes Prometheus collectors for the linkdex service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Extraction tier labels.
const (
	TierStatic   = "static"
	TierHeadless = "headless"
)

// Enrichment path labels.
const (
	PathGenerative = "generative"
	PathFallback   = "fallback"
)

var (
	extractionsTotal           *prometheus.CounterVec
	enrichmentsTotal           *prometheus.CounterVec
	submissionsTotal           *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		extractionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkdex_extractions_total",
				Help: "Total extraction attempts, labeled by tier and outcome.",
			},
			[]string{"tier", "outcome"},
		)

		enrichmentsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkdex_enrichments_total",
				Help: "Total enrichments, labeled by resolution path.",
			},
			[]string{"path"},
		)

		submissionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkdex_submissions_total",
				Help: "Total link submissions, labeled by terminal status.",
			},
			[]string{"status"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveExtraction increments the extraction counter for a tier outcome.
func ObserveExtraction(tier, outcome string) {
	if extractionsTotal == nil {
		return
	}
	extractionsTotal.WithLabelValues(tier, outcome).Inc()
}

// ObserveEnrichment increments the enrichment counter for a resolution path.
func ObserveEnrichment(path string) {
	if enrichmentsTotal == nil {
		return
	}
	enrichmentsTotal.WithLabelValues(path).Inc()
}

// ObserveSubmission increments the submission counter for a terminal status.
func ObserveSubmission(status string) {
	if submissionsTotal == nil {
		return
	}
	submissionsTotal.WithLabelValues(status).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
