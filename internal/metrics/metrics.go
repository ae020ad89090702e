// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExtractionsTotal counts completed extractions by document type
	// and method.
	ExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nfx_extractions_total",
		Help: "Completed invoice extractions",
	}, []string{"tipo", "method"})

	// AIFailuresTotal counts AI enrichment calls that degraded to the
	// heuristic result.
	AIFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nfx_ai_failures_total",
		Help: "AI enrichment failures degraded to heuristics",
	})

	// ExtractionDuration tracks end-to-end extraction latency.
	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nfx_extraction_duration_seconds",
		Help:    "Extraction latency in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
