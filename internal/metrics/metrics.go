package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Catalog endpoint outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeTransportError = "transport_error"
	OutcomeHTTPError      = "http_error"
	OutcomeRemoteError    = "remote_error"
)

// Enrichment outcomes.
const (
	EnrichmentApplied     = "applied"
	EnrichmentTimeout     = "timeout"
	EnrichmentFailed      = "failed"
	EnrichmentUnsupported = "unsupported"
	EnrichmentDisabled    = "disabled"
)

// Catalog fetch metrics
var (
	EndpointRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvapi_endpoint_requests_total",
			Help: "Total number of catalog requests per endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	FallbackExhaustedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tvapi_fallback_exhausted_total",
			Help: "Total number of fetches that failed on every configured endpoint.",
		},
	)
)

// Localization metrics
var (
	EnrichmentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tvapi_enrichment_total",
			Help: "Total number of detail enrichments by outcome.",
		},
		[]string{"outcome"},
	)

	LocalizationLanguages = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tvapi_localization_languages",
			Help: "Number of languages offered by the localization source, 0 when the list failed to load.",
		},
	)
)

// Provider metrics
var (
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tvapi_operation_duration_seconds",
			Help:    "Duration of provider operations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		EndpointRequestsTotal,
		FallbackExhaustedTotal,
		EnrichmentTotal,
		LocalizationLanguages,
		OperationDuration,
	)
}
