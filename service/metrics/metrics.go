package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics.
type Metrics struct {
	// Solana RPC Metrics
	solanaRPCCallsTotal        *prometheus.CounterVec
	solanaRPCCallDuration      *prometheus.HistogramVec
	solanaRPCSignaturesPerCall *prometheus.HistogramVec

	// Decoding & Classification Metrics
	transactionsDecodedTotal    *prometheus.CounterVec
	transactionsClassifiedTotal *prometheus.CounterVec

	// Traversal Metrics
	traversalPagesTotal     *prometheus.CounterVec
	traversalDuration       *prometheus.HistogramVec
	enrichmentBatchSize     *prometheus.HistogramVec
	enrichmentFailuresTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		// Solana RPC Metrics
		solanaRPCCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solana_rpc_calls_total",
				Help: "Total number of Solana RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		solanaRPCCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solana_rpc_call_duration_seconds",
				Help:    "Duration of Solana RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "endpoint"},
		),
		solanaRPCSignaturesPerCall: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solana_rpc_signatures_per_call",
				Help:    "Number of signatures fetched per GetSignaturesForAddress call",
				Buckets: []float64{1, 10, 50, 100, 250, 500, 1000},
			},
			[]string{"endpoint"},
		),

		// Decoding & Classification Metrics
		transactionsDecodedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_decoded_total",
				Help: "Total number of transactions decoded from RPC results",
			},
			[]string{"endpoint", "status"},
		),
		transactionsClassifiedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_classified_total",
				Help: "Total number of transactions classified",
			},
			[]string{"status"},
		),

		// Traversal Metrics
		traversalPagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "traversal_pages_total",
				Help: "Total number of signature pages fetched during traversal",
			},
			[]string{"mode"},
		),
		traversalDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "traversal_duration_seconds",
				Help:    "Duration of full history traversals in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"mode"},
		),
		enrichmentBatchSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "enrichment_batch_size",
				Help:    "Number of signatures per enrichment batch",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
			nil,
		),
		enrichmentFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enrichment_failures_total",
				Help: "Total number of per-item failures during batch enrichment",
			},
			nil,
		),
	}
}

// Solana RPC metric helpers

// RecordRPCCall records a Solana RPC call with duration.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, duration float64) {
	m.solanaRPCCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.solanaRPCCallDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordRPCSignaturesPerCall records the number of signatures fetched.
func (m *Metrics) RecordRPCSignaturesPerCall(endpoint string, count float64) {
	m.solanaRPCSignaturesPerCall.WithLabelValues(endpoint).Observe(count)
}

// Decoding & classification metric helpers

// RecordTransactionDecoded records a transaction decode attempt.
func (m *Metrics) RecordTransactionDecoded(endpoint, status string) {
	m.transactionsDecodedTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordTransactionClassified records a classification attempt.
func (m *Metrics) RecordTransactionClassified(status string) {
	m.transactionsClassifiedTotal.WithLabelValues(status).Inc()
}

// Traversal metric helpers

// RecordTraversalPage records one fetched signature page.
func (m *Metrics) RecordTraversalPage(mode string) {
	m.traversalPagesTotal.WithLabelValues(mode).Inc()
}

// RecordTraversalDuration records a completed traversal.
func (m *Metrics) RecordTraversalDuration(mode string, duration float64) {
	m.traversalDuration.WithLabelValues(mode).Observe(duration)
}

// RecordEnrichmentBatch records an enrichment batch and its per-item failures.
func (m *Metrics) RecordEnrichmentBatch(size, failures int) {
	m.enrichmentBatchSize.WithLabelValues().Observe(float64(size))
	if failures > 0 {
		m.enrichmentFailuresTotal.WithLabelValues().Add(float64(failures))
	}
}
