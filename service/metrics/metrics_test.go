package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	require.NotNil(t, m)

	// Registering a second instance on the same registry must collide,
	// proving the collectors actually landed there.
	assert.Panics(t, func() { NewMetrics(registry) })
}

func TestRecordRPCCall(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRPCCall("GetTransaction", "success", "mainnet", 0.25)
	m.RecordRPCCall("GetTransaction", "success", "mainnet", 0.5)
	m.RecordRPCCall("GetTransaction", "error", "mainnet", 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.solanaRPCCallsTotal.WithLabelValues("GetTransaction", "success", "mainnet")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.solanaRPCCallsTotal.WithLabelValues("GetTransaction", "error", "mainnet")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.solanaRPCCallDuration))
}

func TestRecordTransactionOutcomes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordTransactionDecoded("mainnet", "success")
	m.RecordTransactionClassified("success")
	m.RecordTransactionClassified("error")

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.transactionsDecodedTotal.WithLabelValues("mainnet", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.transactionsClassifiedTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.transactionsClassifiedTotal.WithLabelValues("error")))
}

func TestRecordTraversal(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordTraversalPage("all")
	m.RecordTraversalPage("all")
	m.RecordTraversalPage("recent")
	m.RecordTraversalDuration("all", 1.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.traversalPagesTotal.WithLabelValues("all")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.traversalPagesTotal.WithLabelValues("recent")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.traversalDuration))
}

func TestRecordEnrichmentBatch(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordEnrichmentBatch(10, 0)
	m.RecordEnrichmentBatch(5, 2)

	assert.Equal(t, 1, testutil.CollectAndCount(m.enrichmentBatchSize))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.enrichmentFailuresTotal.WithLabelValues()))
}
