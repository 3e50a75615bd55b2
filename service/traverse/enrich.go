package traverse

import (
	"context"
	"log/slog"
	"sync"

	"github.com/brojonat/soltrace/service/decode"
	"github.com/brojonat/soltrace/service/metrics"
	solanago "github.com/gagliardetto/solana-go"
)

// DefaultConcurrency bounds enrichment when the caller passes a
// non-positive limit.
const DefaultConcurrency = 4

// Result is one enrichment outcome. Exactly one of Record and Err is set;
// a failed item never discards its neighbors.
type Result struct {
	Signature solanago.Signature
	Record    *decode.ClassifiedTransaction
	Err       error
}

// Enricher fetches and classifies signatures in bulk under a bounded
// concurrency policy.
type Enricher struct {
	client  TransactionFetcher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewEnricher creates an Enricher. If m is nil, no metrics are recorded.
func NewEnricher(client TransactionFetcher, m *metrics.Metrics, logger *slog.Logger) *Enricher {
	return &Enricher{
		client:  client,
		logger:  logger,
		metrics: m,
	}
}

// Enrich fetches and classifies each signature, at most concurrency
// in flight at once. Completion order is free but the output slice
// matches the input order position for position. The label is carried
// into every classified record unchanged.
func (e *Enricher) Enrich(ctx context.Context, signatures []solanago.Signature, concurrency int, label string) []Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(signatures))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, sig := range signatures {
		wg.Add(1)
		go func(i int, sig solanago.Signature) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = Result{Signature: sig, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			record, err := e.ClassifyOne(ctx, sig, label)
			results[i] = Result{Signature: sig, Record: record, Err: err}
		}(i, sig)
	}
	wg.Wait()

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}
	if e.metrics != nil {
		e.metrics.RecordEnrichmentBatch(len(signatures), failures)
	}
	if failures > 0 {
		e.logger.WarnContext(ctx, "enrichment batch completed with failures",
			"total", len(signatures),
			"failures", failures,
		)
	} else {
		e.logger.DebugContext(ctx, "enrichment batch completed",
			"total", len(signatures),
		)
	}
	return results
}

// ClassifyOne fetches one transaction and runs it through reconciliation
// and classification.
func (e *Enricher) ClassifyOne(ctx context.Context, signature solanago.Signature, label string) (*decode.ClassifiedTransaction, error) {
	tx, err := e.client.FetchTransaction(ctx, signature)
	if err != nil {
		return nil, err
	}
	deltas, err := decode.Reconcile(tx)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordTransactionClassified("error")
		}
		return nil, err
	}
	record, err := decode.Classify(tx, deltas, label)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordTransactionClassified("error")
		}
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.RecordTransactionClassified("success")
	}
	return record, nil
}
