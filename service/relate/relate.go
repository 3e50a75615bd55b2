package relate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brojonat/soltrace/service/decode"
	"github.com/brojonat/soltrace/service/solana"
	"github.com/brojonat/soltrace/service/traverse"
	solanago "github.com/gagliardetto/solana-go"
)

// ErrAmountOverflow indicates a payment total too large for uint64. Not
// expected at realistic scales, but the sum must never silently wrap.
var ErrAmountOverflow = errors.New("payment total overflows uint64")

// Analyzer answers existence and aggregate questions about payments
// between an address pair, built on lazy history traversal.
type Analyzer struct {
	traverser *traverse.Traverser
	enricher  *traverse.Enricher
	logger    *slog.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(traverser *traverse.Traverser, enricher *traverse.Enricher, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		traverser: traverser,
		enricher:  enricher,
		logger:    logger,
	}
}

// HasPaymentRelationship walks the recipient's history newest first and
// returns the signature of the first transaction where payer paid
// recipient. Classification is lazy: each candidate is fetched and
// classified only when reached, and the walk stops on the first match.
// Returns nil when the exhaustive walk finds none.
func (a *Analyzer) HasPaymentRelationship(ctx context.Context, recipient, payer string) (*solanago.Signature, error) {
	recipientKey, err := solana.ParseAddress(recipient)
	if err != nil {
		return nil, err
	}
	payerKey, err := solana.ParseAddress(payer)
	if err != nil {
		return nil, err
	}

	var found *solanago.Signature
	err = a.traverser.Walk(ctx, recipient, func(rec solana.SignatureRecord) (bool, error) {
		record, ok := a.classifyCandidate(ctx, rec)
		if !ok {
			return false, ctx.Err()
		}
		if record.IsPayer(payerKey) && record.IsRecipient(recipientKey) {
			sig := rec.Signature
			found = &sig
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// TotalPaymentAmount sums, in lamports, every payment from payer to
// recipient. A non-nil window restricts the sum to transactions whose
// block time falls at or after now minus the window; records without a
// block time are excluded from windowed sums rather than assumed recent.
func (a *Analyzer) TotalPaymentAmount(ctx context.Context, recipient, payer string, window *time.Duration) (uint64, error) {
	recipientKey, err := solana.ParseAddress(recipient)
	if err != nil {
		return 0, err
	}
	payerKey, err := solana.ParseAddress(payer)
	if err != nil {
		return 0, err
	}

	var cutoff *time.Time
	if window != nil {
		t := time.Now().Add(-*window)
		cutoff = &t
	}

	var total uint64
	err = a.traverser.Walk(ctx, recipient, func(rec solana.SignatureRecord) (bool, error) {
		if cutoff != nil {
			if rec.BlockTime == nil || rec.BlockTime.Before(*cutoff) {
				return false, nil
			}
		}
		record, ok := a.classifyCandidate(ctx, rec)
		if !ok {
			return false, ctx.Err()
		}
		if !record.IsPayer(payerKey) || !record.IsRecipient(recipientKey) {
			return false, nil
		}
		sum, carried := addUint64(total, record.PaymentAmount())
		if carried {
			return false, fmt.Errorf("%w: %s -> %s", ErrAmountOverflow, payer, recipient)
		}
		total = sum
		return false, nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// classifyCandidate classifies one history entry, isolating per-item
// failures: a candidate that cannot be fetched or decoded is skipped and
// the walk continues.
func (a *Analyzer) classifyCandidate(ctx context.Context, rec solana.SignatureRecord) (*decode.ClassifiedTransaction, bool) {
	cls, err := a.enricher.ClassifyOne(ctx, rec.Signature, "")
	if err != nil {
		a.logger.WarnContext(ctx, "skipping candidate, classification failed",
			"signature", rec.Signature.String(),
			"error", err,
		)
		return nil, false
	}
	return cls, true
}

// addUint64 adds with an explicit carry check.
func addUint64(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}
