package traverse

import (
	"context"
	"log/slog"
	"time"

	"github.com/brojonat/soltrace/service/decode"
	"github.com/brojonat/soltrace/service/metrics"
	"github.com/brojonat/soltrace/service/solana"
	solanago "github.com/gagliardetto/solana-go"
)

// DefaultPageSize is used when Options leaves the page size unset. It
// matches the node ceiling so exhaustive traversals make as few round
// trips as possible.
const DefaultPageSize = 1000

// PageFetcher fetches one page of signature history.
type PageFetcher interface {
	FetchSignaturePage(
		ctx context.Context,
		address solanago.PublicKey,
		before *solanago.Signature,
		limit int,
	) (*solana.SignaturePage, error)
}

// TransactionFetcher fetches a confirmed transaction with balance snapshots.
type TransactionFetcher interface {
	FetchTransaction(
		ctx context.Context,
		signature solanago.Signature,
	) (*decode.ConfirmedTransaction, error)
}

// Client is the full RPC surface traversal needs.
type Client interface {
	PageFetcher
	TransactionFetcher
}

// Options holds traversal tuning. Both fields are advisory, not protocol:
// PageSize bounds per-page cost, PageDelay throttles consecutive requests.
type Options struct {
	PageSize  int
	PageDelay time.Duration
}

// Predicate filters signature records during traversal.
type Predicate func(solana.SignatureRecord) bool

// Traverser pages over an address's signature history, newest first.
// Pages are requested strictly sequentially: the next cursor is only
// known once a page returns, so there is no pipelining to be had.
type Traverser struct {
	client  Client
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewTraverser creates a Traverser. If m is nil, no metrics are recorded.
func NewTraverser(client Client, opts Options, m *metrics.Metrics, logger *slog.Logger) *Traverser {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Traverser{
		client:  client,
		opts:    opts,
		logger:  logger,
		metrics: m,
	}
}

// All fetches the address's entire signature history. There is no upper
// bound; the caller accepts unbounded cost.
func (t *Traverser) All(ctx context.Context, address string) ([]solana.SignatureRecord, error) {
	return t.collect(ctx, address, "all", 0, nil)
}

// First fetches the newest n signatures, truncating the final page's
// excess. History shorter than n terminates early without error.
func (t *Traverser) First(ctx context.Context, address string, n int) ([]solana.SignatureRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	return t.collect(ctx, address, "first", n, nil)
}

// Recent fetches the newest n signatures in a single page request and
// never pages further, regardless of remaining history.
func (t *Traverser) Recent(ctx context.Context, address string, n int) ([]solana.SignatureRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	addr, err := solana.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	defer t.timed("recent")()

	page, err := t.fetchPage(ctx, addr, nil, n, "recent")
	if err != nil {
		return nil, err
	}
	return page.Records, nil
}

// Filtered fetches the address's entire history, keeping only records the
// predicate accepts.
func (t *Traverser) Filtered(ctx context.Context, address string, pred Predicate) ([]solana.SignatureRecord, error) {
	return t.collect(ctx, address, "filtered", 0, pred)
}

// Walk pages through the address's history newest first, invoking fn for
// each record. Returning stop=true ends the walk early; a non-nil error
// aborts it.
func (t *Traverser) Walk(ctx context.Context, address string, fn func(solana.SignatureRecord) (stop bool, err error)) error {
	return t.walk(ctx, address, "walk", fn)
}

// LastContaining returns the newest signature whose transaction references
// the target address in its account list, fetching full detail per
// candidate and short-circuiting on the first hit. Returns nil when the
// full history holds no match.
func (t *Traverser) LastContaining(ctx context.Context, address string, target solanago.PublicKey) (*solana.SignatureRecord, error) {
	var found *solana.SignatureRecord
	err := t.walk(ctx, address, "last_containing", func(rec solana.SignatureRecord) (bool, error) {
		ok, err := t.references(ctx, rec, target)
		if err != nil {
			return false, err
		}
		if ok {
			found = &rec
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// AllContaining returns every signature whose transaction references the
// target address, completing the full traversal.
func (t *Traverser) AllContaining(ctx context.Context, address string, target solanago.PublicKey) ([]solana.SignatureRecord, error) {
	var out []solana.SignatureRecord
	err := t.walk(ctx, address, "all_containing", func(rec solana.SignatureRecord) (bool, error) {
		ok, err := t.references(ctx, rec, target)
		if err != nil {
			return false, err
		}
		if ok {
			out = append(out, rec)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// references fetches a candidate's full transaction and tests whether the
// target appears in its account list. Per-item fetch failures are isolated:
// the candidate is skipped and the traversal continues.
func (t *Traverser) references(ctx context.Context, rec solana.SignatureRecord, target solanago.PublicKey) (bool, error) {
	tx, err := t.client.FetchTransaction(ctx, rec.Signature)
	if err != nil {
		t.logger.WarnContext(ctx, "skipping candidate, fetch failed",
			"signature", rec.Signature.String(),
			"error", err,
		)
		return false, nil
	}
	for _, key := range tx.AccountKeys {
		if key.Equals(target) {
			return true, nil
		}
	}
	return false, t.pause(ctx)
}

// collect runs the paging loop, accumulating records. A limit of 0 means
// unbounded; a non-nil predicate filters before accumulation.
func (t *Traverser) collect(ctx context.Context, address string, mode string, limit int, pred Predicate) ([]solana.SignatureRecord, error) {
	var out []solana.SignatureRecord
	err := t.walk(ctx, address, mode, func(rec solana.SignatureRecord) (bool, error) {
		if pred != nil && !pred(rec) {
			return false, nil
		}
		out = append(out, rec)
		return limit > 0 && len(out) >= limit, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// walk is the single paging primitive every access pattern builds on.
// A short page (nil NextCursor) is the sole exhaustion signal; a page
// fetch failure aborts the whole walk since there is no valid partial page.
func (t *Traverser) walk(ctx context.Context, address string, mode string, fn func(solana.SignatureRecord) (bool, error)) error {
	addr, err := solana.ParseAddress(address)
	if err != nil {
		return err
	}

	defer t.timed(mode)()

	var cursor *solanago.Signature
	pages := 0
	for {
		page, err := t.fetchPage(ctx, addr, cursor, t.opts.PageSize, mode)
		if err != nil {
			return err
		}
		pages++

		for _, rec := range page.Records {
			stop, err := fn(rec)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}

		if page.NextCursor == nil {
			t.logger.DebugContext(ctx, "traversal exhausted",
				"address", address,
				"mode", mode,
				"pages", pages,
			)
			return nil
		}
		cursor = page.NextCursor

		if err := t.pause(ctx); err != nil {
			return err
		}
	}
}

// timed returns a deferred duration recorder for one traversal mode.
func (t *Traverser) timed(mode string) func() {
	return metrics.Timer(time.Now(), func(d float64) {
		if t.metrics != nil {
			t.metrics.RecordTraversalDuration(mode, d)
		}
	})
}

// fetchPage fetches one signature page and records it under the mode label,
// keeping the labels uniform across every access pattern.
func (t *Traverser) fetchPage(ctx context.Context, addr solanago.PublicKey, cursor *solanago.Signature, limit int, mode string) (*solana.SignaturePage, error) {
	page, err := t.client.FetchSignaturePage(ctx, addr, cursor, limit)
	if err != nil {
		return nil, err
	}
	if t.metrics != nil {
		t.metrics.RecordTraversalPage(mode)
	}
	return page, nil
}

// pause awaits the advisory inter-request delay, honoring cancellation.
func (t *Traverser) pause(ctx context.Context) error {
	if t.opts.PageDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(t.opts.PageDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
