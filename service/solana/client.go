package solana

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brojonat/soltrace/service/decode"
	"github.com/brojonat/soltrace/service/metrics"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// MaxSignaturePageSize is the node-imposed ceiling on a single
// getSignaturesForAddress page.
const MaxSignaturePageSize = 1000

// RPCClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real
// Solana nodes.
type RPCClient interface {
	GetSignaturesForAddress(
		ctx context.Context,
		address solana.PublicKey,
		opts *rpc.GetSignaturesForAddressOpts,
	) ([]*rpc.TransactionSignature, error)

	GetTransaction(
		ctx context.Context,
		signature solana.Signature,
		opts *rpc.GetTransactionOpts,
	) (*rpc.GetTransactionResult, error)

	GetLatestBlockhash(
		ctx context.Context,
		commitment rpc.CommitmentType,
	) (*rpc.GetLatestBlockhashResult, error)

	GetFeeForMessage(
		ctx context.Context,
		message string,
		commitment rpc.CommitmentType,
	) (*rpc.GetFeeForMessageResult, error)
}

// Client wraps the RPC layer with domain-specific read operations:
// signature paging, transaction fetch, and fee estimation. It never
// retries; transient failures surface as ErrRPCUnavailable and the
// caller owns any backoff policy.
type Client struct {
	rpc      RPCClient
	logger   *slog.Logger
	metrics  *metrics.Metrics
	endpoint string // RPC endpoint identifier for metrics (e.g., "mainnet", "devnet", rpc host)
}

// NewClient creates a new Solana client.
// The endpoint parameter is used for metrics labeling (e.g., "mainnet",
// "devnet", or RPC hostname). If m is nil, no metrics are recorded.
func NewClient(rpcClient RPCClient, endpoint string, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		rpc:      rpcClient,
		logger:   logger,
		metrics:  m,
		endpoint: endpoint,
	}
}

// ParseAddress validates a base58 address string.
func ParseAddress(s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return key, nil
}

// FetchSignaturePage fetches one page of address history, newest first.
// A nil before cursor starts from the tip; otherwise the page holds
// signatures strictly older than the cursor. A short page (fewer than
// limit records) yields a nil NextCursor.
func (c *Client) FetchSignaturePage(
	ctx context.Context,
	address solana.PublicKey,
	before *solana.Signature,
	limit int,
) (*SignaturePage, error) {
	if limit <= 0 {
		limit = MaxSignaturePageSize
	}
	if limit > MaxSignaturePageSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrPageSizeExceeded, limit, MaxSignaturePageSize)
	}

	opts := &rpc.GetSignaturesForAddressOpts{
		Limit: &limit,
	}
	if before != nil {
		opts.Before = *before
	}

	c.logger.DebugContext(ctx, "calling GetSignaturesForAddress",
		"address", address.String(),
		"limit", limit,
		"before", before,
	)

	start := time.Now()
	signatures, err := c.rpc.GetSignaturesForAddress(ctx, address, opts)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.RecordRPCCall("GetSignaturesForAddress", status, c.endpoint, duration)
		if err == nil {
			c.metrics.RecordRPCSignaturesPerCall(c.endpoint, float64(len(signatures)))
		}
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to get signatures",
			"address", address.String(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: get signatures for %s: %v", ErrRPCUnavailable, address, err)
	}

	page := &SignaturePage{
		Records: make([]SignatureRecord, 0, len(signatures)),
	}
	for _, sig := range signatures {
		page.Records = append(page.Records, signatureRecordFromRPC(sig))
	}

	// A full page may have more history behind it; a short page is the end.
	if len(signatures) == limit {
		cursor := signatures[len(signatures)-1].Signature
		page.NextCursor = &cursor
	}

	c.logger.DebugContext(ctx, "fetched signature page",
		"address", address.String(),
		"count", len(page.Records),
		"has_next", page.NextCursor != nil,
	)

	return page, nil
}

// FetchTransaction fetches a confirmed transaction with its balance
// snapshots. Unknown, unconfirmed, or pruned signatures yield ErrNotFound.
func (c *Client) FetchTransaction(
	ctx context.Context,
	signature solana.Signature,
) (*decode.ConfirmedTransaction, error) {
	maxVersion := uint64(0)
	opts := &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		MaxSupportedTransactionVersion: &maxVersion,
	}

	start := time.Now()
	result, err := c.rpc.GetTransaction(ctx, signature, opts)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.RecordRPCCall("GetTransaction", status, c.endpoint, duration)
	}
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, signature)
		}
		c.logger.ErrorContext(ctx, "failed to get transaction",
			"signature", signature.String(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: get transaction %s: %v", ErrRPCUnavailable, signature, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, signature)
	}

	tx, err := confirmedFromResult(signature, result)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordTransactionDecoded(c.endpoint, "error")
		}
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordTransactionDecoded(c.endpoint, "success")
	}
	return tx, nil
}

// EstimateFee returns the current fee in lamports for a minimal
// transaction, derived from the latest blockhash.
func (c *Client) EstimateFee(ctx context.Context) (uint64, error) {
	start := time.Now()
	blockhash, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.RecordRPCCall("GetLatestBlockhash", status, c.endpoint, duration)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get latest blockhash: %v", ErrRPCUnavailable, err)
	}
	if blockhash == nil || blockhash.Value == nil {
		return 0, fmt.Errorf("%w: empty blockhash result", ErrRPCUnavailable)
	}

	msg := solana.Message{
		RecentBlockhash: blockhash.Value.Blockhash,
	}
	encoded, err := msg.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("marshal fee probe message: %w", err)
	}

	start = time.Now()
	fee, err := c.rpc.GetFeeForMessage(ctx, base64.StdEncoding.EncodeToString(encoded), rpc.CommitmentFinalized)
	duration = time.Since(start).Seconds()

	status = "success"
	if err != nil {
		status = "error"
	}
	if c.metrics != nil {
		c.metrics.RecordRPCCall("GetFeeForMessage", status, c.endpoint, duration)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get fee for message: %v", ErrRPCUnavailable, err)
	}
	if fee == nil || fee.Value == nil {
		return 0, fmt.Errorf("%w: fee unavailable for latest blockhash", ErrRPCUnavailable)
	}

	c.logger.DebugContext(ctx, "estimated fee",
		"lamports", *fee.Value,
	)
	return *fee.Value, nil
}
