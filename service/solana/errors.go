package solana

import "errors"

var (
	// ErrNotFound indicates the node does not know the requested signature
	// (unknown, unconfirmed, or pruned).
	ErrNotFound = errors.New("transaction not found")

	// ErrInvalidAddress indicates an address failed base58 format
	// validation.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrRPCUnavailable wraps transport or node failures. The core never
	// retries; callers own any backoff policy.
	ErrRPCUnavailable = errors.New("rpc unavailable")

	// ErrPageSizeExceeded indicates a signature page request above the
	// node-imposed ceiling.
	ErrPageSizeExceeded = errors.New("page size exceeded")
)
