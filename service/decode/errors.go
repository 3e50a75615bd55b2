package decode

import "errors"

var (
	// ErrMalformedTransaction indicates the pre/post snapshot arrays are
	// inconsistent with the transaction's account list. Nothing is patched
	// or partially returned in that case.
	ErrMalformedTransaction = errors.New("malformed transaction")

	// ErrDivisionUndefined indicates a ratio was requested with a zero or
	// absent denominator.
	ErrDivisionUndefined = errors.New("division undefined")
)
