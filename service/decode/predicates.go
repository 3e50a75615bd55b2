package decode

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// LamportsPerSOL is the native asset's display scale.
const LamportsPerSOL = 1_000_000_000

// DefaultHighValueThreshold is the lamport amount at or above which a
// transaction counts as high value (1000 SOL). Override per call via
// IsHighValue.
const DefaultHighValueThreshold uint64 = 1000 * LamportsPerSOL

// Successful reports whether the transaction executed without error.
func (c *ClassifiedTransaction) Successful() bool {
	return c.Status.Success()
}

// IsTokenTransfer reports whether a token delta dominated the record.
func (c *ClassifiedTransaction) IsTokenTransfer() bool {
	return c.AssetKind == AssetKindToken
}

// IsHighValue reports whether the net amount meets the given lamport
// threshold. A zero threshold falls back to DefaultHighValueThreshold.
func (c *ClassifiedTransaction) IsHighValue(threshold uint64) bool {
	if threshold == 0 {
		threshold = DefaultHighValueThreshold
	}
	return c.NativeAmount >= threshold
}

// IsRecipient reports whether addr is the resolved recipient.
func (c *ClassifiedTransaction) IsRecipient(addr solana.PublicKey) bool {
	return c.Recipient.Equals(addr)
}

// IsPayer reports whether addr is the resolved payer.
func (c *ClassifiedTransaction) IsPayer(addr solana.PublicKey) bool {
	return c.Payer.Equals(addr)
}

// PaymentAmount returns the transferred native amount in lamports.
func (c *ClassifiedTransaction) PaymentAmount() uint64 {
	return c.NativeAmount
}

// PaymentAmountSOL returns the transferred native amount in display units.
func (c *ClassifiedTransaction) PaymentAmountSOL() float64 {
	return float64(c.NativeAmount) / LamportsPerSOL
}

// NetAmount returns addr's perspective on the transfer: payment minus fee
// when addr paid, the plain payment otherwise.
func (c *ClassifiedTransaction) NetAmount(addr solana.PublicKey) int64 {
	if c.IsPayer(addr) {
		return int64(c.NativeAmount) - int64(c.Fee)
	}
	return int64(c.NativeAmount)
}

// QuoteRatio returns the pool price as right amount per left unit. It fails
// with ErrDivisionUndefined when the record has no pool sides or the left
// side is zero.
func (c *ClassifiedTransaction) QuoteRatio() (float64, error) {
	if c.PoolSides == nil {
		return 0, fmt.Errorf("%w: no pool sides on %s", ErrDivisionUndefined, c.Signature)
	}
	if c.PoolSides.Left.Amount == 0 {
		return 0, fmt.Errorf("%w: zero left side on %s", ErrDivisionUndefined, c.Signature)
	}
	return c.PoolSides.Right.Amount / c.PoolSides.Left.Amount, nil
}
