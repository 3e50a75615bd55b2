package decode

import (
	"encoding/json"
	"time"

	"github.com/gagliardetto/solana-go"
)

// ConfirmedTransaction is the already-deserialized input to the decoder: a
// confirmed transaction together with the balance snapshots its node attached.
// It is our domain model, independent of the RPC response format; the
// service/solana package builds it from rpc.GetTransactionResult.
type ConfirmedTransaction struct {
	Signature  solana.Signature
	Slot       uint64
	BlockTime  *time.Time
	Fee        uint64
	Err        json.RawMessage // raw error payload, nil on success

	// AccountKeys is the transaction's flattened account list. Writable is
	// parallel to it; NumSigners is the count of leading signer accounts.
	AccountKeys []solana.PublicKey
	Writable    []bool
	NumSigners  int

	Instructions []Instruction

	// Native balance snapshots, indexed by account position.
	PreBalances  []uint64
	PostBalances []uint64

	// Token balance snapshots, keyed by (account position, mint).
	PreTokenBalances  []TokenBalance
	PostTokenBalances []TokenBalance
}

// Instruction is the minimal instruction view the decoder needs: which
// program ran and which account positions it referenced, in order.
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []uint16
}

// TokenBalance is one entry of a token balance snapshot.
type TokenBalance struct {
	AccountIndex uint16
	Mint         solana.PublicKey
	Owner        solana.PublicKey
	Amount       uint64
	Decimals     uint8
}

// AssetDelta is a per-account, per-asset balance change computed strictly
// from the pre/post snapshots. Mint is nil for the native asset.
type AssetDelta struct {
	Account  solana.PublicKey
	Mint     *solana.PublicKey
	Decimals uint8
	Pre      uint64
	Post     uint64
}

// Net returns the signed change, post minus pre.
func (d AssetDelta) Net() int64 {
	return int64(d.Post) - int64(d.Pre)
}

// IsNative reports whether the delta is in the ledger's base currency.
func (d AssetDelta) IsNative() bool {
	return d.Mint == nil
}

// AssetKind tags what a classified transaction moved.
type AssetKind int

const (
	AssetKindNative AssetKind = iota
	AssetKindToken
)

func (k AssetKind) String() string {
	if k == AssetKindToken {
		return "token"
	}
	return "native"
}

// PoolSide is one leg of a liquidity-pool interaction. Amount is in the
// asset's display units (post decimal scaling).
type PoolSide struct {
	Mint   solana.PublicKey
	Amount float64
}

// PoolSides holds the two pool legs. Left is the mint whose token account
// appears first in the pool instruction's account list.
type PoolSides struct {
	Left  PoolSide
	Right PoolSide
}

// CurveLeg is one side of a bonding-curve trade as seen from the trader.
type CurveLeg struct {
	Mint   solana.PublicKey
	Amount float64
}

// BondCurveLegs pairs what the trader received with what they spent.
// Exactly one of the two legs is the native asset (as wrapped-SOL mint).
type BondCurveLegs struct {
	Received CurveLeg
	Spent    CurveLeg
}

// ClassifiedTransaction is the structured fact record derived from one
// confirmed transaction. It is never mutated after construction.
type ClassifiedTransaction struct {
	Signature solana.Signature
	Slot      uint64
	BlockTime *time.Time
	Fee       uint64

	Payer     solana.PublicKey
	Recipient solana.PublicKey

	// NativeAmount is the recipient's positive native delta in lamports;
	// zero for fee-only or failed transactions.
	NativeAmount uint64

	Status Status

	AssetKind AssetKind
	TokenMint *solana.PublicKey // set when AssetKind == AssetKindToken

	PoolSides     *PoolSides
	BondCurveLegs *BondCurveLegs

	// MultiRecipient flags that more than one non-payer account tied for the
	// largest positive delta and the deterministic tie-break picked one.
	MultiRecipient bool

	// Label is the caller-supplied as-of label, carried through unchanged.
	Label string
}

// Status is the execution outcome of a transaction.
type Status struct {
	Failed bool
	// Reason is the node's raw error payload, passed through unchanged.
	Reason json.RawMessage
}

// Success reports whether the transaction executed without error.
func (s Status) Success() bool {
	return !s.Failed
}
