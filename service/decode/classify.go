package decode

import (
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
)

// Classify turns a confirmed transaction and its reconciled deltas into a
// structured fact record. The label is carried through unchanged; nothing
// else outside the inputs influences the result, so classification is
// deterministic for a fixed transaction.
func Classify(tx *ConfirmedTransaction, deltas []AssetDelta, label string) (*ClassifiedTransaction, error) {
	if len(tx.AccountKeys) == 0 {
		return nil, fmt.Errorf("%w: empty account list", ErrMalformedTransaction)
	}

	rec := &ClassifiedTransaction{
		Signature: tx.Signature,
		Slot:      tx.Slot,
		BlockTime: tx.BlockTime,
		Fee:       tx.Fee,
		Label:     label,
	}
	if tx.Err != nil {
		rec.Status = Status{Failed: true, Reason: tx.Err}
	}

	nets := nativeNets(tx, deltas)
	rec.Payer = resolvePayer(tx, nets)
	resolveRecipient(tx, nets, rec)
	resolveAssetKind(tx, deltas, nets, rec)

	switch special, insIdx := resolveSpecialCase(tx); special {
	case SpecialCaseLiquidityPool:
		rec.PoolSides = poolSides(tx, deltas, insIdx)
	case SpecialCaseBondCurve:
		rec.BondCurveLegs = bondCurveLegs(tx, deltas, nets, rec.Payer)
	}

	return rec, nil
}

// nativeNets returns the signed native delta per account position, with the
// paid fee added back to the position-0 account so that fee burn does not
// masquerade as a payment.
func nativeNets(tx *ConfirmedTransaction, deltas []AssetDelta) []int64 {
	nets := make([]int64, len(tx.AccountKeys))
	byKey := make(map[solana.PublicKey]int64, len(deltas))
	for _, d := range deltas {
		if d.IsNative() {
			byKey[d.Account] = d.Net()
		}
	}
	for i, key := range tx.AccountKeys {
		nets[i] = byKey[key]
	}
	if len(nets) > 0 {
		nets[0] += int64(tx.Fee)
	}
	return nets
}

// resolvePayer picks the paying account. The fee payer at position 0 is the
// candidate; it is displaced only when its own fee-adjusted net is
// non-negative and some other signer shows a larger negative net.
func resolvePayer(tx *ConfirmedTransaction, nets []int64) solana.PublicKey {
	payer := tx.AccountKeys[0]
	if nets[0] < 0 {
		return payer
	}
	signers := tx.NumSigners
	if signers > len(tx.AccountKeys) {
		signers = len(tx.AccountKeys)
	}
	worst := int64(0)
	worstIdx := -1
	for i := 1; i < signers; i++ {
		if nets[i] < worst {
			worst = nets[i]
			worstIdx = i
		}
	}
	if worstIdx >= 0 {
		return tx.AccountKeys[worstIdx]
	}
	return payer
}

// resolveRecipient picks the non-payer account with the single largest
// positive native delta. Ties break deterministically to the earliest
// writable non-program account and flag the record as multi-recipient.
// With no positive delta anywhere (fee-only or failed transactions) the
// payer is its own recipient and the amount is zero.
func resolveRecipient(tx *ConfirmedTransaction, nets []int64, rec *ClassifiedTransaction) {
	best := int64(0)
	var tied []int
	for i, key := range tx.AccountKeys {
		if key.Equals(rec.Payer) || nets[i] <= 0 {
			continue
		}
		switch {
		case nets[i] > best:
			best = nets[i]
			tied = tied[:0]
			tied = append(tied, i)
		case nets[i] == best:
			tied = append(tied, i)
		}
	}
	if len(tied) == 0 {
		rec.Recipient = rec.Payer
		rec.NativeAmount = 0
		return
	}
	winner := tied[0]
	if len(tied) > 1 {
		rec.MultiRecipient = true
		for _, i := range tied {
			if i < len(tx.Writable) && tx.Writable[i] && !isProgramAccount(tx, i) {
				winner = i
				break
			}
		}
	}
	rec.Recipient = tx.AccountKeys[winner]
	rec.NativeAmount = uint64(best)
}

// resolveAssetKind decides whether the record describes a native or a token
// movement: the token mint with the greatest absolute delta wins when it
// dominates every fee-adjusted native delta.
func resolveAssetKind(tx *ConfirmedTransaction, deltas []AssetDelta, nets []int64, rec *ClassifiedTransaction) {
	var maxToken uint64
	var dominant *solana.PublicKey
	for _, d := range deltas {
		if d.IsNative() {
			continue
		}
		if abs := absNet(d.Net()); abs > maxToken {
			maxToken = abs
			dominant = d.Mint
		}
	}
	var maxNative uint64
	for _, net := range nets {
		if abs := absNet(net); abs > maxNative {
			maxNative = abs
		}
	}
	if dominant != nil && maxToken > maxNative {
		rec.AssetKind = AssetKindToken
		mint := *dominant
		rec.TokenMint = &mint
	} else {
		rec.AssetKind = AssetKindNative
	}
}

func absNet(net int64) uint64 {
	if net < 0 {
		return uint64(-net)
	}
	return uint64(net)
}

func displayAmount(raw uint64, decimals uint8) float64 {
	return float64(raw) / math.Pow10(int(decimals))
}
