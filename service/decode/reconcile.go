package decode

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Reconcile computes per-account, per-asset balance deltas from a confirmed
// transaction's pre/post snapshots. The output is a pure function of the
// snapshots: it is never inferred from instruction semantics, carries no
// hidden state, and is deterministic for a given input.
//
// Zero-delta entries are dropped. A token account that exists only in the
// post snapshot is treated as newly created (pre = 0); one that exists only
// in the pre snapshot as closed (post = 0).
func Reconcile(tx *ConfirmedTransaction) ([]AssetDelta, error) {
	n := len(tx.AccountKeys)
	if len(tx.PreBalances) != n || len(tx.PostBalances) != n {
		return nil, fmt.Errorf("%w: %d accounts but %d pre / %d post native balances",
			ErrMalformedTransaction, n, len(tx.PreBalances), len(tx.PostBalances))
	}
	if err := checkTokenIndexes(tx); err != nil {
		return nil, err
	}

	deltas := make([]AssetDelta, 0, n)

	// Native deltas, indexed by account position.
	for i := 0; i < n; i++ {
		if tx.PreBalances[i] == tx.PostBalances[i] {
			continue
		}
		deltas = append(deltas, AssetDelta{
			Account:  tx.AccountKeys[i],
			Decimals: 9,
			Pre:      tx.PreBalances[i],
			Post:     tx.PostBalances[i],
		})
	}

	// Token deltas, matched by (account position, mint).
	type tokenKey struct {
		index uint16
		mint  solana.PublicKey
	}
	post := make(map[tokenKey]TokenBalance, len(tx.PostTokenBalances))
	for _, b := range tx.PostTokenBalances {
		post[tokenKey{b.AccountIndex, b.Mint}] = b
	}
	seen := make(map[tokenKey]struct{}, len(tx.PreTokenBalances))
	for _, pre := range tx.PreTokenBalances {
		key := tokenKey{pre.AccountIndex, pre.Mint}
		seen[key] = struct{}{}
		var postAmount uint64
		if pb, ok := post[key]; ok {
			postAmount = pb.Amount
		}
		if pre.Amount == postAmount {
			continue
		}
		mint := pre.Mint
		deltas = append(deltas, AssetDelta{
			Account:  pre.Owner,
			Mint:     &mint,
			Decimals: pre.Decimals,
			Pre:      pre.Amount,
			Post:     postAmount,
		})
	}
	for _, pb := range tx.PostTokenBalances {
		key := tokenKey{pb.AccountIndex, pb.Mint}
		if _, ok := seen[key]; ok {
			continue
		}
		if pb.Amount == 0 {
			continue
		}
		mint := pb.Mint
		deltas = append(deltas, AssetDelta{
			Account:  pb.Owner,
			Mint:     &mint,
			Decimals: pb.Decimals,
			Pre:      0,
			Post:     pb.Amount,
		})
	}

	return deltas, nil
}

func checkTokenIndexes(tx *ConfirmedTransaction) error {
	n := len(tx.AccountKeys)
	for _, b := range tx.PreTokenBalances {
		if int(b.AccountIndex) >= n {
			return fmt.Errorf("%w: pre token balance references account %d of %d",
				ErrMalformedTransaction, b.AccountIndex, n)
		}
	}
	for _, b := range tx.PostTokenBalances {
		if int(b.AccountIndex) >= n {
			return fmt.Errorf("%w: post token balance references account %d of %d",
				ErrMalformedTransaction, b.AccountIndex, n)
		}
	}
	return nil
}
