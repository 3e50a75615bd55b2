package decode

import "github.com/gagliardetto/solana-go"

// poolSides assigns the two pool legs of a liquidity-pool transaction.
// Among the token deltas, the two distinct mints with the largest-magnitude
// nonzero change are the pool's sides; left is the mint whose token account
// appears earliest in the pool instruction's account list. Returns nil when
// fewer than two mints moved.
func poolSides(tx *ConfirmedTransaction, deltas []AssetDelta, insIdx int) *PoolSides {
	type mintMove struct {
		mint     solana.PublicKey
		abs      uint64
		decimals uint8
	}
	moves := make(map[solana.PublicKey]mintMove)
	for _, d := range deltas {
		if d.IsNative() {
			continue
		}
		abs := absNet(d.Net())
		if abs == 0 {
			continue
		}
		if cur, ok := moves[*d.Mint]; !ok || abs > cur.abs {
			moves[*d.Mint] = mintMove{mint: *d.Mint, abs: abs, decimals: d.Decimals}
		}
	}
	if len(moves) < 2 {
		return nil
	}

	var first, second mintMove
	for _, m := range moves {
		switch {
		case m.abs > first.abs:
			second = first
			first = m
		case m.abs > second.abs:
			second = m
		}
	}

	left, right := first, second
	posFirst := mintPositionInInstruction(tx, insIdx, first.mint)
	posSecond := mintPositionInInstruction(tx, insIdx, second.mint)
	if posSecond < posFirst {
		left, right = second, first
	}

	return &PoolSides{
		Left:  PoolSide{Mint: left.mint, Amount: displayAmount(left.abs, left.decimals)},
		Right: PoolSide{Mint: right.mint, Amount: displayAmount(right.abs, right.decimals)},
	}
}

// mintPositionInInstruction finds the earliest position, within the pool
// instruction's account list, of a token account holding the given mint.
// Token accounts are identified through the balance snapshots' account
// indexes. Mints not referenced by the instruction sort last, so two
// unplaced mints keep their magnitude order.
func mintPositionInInstruction(tx *ConfirmedTransaction, insIdx int, mint solana.PublicKey) int {
	const unplaced = int(^uint(0) >> 1)
	if insIdx < 0 || insIdx >= len(tx.Instructions) {
		return unplaced
	}
	holders := make(map[uint16]struct{})
	for _, b := range tx.PreTokenBalances {
		if b.Mint.Equals(mint) {
			holders[b.AccountIndex] = struct{}{}
		}
	}
	for _, b := range tx.PostTokenBalances {
		if b.Mint.Equals(mint) {
			holders[b.AccountIndex] = struct{}{}
		}
	}
	for pos, accountIdx := range tx.Instructions[insIdx].Accounts {
		if _, ok := holders[accountIdx]; ok {
			return pos
		}
	}
	return unplaced
}
