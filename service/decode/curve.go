package decode

import "github.com/gagliardetto/solana-go"

// bondCurveLegs extracts what the trader received and spent in a
// bonding-curve trade. The trader is the resolved payer; the token leg is
// their largest-magnitude token delta and the other leg is their
// fee-adjusted native delta. Exactly one leg is the native asset, but no
// assumption is made about which side it lands on.
func bondCurveLegs(tx *ConfirmedTransaction, deltas []AssetDelta, nets []int64, trader solana.PublicKey) *BondCurveLegs {
	var tokenNet int64
	var tokenAbs uint64
	var tokenMint solana.PublicKey
	var tokenDecimals uint8
	for _, d := range deltas {
		if d.IsNative() || !d.Account.Equals(trader) {
			continue
		}
		if abs := absNet(d.Net()); abs > tokenAbs {
			tokenAbs = abs
			tokenNet = d.Net()
			tokenMint = *d.Mint
			tokenDecimals = d.Decimals
		}
	}
	if tokenAbs == 0 {
		return nil
	}

	var nativeNet int64
	for i, key := range tx.AccountKeys {
		if key.Equals(trader) {
			nativeNet = nets[i]
			break
		}
	}
	nativeLeg := CurveLeg{
		Mint:   WrappedSOLMint,
		Amount: displayAmount(absNet(nativeNet), 9),
	}
	tokenLeg := CurveLeg{
		Mint:   tokenMint,
		Amount: displayAmount(tokenAbs, tokenDecimals),
	}

	if tokenNet > 0 {
		return &BondCurveLegs{Received: tokenLeg, Spent: nativeLeg}
	}
	return &BondCurveLegs{Received: nativeLeg, Spent: tokenLeg}
}
