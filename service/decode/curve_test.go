package decode

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// curveTradeTransaction models a bonding-curve trade. buy=true spends
// native for the meme token; buy=false sells the token back.
func curveTradeTransaction(program solana.PublicKey, buy bool) *ConfirmedTransaction {
	trader := testKey(1)
	curve := testKey(2)
	tokAcct := testKey(3)
	mint := testKey(9)

	tx := &ConfirmedTransaction{
		Fee:         5000,
		AccountKeys: []solana.PublicKey{trader, curve, tokAcct, program},
		Writable:    []bool{true, true, true, false},
		NumSigners:  1,
		Instructions: []Instruction{
			{ProgramID: program, Accounts: []uint16{0, 1, 2}},
		},
	}
	if buy {
		tx.PreBalances = []uint64{200_000_000, 50, 0, 1}
		tx.PostBalances = []uint64{99_995_000, 100_000_050, 0, 1}
		tx.PreTokenBalances = []TokenBalance{
			{AccountIndex: 2, Mint: mint, Owner: trader, Amount: 0, Decimals: 6},
		}
		tx.PostTokenBalances = []TokenBalance{
			{AccountIndex: 2, Mint: mint, Owner: trader, Amount: 1_000_000, Decimals: 6},
		}
	} else {
		tx.PreBalances = []uint64{99_995_000, 100_000_050, 0, 1}
		tx.PostBalances = []uint64{199_990_000, 50, 0, 1}
		tx.PreTokenBalances = []TokenBalance{
			{AccountIndex: 2, Mint: mint, Owner: trader, Amount: 1_000_000, Decimals: 6},
		}
		tx.PostTokenBalances = []TokenBalance{
			{AccountIndex: 2, Mint: mint, Owner: trader, Amount: 0, Decimals: 6},
		}
	}
	return tx
}

func TestClassify_BondCurveBuy(t *testing.T) {
	rec := classify(t, curveTradeTransaction(PumpBondCurveProgramID, true), "")

	require.NotNil(t, rec.BondCurveLegs)
	assert.Nil(t, rec.PoolSides)

	assert.Equal(t, testKey(9), rec.BondCurveLegs.Received.Mint)
	assert.InDelta(t, 1.0, rec.BondCurveLegs.Received.Amount, 1e-9)

	// The spent leg is the native asset, represented by the wrapped mint.
	assert.Equal(t, WrappedSOLMint, rec.BondCurveLegs.Spent.Mint)
	assert.InDelta(t, 0.1, rec.BondCurveLegs.Spent.Amount, 1e-9)
}

func TestClassify_BondCurveSell(t *testing.T) {
	rec := classify(t, curveTradeTransaction(MeteoraBondCurveProgramID, false), "")

	require.NotNil(t, rec.BondCurveLegs)

	assert.Equal(t, WrappedSOLMint, rec.BondCurveLegs.Received.Mint)
	assert.InDelta(t, 0.1, rec.BondCurveLegs.Received.Amount, 1e-9)

	assert.Equal(t, testKey(9), rec.BondCurveLegs.Spent.Mint)
	assert.InDelta(t, 1.0, rec.BondCurveLegs.Spent.Amount, 1e-9)
}

func TestClassify_BondCurve_NoTraderTokenDelta(t *testing.T) {
	tx := curveTradeTransaction(RaydiumLaunchpadProgramID, true)
	// Token moved on someone else's account, not the trader's.
	tx.PreTokenBalances[0].Owner = testKey(7)
	tx.PostTokenBalances[0].Owner = testKey(7)

	rec := classify(t, tx, "")
	assert.Nil(t, rec.BondCurveLegs)
}

func TestClassify_BondCurveWinsOverPool(t *testing.T) {
	// Curve trades routinely route a pool leg too; the curve heuristic
	// must take precedence when both program kinds appear.
	tx := curveTradeTransaction(PumpBondCurveProgramID, true)
	tx.Instructions = append([]Instruction{
		{ProgramID: RaydiumV4ProgramID, Accounts: []uint16{0, 2}},
	}, tx.Instructions...)

	rec := classify(t, tx, "")
	require.NotNil(t, rec.BondCurveLegs)
	assert.Nil(t, rec.PoolSides)
}
