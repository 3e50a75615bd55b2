package decode

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// poolSwapTransaction models a swap against a known pool program: the
// trader moves mintA into the pool and receives mintB.
func poolSwapTransaction(program solana.PublicKey) *ConfirmedTransaction {
	trader := testKey(1)
	pool := testKey(2)
	tokAcctB := testKey(3) // pool's mintB vault, first in the instruction
	tokAcctA := testKey(4)
	mintA := testKey(8)
	mintB := testKey(9)

	return &ConfirmedTransaction{
		Fee:         5000,
		AccountKeys: []solana.PublicKey{trader, pool, tokAcctB, tokAcctA, program},
		Writable:    []bool{true, true, true, true, false},
		NumSigners:  1,
		Instructions: []Instruction{
			{ProgramID: program, Accounts: []uint16{0, 2, 3}},
		},
		PreBalances:  []uint64{100_000, 1, 1, 1, 1},
		PostBalances: []uint64{95_000, 1, 1, 1, 1},
		PreTokenBalances: []TokenBalance{
			{AccountIndex: 2, Mint: mintB, Owner: pool, Amount: 10_000_000, Decimals: 6},
			{AccountIndex: 3, Mint: mintA, Owner: pool, Amount: 2_000_000_000, Decimals: 9},
		},
		PostTokenBalances: []TokenBalance{
			{AccountIndex: 2, Mint: mintB, Owner: pool, Amount: 9_500_000, Decimals: 6},
			{AccountIndex: 3, Mint: mintA, Owner: pool, Amount: 3_000_000_000, Decimals: 9},
		},
	}
}

func TestClassify_PoolSides(t *testing.T) {
	tx := poolSwapTransaction(RaydiumV4ProgramID)

	rec := classify(t, tx, "")

	require.NotNil(t, rec.PoolSides)
	assert.Nil(t, rec.BondCurveLegs)

	// mintB's vault appears first in the pool instruction's accounts,
	// so mintB is the left side despite its smaller magnitude.
	assert.Equal(t, testKey(9), rec.PoolSides.Left.Mint)
	assert.InDelta(t, 0.5, rec.PoolSides.Left.Amount, 1e-9)
	assert.Equal(t, testKey(8), rec.PoolSides.Right.Mint)
	assert.InDelta(t, 1.0, rec.PoolSides.Right.Amount, 1e-9)
}

func TestClassify_PoolSides_AllKnownPrograms(t *testing.T) {
	programs := []solana.PublicKey{
		RaydiumV4ProgramID,
		RaydiumCLMMProgramID,
		RaydiumCPMMProgramID,
		OrcaWhirlpoolProgramID,
		MeteoraPoolsProgramID,
		MeteoraDLMMProgramID,
		MeteoraDAMMV2ProgramID,
		PumpAMMProgramID,
	}
	for _, program := range programs {
		rec := classify(t, poolSwapTransaction(program), "")
		require.NotNil(t, rec.PoolSides, "program %s", program)
	}
}

func TestClassify_PoolSides_SingleMintYieldsNone(t *testing.T) {
	tx := poolSwapTransaction(RaydiumV4ProgramID)
	// Drop the mintA movement, leaving only one moving mint.
	tx.PostTokenBalances[1] = tx.PreTokenBalances[1]

	rec := classify(t, tx, "")
	assert.Nil(t, rec.PoolSides)
}

func TestClassify_NoKnownProgramYieldsNone(t *testing.T) {
	tx := poolSwapTransaction(testKey(42))

	rec := classify(t, tx, "")
	assert.Nil(t, rec.PoolSides)
	assert.Nil(t, rec.BondCurveLegs)
}

func TestQuoteRatio_Inverse(t *testing.T) {
	rec := classify(t, poolSwapTransaction(OrcaWhirlpoolProgramID), "")
	require.NotNil(t, rec.PoolSides)

	ratio, err := rec.QuoteRatio()
	require.NoError(t, err)
	assert.InDelta(t, rec.PoolSides.Right.Amount, ratio*rec.PoolSides.Left.Amount, 1e-9)
}
