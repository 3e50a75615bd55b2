package decode

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKey returns a deterministic synthetic public key.
func testKey(b byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = b
	return k
}

func testSignature(b byte) solana.Signature {
	var s solana.Signature
	s[0] = b
	return s
}

func TestReconcile_NativeDeltas(t *testing.T) {
	tx := &ConfirmedTransaction{
		Signature:    testSignature(1),
		Fee:          5000,
		AccountKeys:  []solana.PublicKey{testKey(1), testKey(2), testKey(3)},
		PreBalances:  []uint64{1_000_000, 500_000, 1},
		PostBalances: []uint64{895_000, 600_000, 1},
	}

	deltas, err := Reconcile(tx)
	require.NoError(t, err)
	require.Len(t, deltas, 2)

	assert.Equal(t, testKey(1), deltas[0].Account)
	assert.True(t, deltas[0].IsNative())
	assert.Equal(t, int64(-105_000), deltas[0].Net())
	assert.Equal(t, uint8(9), deltas[0].Decimals)

	assert.Equal(t, testKey(2), deltas[1].Account)
	assert.Equal(t, int64(100_000), deltas[1].Net())
}

func TestReconcile_TokenDeltas(t *testing.T) {
	mint := testKey(9)
	owner := testKey(5)
	tx := &ConfirmedTransaction{
		AccountKeys:  []solana.PublicKey{testKey(1), testKey(2)},
		PreBalances:  []uint64{10, 10},
		PostBalances: []uint64{10, 10},
		PreTokenBalances: []TokenBalance{
			{AccountIndex: 1, Mint: mint, Owner: owner, Amount: 1000, Decimals: 6},
		},
		PostTokenBalances: []TokenBalance{
			{AccountIndex: 1, Mint: mint, Owner: owner, Amount: 250, Decimals: 6},
		},
	}

	deltas, err := Reconcile(tx)
	require.NoError(t, err)
	require.Len(t, deltas, 1)

	require.NotNil(t, deltas[0].Mint)
	assert.Equal(t, mint, *deltas[0].Mint)
	assert.Equal(t, owner, deltas[0].Account)
	assert.Equal(t, int64(-750), deltas[0].Net())
	assert.Equal(t, uint8(6), deltas[0].Decimals)
}

func TestReconcile_NewAndClosedTokenAccounts(t *testing.T) {
	mintA := testKey(8)
	mintB := testKey(9)
	tx := &ConfirmedTransaction{
		AccountKeys:  []solana.PublicKey{testKey(1), testKey(2), testKey(3)},
		PreBalances:  []uint64{10, 10, 10},
		PostBalances: []uint64{10, 10, 10},
		PreTokenBalances: []TokenBalance{
			// Closed: present pre, absent post.
			{AccountIndex: 1, Mint: mintA, Owner: testKey(4), Amount: 500, Decimals: 0},
		},
		PostTokenBalances: []TokenBalance{
			// New: absent pre, present post.
			{AccountIndex: 2, Mint: mintB, Owner: testKey(5), Amount: 42, Decimals: 0},
		},
	}

	deltas, err := Reconcile(tx)
	require.NoError(t, err)
	require.Len(t, deltas, 2)

	assert.Equal(t, int64(-500), deltas[0].Net())
	assert.Equal(t, mintA, *deltas[0].Mint)
	assert.Equal(t, int64(42), deltas[1].Net())
	assert.Equal(t, mintB, *deltas[1].Mint)
}

func TestReconcile_ZeroDeltasDropped(t *testing.T) {
	mint := testKey(9)
	tx := &ConfirmedTransaction{
		AccountKeys:  []solana.PublicKey{testKey(1)},
		PreBalances:  []uint64{100},
		PostBalances: []uint64{100},
		PreTokenBalances: []TokenBalance{
			{AccountIndex: 0, Mint: mint, Owner: testKey(1), Amount: 77},
		},
		PostTokenBalances: []TokenBalance{
			{AccountIndex: 0, Mint: mint, Owner: testKey(1), Amount: 77},
		},
	}

	deltas, err := Reconcile(tx)
	require.NoError(t, err)
	assert.Empty(t, deltas)
}

func TestReconcile_MalformedLengths(t *testing.T) {
	tx := &ConfirmedTransaction{
		AccountKeys:  []solana.PublicKey{testKey(1), testKey(2)},
		PreBalances:  []uint64{100},
		PostBalances: []uint64{100, 200},
	}

	_, err := Reconcile(tx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTransaction)
}

func TestReconcile_TokenIndexOutOfRange(t *testing.T) {
	tx := &ConfirmedTransaction{
		AccountKeys:  []solana.PublicKey{testKey(1)},
		PreBalances:  []uint64{100},
		PostBalances: []uint64{100},
		PostTokenBalances: []TokenBalance{
			{AccountIndex: 5, Mint: testKey(9), Amount: 1},
		},
	}

	_, err := Reconcile(tx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTransaction)
}

// The native ledger is closed modulo fee burn: summing every native delta
// must yield exactly the negated fee.
func TestReconcile_DeltaConservation(t *testing.T) {
	tx := &ConfirmedTransaction{
		Fee:          5000,
		AccountKeys:  []solana.PublicKey{testKey(1), testKey(2), testKey(3), testKey(4)},
		PreBalances:  []uint64{1_000_000, 200_000, 50_000, 1},
		PostBalances: []uint64{795_000, 300_000, 150_000, 1},
	}

	deltas, err := Reconcile(tx)
	require.NoError(t, err)

	var sum int64
	for _, d := range deltas {
		if d.IsNative() {
			sum += d.Net()
		}
	}
	assert.Equal(t, -int64(tx.Fee), sum)
}

func TestReconcile_Deterministic(t *testing.T) {
	mint := testKey(9)
	tx := &ConfirmedTransaction{
		Fee:          5000,
		AccountKeys:  []solana.PublicKey{testKey(1), testKey(2)},
		PreBalances:  []uint64{100_000, 50_000},
		PostBalances: []uint64{45_000, 100_000},
		PreTokenBalances: []TokenBalance{
			{AccountIndex: 1, Mint: mint, Owner: testKey(2), Amount: 10, Decimals: 2},
		},
		PostTokenBalances: []TokenBalance{
			{AccountIndex: 1, Mint: mint, Owner: testKey(2), Amount: 30, Decimals: 2},
		},
	}

	first, err := Reconcile(tx)
	require.NoError(t, err)
	second, err := Reconcile(tx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
