package decode

import "github.com/gagliardetto/solana-go"

// Well-known Solana program and mint addresses used by the classifier.
var (
	// WrappedSOLMint doubles as the native-asset marker inside pool and
	// bonding-curve legs.
	WrappedSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

	// Liquidity-pool programs
	RaydiumV4ProgramID     = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	RaydiumCLMMProgramID   = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	RaydiumCPMMProgramID   = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	OrcaWhirlpoolProgramID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
	MeteoraPoolsProgramID  = solana.MustPublicKeyFromBase58("Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB")
	MeteoraDLMMProgramID   = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	MeteoraDAMMV2ProgramID = solana.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")
	PumpAMMProgramID       = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")

	// Bonding-curve programs
	PumpBondCurveProgramID    = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	MeteoraBondCurveProgramID = solana.MustPublicKeyFromBase58("dbcij3LWUppWqq96dh6gJWwBifmcGfLSB5D4DuSMaqN")
	RaydiumLaunchpadProgramID = solana.MustPublicKeyFromBase58("LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj")
)

// SpecialCase selects which protocol-specific heuristics apply to a
// transaction. It is resolved once per transaction before classification
// branches.
type SpecialCase int

const (
	SpecialCaseNone SpecialCase = iota
	SpecialCaseLiquidityPool
	SpecialCaseBondCurve
)

func (c SpecialCase) String() string {
	switch c {
	case SpecialCaseLiquidityPool:
		return "liquidity_pool"
	case SpecialCaseBondCurve:
		return "bond_curve"
	default:
		return "none"
	}
}

// programTable maps known program ids to their special case. Fixed at
// startup; lookups never mutate it.
var programTable = map[solana.PublicKey]SpecialCase{
	RaydiumV4ProgramID:     SpecialCaseLiquidityPool,
	RaydiumCLMMProgramID:   SpecialCaseLiquidityPool,
	RaydiumCPMMProgramID:   SpecialCaseLiquidityPool,
	OrcaWhirlpoolProgramID: SpecialCaseLiquidityPool,
	MeteoraPoolsProgramID:  SpecialCaseLiquidityPool,
	MeteoraDLMMProgramID:   SpecialCaseLiquidityPool,
	MeteoraDAMMV2ProgramID: SpecialCaseLiquidityPool,
	PumpAMMProgramID:       SpecialCaseLiquidityPool,

	PumpBondCurveProgramID:    SpecialCaseBondCurve,
	MeteoraBondCurveProgramID: SpecialCaseBondCurve,
	RaydiumLaunchpadProgramID: SpecialCaseBondCurve,
}

// resolveSpecialCase scans the instruction list for a known protocol
// program. Bond-curve programs win over pool programs when both appear,
// since curve trades routinely route through a pool leg as well.
func resolveSpecialCase(tx *ConfirmedTransaction) (SpecialCase, int) {
	poolIdx := -1
	for i, ins := range tx.Instructions {
		switch programTable[ins.ProgramID] {
		case SpecialCaseBondCurve:
			return SpecialCaseBondCurve, i
		case SpecialCaseLiquidityPool:
			if poolIdx < 0 {
				poolIdx = i
			}
		}
	}
	if poolIdx >= 0 {
		return SpecialCaseLiquidityPool, poolIdx
	}
	return SpecialCaseNone, -1
}

// isProgramAccount reports whether the account at position idx is referenced
// as a program id by any instruction.
func isProgramAccount(tx *ConfirmedTransaction, idx int) bool {
	if idx < 0 || idx >= len(tx.AccountKeys) {
		return false
	}
	key := tx.AccountKeys[idx]
	for _, ins := range tx.Instructions {
		if ins.ProgramID.Equals(key) {
			return true
		}
	}
	return false
}
