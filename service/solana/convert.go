package solana

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/brojonat/soltrace/service/decode"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// signatureRecordFromRPC converts an RPC TransactionSignature to our
// domain SignatureRecord. Only metadata from the signature list is
// available here; balance snapshots require FetchTransaction.
func signatureRecordFromRPC(sig *rpc.TransactionSignature) SignatureRecord {
	rec := SignatureRecord{
		Signature: sig.Signature,
		Slot:      sig.Slot,
	}
	if sig.BlockTime != nil {
		t := sig.BlockTime.Time()
		rec.BlockTime = &t
	}
	if sig.Err != nil {
		errMsg := fmt.Sprintf("%v", sig.Err)
		rec.Err = &errMsg
	}
	return rec
}

// confirmedFromResult builds a decode.ConfirmedTransaction from a full
// GetTransactionResult: the flattened account list (static keys plus any
// address-table loads), per-account writability, instructions resolved to
// program IDs, and the native and token balance snapshots.
func confirmedFromResult(signature solana.Signature, result *rpc.GetTransactionResult) (*decode.ConfirmedTransaction, error) {
	if result.Meta == nil {
		return nil, fmt.Errorf("%w: %s: no transaction meta", decode.ErrMalformedTransaction, signature)
	}
	tx, err := result.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", decode.ErrMalformedTransaction, signature, err)
	}
	msg := tx.Message
	meta := result.Meta

	// Versioned transactions extend the static key list with looked-up
	// addresses: writable loads first, then read-only. Balance snapshot
	// indexes address this combined list.
	keys := make([]solana.PublicKey, 0,
		len(msg.AccountKeys)+len(meta.LoadedAddresses.Writable)+len(meta.LoadedAddresses.ReadOnly))
	keys = append(keys, msg.AccountKeys...)
	keys = append(keys, meta.LoadedAddresses.Writable...)
	keys = append(keys, meta.LoadedAddresses.ReadOnly...)

	writable := make([]bool, 0, len(keys))
	numRequired := int(msg.Header.NumRequiredSignatures)
	numROSigned := int(msg.Header.NumReadonlySignedAccounts)
	numROUnsigned := int(msg.Header.NumReadonlyUnsignedAccounts)
	for i := range msg.AccountKeys {
		if i < numRequired {
			writable = append(writable, i < numRequired-numROSigned)
		} else {
			writable = append(writable, i < len(msg.AccountKeys)-numROUnsigned)
		}
	}
	for range meta.LoadedAddresses.Writable {
		writable = append(writable, true)
	}
	for range meta.LoadedAddresses.ReadOnly {
		writable = append(writable, false)
	}

	instructions := make([]decode.Instruction, 0, len(msg.Instructions))
	for _, ins := range msg.Instructions {
		if int(ins.ProgramIDIndex) >= len(keys) {
			return nil, fmt.Errorf("%w: %s: program index %d out of range",
				decode.ErrMalformedTransaction, signature, ins.ProgramIDIndex)
		}
		accounts := make([]uint16, len(ins.Accounts))
		copy(accounts, ins.Accounts)
		instructions = append(instructions, decode.Instruction{
			ProgramID: keys[ins.ProgramIDIndex],
			Accounts:  accounts,
		})
	}

	out := &decode.ConfirmedTransaction{
		Signature:    signature,
		Slot:         result.Slot,
		Fee:          meta.Fee,
		AccountKeys:  keys,
		Writable:     writable,
		NumSigners:   numRequired,
		Instructions: instructions,
		PreBalances:  meta.PreBalances,
		PostBalances: meta.PostBalances,
	}
	if result.BlockTime != nil {
		t := result.BlockTime.Time()
		out.BlockTime = &t
	}
	if meta.Err != nil {
		raw, err := json.Marshal(meta.Err)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: encode error payload: %v",
				decode.ErrMalformedTransaction, signature, err)
		}
		out.Err = raw
	}

	out.PreTokenBalances, err = tokenBalancesFromRPC(signature, meta.PreTokenBalances)
	if err != nil {
		return nil, err
	}
	out.PostTokenBalances, err = tokenBalancesFromRPC(signature, meta.PostTokenBalances)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// tokenBalancesFromRPC converts a token balance snapshot, parsing the raw
// string amounts into integers.
func tokenBalancesFromRPC(signature solana.Signature, balances []rpc.TokenBalance) ([]decode.TokenBalance, error) {
	if len(balances) == 0 {
		return nil, nil
	}
	out := make([]decode.TokenBalance, 0, len(balances))
	for _, b := range balances {
		if b.UiTokenAmount == nil {
			return nil, fmt.Errorf("%w: %s: token balance without amount",
				decode.ErrMalformedTransaction, signature)
		}
		amount, err := strconv.ParseUint(b.UiTokenAmount.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: token amount %q: %v",
				decode.ErrMalformedTransaction, signature, b.UiTokenAmount.Amount, err)
		}
		tb := decode.TokenBalance{
			AccountIndex: b.AccountIndex,
			Mint:         b.Mint,
			Amount:       amount,
			Decimals:     b.UiTokenAmount.Decimals,
		}
		if b.Owner != nil {
			tb.Owner = *b.Owner
		}
		out = append(out, tb)
	}
	return out, nil
}
