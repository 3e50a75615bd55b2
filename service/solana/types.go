package solana

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// SignatureRecord is the minimal paging unit from an address's signature
// history. It is deliberately lighter than a classified transaction: cheap
// to fetch in bulk, just enough to page, filter, and decide what to enrich.
type SignatureRecord struct {
	Signature solana.Signature
	Slot      uint64
	BlockTime *time.Time
	Err       *string // nil if the transaction succeeded
}

// Successful reports whether the record's transaction executed without error.
func (r SignatureRecord) Successful() bool {
	return r.Err == nil
}

// SignaturePage is one page of signature history in descending slot order
// (newest first). A nil NextCursor is the sole exhaustion signal; an
// empty Records slice with a nil cursor is a valid terminal page.
type SignaturePage struct {
	Records    []SignatureRecord
	NextCursor *solana.Signature
}
