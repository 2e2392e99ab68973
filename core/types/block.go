package types

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockHeader identifies a ledger height by its height and block hash.
type BlockHeader struct {
	Hash   chainhash.Hash
	Height int64
}

// IsEqual reports whether both headers point to the same block.
func (h BlockHeader) IsEqual(other BlockHeader) bool {
	return h.Height == other.Height && h.Hash.IsEqual(&other.Hash)
}
