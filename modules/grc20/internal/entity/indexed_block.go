package entity

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// IndexedBlock is the block hash record of a fully committed height.
type IndexedBlock struct {
	Height int64
	Hash   chainhash.Hash
}

// CumulativeEventHash holds the hex encoded sha256 hashes of one height.
type CumulativeEventHash struct {
	BlockHeight         int64
	BlockEventHash      string
	CumulativeEventHash string
}
