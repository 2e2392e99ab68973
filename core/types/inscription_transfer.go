package types

import "encoding/json"

// InscriptionTransfer is one inscription movement recorded by the upstream ordinals index,
// joined with the inscription content and parent reference.
type InscriptionTransfer struct {
	Id            int64
	BlockHeight   int64
	InscriptionId string
	OldSatPoint   string
	NewPkScript   string // hex encoded
	NewWallet     string
	SentAsFee     bool
	Content       json.RawMessage // nil when the inscription has no JSON content
	ContentType   string          // hex encoded content type as stored upstream
	ParentId      string
}
