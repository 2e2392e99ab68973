package entity

import "github.com/shopspring/decimal"

type EventType string

const (
	EventTypeMintInscribe EventType = "mint-inscribe"
)

type EventMint struct {
	Id            int64
	InscriptionId string
	BlockHeight   int64

	MintedPkScript string
	MintedWallet   string
	Tick           string
	Code           string
	Amount         decimal.Decimal
	ParentId       string
}
