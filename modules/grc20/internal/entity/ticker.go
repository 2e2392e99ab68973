package entity

import "github.com/shopspring/decimal"

// Ticker is a (tick, code) minting slot. Tick level supplies are shared by every code of the tick.
type Ticker struct {
	Tick                string
	Code                string
	OriginalTick        string
	MaxTickSupply       decimal.Decimal
	MaxCodeSupply       decimal.Decimal
	TickRemainingSupply decimal.Decimal
	CodeRemainingSupply decimal.Decimal
	Decimals            uint16
	BlockHeight         int64
	IsSelfMint          bool
	DeployInscriptionId string
}
