package entity

import "github.com/shopspring/decimal"

// SupplyChange is an aggregated amount for a tick, or for a (tick, code) when Code is set.
type SupplyChange struct {
	Tick   string
	Code   string
	Amount decimal.Decimal
}

// ResidueHeights holds the highest block height of each table written while applying a block, -1 if empty.
type ResidueHeights struct {
	Events                int64
	Tickers               int64
	Collections           int64
	CumulativeEventHashes int64
}
