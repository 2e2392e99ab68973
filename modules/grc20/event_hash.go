package grc20

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/shopspring/decimal"
)

const eventHashSeparator = "|"

// amountScale is the number of decimal places of stored amounts.
const amountScale = 18

func getEventMintString(event *entity.EventMint, decimals uint16) string {
	var sb strings.Builder
	sb.WriteString(string(entity.EventTypeMintInscribe) + ";")
	sb.WriteString(event.InscriptionId + ";")
	sb.WriteString(event.MintedPkScript + ";")
	sb.WriteString(event.Tick + ";")
	sb.WriteString(event.Code + ";")
	sb.WriteString(formatFixedPointAmount(event.Amount, decimals) + ";")
	sb.WriteString(event.ParentId)
	return sb.String()
}

// formatFixedPointAmount renders an amount stored as an integer with amountScale decimal places,
// truncated to the ticker decimals. e.g. 1 with 3 decimals is "0.000".
func formatFixedPointAmount(amount decimal.Decimal, decimals uint16) string {
	places := int32(min(decimals, amountScale))
	return amount.Shift(-amountScale).Truncate(places).StringFixed(places)
}

// computeEventHashes returns the block event hash of the separator-joined event strings and the
// cumulative event hash chained on prev. prev is nil for the first hashed height.
func computeEventHashes(eventHashString string, prev *entity.CumulativeEventHash) (blockEventHash string, cumulativeEventHash string) {
	eventHashString = strings.TrimSuffix(eventHashString, eventHashSeparator)
	blockEventHash = sha256Hex(eventHashString)
	if prev == nil {
		return blockEventHash, blockEventHash
	}
	return blockEventHash, sha256Hex(prev.CumulativeEventHash + blockEventHash)
}

func sha256Hex(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}
