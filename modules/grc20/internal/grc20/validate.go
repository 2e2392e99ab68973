package grc20

import (
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/supplycache"
)

type Reason string

const (
	ReasonInscribedAsFee     Reason = "inscribed_as_fee"
	ReasonNoContent          Reason = "no_content"
	ReasonInvalidContentType Reason = "invalid_content_type"
	ReasonInvalidContent     Reason = "invalid_content"
	ReasonMissingTick        Reason = "missing_tick"
	ReasonMissingCode        Reason = "missing_code"
	ReasonInvalidTick        Reason = "invalid_tick"
	ReasonInvalidCode        Reason = "invalid_code"
	ReasonNotDeployed        Reason = "not_deployed"
	ReasonTickMintedOut      Reason = "tick_minted_out"
	ReasonCodeMintedOut      Reason = "code_minted_out"
)

// Outcome is the result of validating one candidate operation. Rejections are expected input
// noise, not errors.
type Outcome struct {
	Accepted bool
	Reason   Reason
}

func Accept() Outcome {
	return Outcome{Accepted: true}
}

func Reject(reason Reason) Outcome {
	return Outcome{Reason: reason}
}

// SupplyGetter returns the current counters of a deployed (tick, code).
type SupplyGetter interface {
	Get(tick, code string) (supplycache.Supply, bool)
}

// ValidateTransfer decides if the transfer is a valid mint against the current supplies.
// The payload is returned only for accepted transfers.
func ValidateTransfer(transfer *types.InscriptionTransfer, supplies SupplyGetter) (*Payload, Outcome) {
	if transfer.SentAsFee && transfer.OldSatPoint == "" {
		return nil, Reject(ReasonInscribedAsFee)
	}
	if transfer.Content == nil {
		return nil, Reject(ReasonNoContent)
	}
	if !IsSupportedContentType(ParseContentType(transfer.ContentType)) {
		return nil, Reject(ReasonInvalidContentType)
	}

	payload, outcome := ParsePayload(transfer.Content)
	if !outcome.Accepted {
		return nil, outcome
	}

	supply, ok := supplies.Get(payload.Tick, payload.Code)
	if !ok {
		return nil, Reject(ReasonNotDeployed)
	}
	if !supply.TickRemainingSupply.IsPositive() {
		return nil, Reject(ReasonTickMintedOut)
	}
	if !supply.CodeRemainingSupply.IsPositive() {
		return nil, Reject(ReasonCodeMintedOut)
	}
	return payload, Accept()
}
