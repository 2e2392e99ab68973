package grc20

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/grc20"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
	"github.com/shopspring/decimal"
)

// mintAmount is the fixed amount of every mint, the payload never sets it.
var mintAmount = decimal.NewFromInt(1)

func (p *Processor) processGRC20States(ctx context.Context, transfers []*types.InscriptionTransfer, blockHeader types.BlockHeader) error {
	if len(transfers) == 0 {
		return nil
	}

	latestEventId, err := p.grc20Dg.GetLatestEventId(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get latest event id")
	}

	tickIndexes := make(map[string]int)
	codeIndexes := make(map[[2]string]int)
	for _, transfer := range transfers {
		payload, outcome := grc20.ValidateTransfer(transfer, p.supplies)
		if !outcome.Accepted {
			logger.DebugContext(ctx, "Skipped grc20 operation",
				slogx.String("inscription_id", transfer.InscriptionId),
				slogx.String("reason", string(outcome.Reason)),
			)
			operationsRejected.WithLabelValues(string(outcome.Reason)).Inc()
			continue
		}

		supply, _ := p.supplies.Get(payload.Tick, payload.Code)
		if err := p.supplies.ApplyDelta(payload.Tick, payload.Code, mintAmount.Neg(), mintAmount.Neg()); err != nil {
			return errors.Wrap(err, "failed to apply mint to supply cache")
		}

		event := &entity.EventMint{
			Id:             latestEventId + int64(len(p.newEventMints)) + 1,
			InscriptionId:  transfer.InscriptionId,
			BlockHeight:    blockHeader.Height,
			MintedPkScript: transfer.NewPkScript,
			MintedWallet:   transfer.NewWallet,
			Tick:           payload.Tick,
			Code:           payload.Code,
			Amount:         mintAmount,
			ParentId:       transfer.ParentId,
		}
		p.newEventMints = append(p.newEventMints, event)
		p.eventHashString += getEventMintString(event, supply.Decimals) + eventHashSeparator

		p.newCollectionEntries = append(p.newCollectionEntries, &entity.CollectionEntry{
			Tick:          payload.Tick,
			Code:          payload.Code,
			InscriptionId: transfer.InscriptionId,
			BlockHeight:   blockHeader.Height,
		})

		// aggregate supply changes in first-seen order
		if i, ok := tickIndexes[payload.Tick]; ok {
			p.tickSupplyChanges[i].Amount = p.tickSupplyChanges[i].Amount.Add(mintAmount)
		} else {
			tickIndexes[payload.Tick] = len(p.tickSupplyChanges)
			p.tickSupplyChanges = append(p.tickSupplyChanges, entity.SupplyChange{Tick: payload.Tick, Amount: mintAmount})
		}
		key := [2]string{payload.Tick, payload.Code}
		if i, ok := codeIndexes[key]; ok {
			p.codeSupplyChanges[i].Amount = p.codeSupplyChanges[i].Amount.Add(mintAmount)
		} else {
			codeIndexes[key] = len(p.codeSupplyChanges)
			p.codeSupplyChanges = append(p.codeSupplyChanges, entity.SupplyChange{Tick: payload.Tick, Code: payload.Code, Amount: mintAmount})
		}
		operationsAccepted.Inc()
	}
	return nil
}
