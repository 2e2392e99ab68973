package grc20

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
)

// repairCumulativeEventHashes recomputes the event hashes of every indexed height from the stored
// events, then marks the database with the current versions.
func (p *Processor) repairCumulativeEventHashes(ctx context.Context) error {
	if err := p.supplies.Load(ctx); err != nil {
		return errors.Wrap(err, "failed to load supply cache")
	}

	grc20DgTx, err := p.grc20Dg.BeginGRC20Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := grc20DgTx.Rollback(context.WithoutCancel(ctx)); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction",
				slogx.Error(err),
				slogx.String("event", "rollback_grc20_repair"),
			)
		}
	}()

	if err := grc20DgTx.DeleteAllCumulativeEventHashes(ctx); err != nil {
		return errors.Wrap(err, "failed to delete cumulative event hashes")
	}

	from, to, err := grc20DgTx.GetIndexedBlockRange(ctx)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to get indexed block range")
	}
	if err == nil {
		start := time.Now()
		logger.InfoContext(ctx, "Recomputing cumulative event hashes", slogx.Int64("from", from), slogx.Int64("to", to))

		var prev *entity.CumulativeEventHash
		for height := from; height <= to; height++ {
			events, err := grc20DgTx.GetEventMintsByHeight(ctx, p.mintEventTypeId, height)
			if err != nil {
				return errors.Wrapf(err, "failed to get mint events, height: %d", height)
			}
			var eventHashString string
			for _, event := range events {
				supply, ok := p.supplies.Get(event.Tick, event.Code)
				if !ok {
					return errors.Wrapf(errs.InternalError, "ticker %s/%s of event %d is not deployed", event.Tick, event.Code, event.Id)
				}
				eventHashString += getEventMintString(event, supply.Decimals) + eventHashSeparator
			}
			blockEventHash, cumulativeEventHash := computeEventHashes(eventHashString, prev)
			prev = &entity.CumulativeEventHash{
				BlockHeight:         height,
				BlockEventHash:      blockEventHash,
				CumulativeEventHash: cumulativeEventHash,
			}
			if err := grc20DgTx.CreateCumulativeEventHash(ctx, prev); err != nil {
				return errors.Wrapf(err, "failed to create cumulative event hash, height: %d", height)
			}
		}
		logger.InfoContext(ctx, "Recomputed cumulative event hashes", slogx.Duration("duration", time.Since(start)))
	}

	if err := grc20DgTx.UpdateIndexerVersion(ctx, entity.IndexerVersion{
		IndexerVersion:   IndexerVersion,
		DBVersion:        DBVersion,
		EventHashVersion: EventHashVersion,
		Network:          p.network,
	}); err != nil {
		return errors.Wrap(err, "failed to update indexer version")
	}

	if err := grc20DgTx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
