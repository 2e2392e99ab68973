package grc20

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
	"github.com/samber/lo"
)

// Process implements indexer.Processor.
func (p *Processor) Process(ctx context.Context, block types.BlockHeader) (err error) {
	defer func() {
		if err == nil {
			return
		}
		// the cache was already mutated by the failed block, rebuild it from the store
		p.resetBuffers()
		if loadErr := p.supplies.Load(context.WithoutCancel(ctx)); loadErr != nil {
			logger.ErrorContext(ctx, "Failed to reload supply cache after failed block", loadErr)
		}
	}()

	logger.DebugContext(ctx, "Processing new block")
	if block.Height >= activationHeights[p.network] {
		transfers, err := p.transfersSource.GetTransfers(ctx, block.Height)
		if err != nil {
			return errors.Wrap(err, "failed to get inscription transfers")
		}
		logger.DebugContext(ctx, "Got inscription transfers", slogx.Int("count", len(transfers)))

		if err := p.processGRC20States(ctx, transfers, block); err != nil {
			return errors.Wrap(err, "failed to process grc20 states")
		}
	}

	if err := p.flushBlock(ctx, block); err != nil {
		return errors.Wrap(err, "failed to flush block")
	}

	logger.DebugContext(ctx, "Inserted new block")
	return nil
}

func (p *Processor) flushBlock(ctx context.Context, blockHeader types.BlockHeader) error {
	grc20DgTx, err := p.grc20Dg.BeginGRC20Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := grc20DgTx.Rollback(context.WithoutCancel(ctx)); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction",
				slogx.Error(err),
				slogx.String("event", "rollback_grc20_insertion"),
			)
		}
	}()

	// flush new mint events
	for _, events := range lo.Chunk(p.newEventMints, insertBatchSize) {
		if err := grc20DgTx.CreateEventMints(ctx, p.mintEventTypeId, events); err != nil {
			return errors.Wrap(err, "failed to create mint events")
		}
	}

	// flush supply changes
	if len(p.tickSupplyChanges) > 0 || len(p.codeSupplyChanges) > 0 {
		if err := grc20DgTx.DecreaseRemainingSupplies(ctx, p.tickSupplyChanges, p.codeSupplyChanges); err != nil {
			return errors.Wrap(err, "failed to decrease remaining supplies")
		}
	}

	// flush new collection entries
	for _, entries := range lo.Chunk(p.newCollectionEntries, insertBatchSize) {
		if err := grc20DgTx.CreateCollectionEntries(ctx, entries); err != nil {
			return errors.Wrap(err, "failed to create collection entries")
		}
	}

	// calculate event hash
	{
		prev, err := grc20DgTx.GetCumulativeEventHashByHeight(ctx, blockHeader.Height-1)
		if err != nil {
			if !errors.Is(err, errs.NotFound) {
				return errors.Wrap(err, "failed to get previous cumulative event hash")
			}
			prev = nil
		}
		blockEventHash, cumulativeEventHash := computeEventHashes(p.eventHashString, prev)
		if err := grc20DgTx.CreateCumulativeEventHash(ctx, &entity.CumulativeEventHash{
			BlockHeight:         blockHeader.Height,
			BlockEventHash:      blockEventHash,
			CumulativeEventHash: cumulativeEventHash,
		}); err != nil {
			return errors.Wrap(err, "failed to create cumulative event hash")
		}
	}

	// block hash is the last write of a height, it marks the height as fully applied
	if err := grc20DgTx.CreateIndexedBlock(ctx, &entity.IndexedBlock{
		Height: blockHeader.Height,
		Hash:   blockHeader.Hash,
	}); err != nil {
		return errors.Wrap(err, "failed to create indexed block")
	}

	if err := grc20DgTx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	if len(p.newEventMints) > 0 {
		logger.InfoContext(ctx, "Indexed grc20 mints",
			slogx.Int("mints", len(p.newEventMints)),
			slogx.Int("tickers", len(p.codeSupplyChanges)),
		)
	}
	p.resetBuffers()
	return nil
}

func (p *Processor) resetBuffers() {
	p.newEventMints = make([]*entity.EventMint, 0)
	p.newCollectionEntries = make([]*entity.CollectionEntry, 0)
	p.tickSupplyChanges = make([]entity.SupplyChange, 0)
	p.codeSupplyChanges = make([]entity.SupplyChange, 0)
	p.eventHashString = ""
}
