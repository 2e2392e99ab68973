package grc20

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
)

// ReconcileResidue implements indexer.Processor.
func (p *Processor) ReconcileResidue(ctx context.Context) error {
	expectedHeight := firstInscriptionHeights[p.network]
	latestBlock, err := p.grc20Dg.GetLatestBlock(ctx)
	switch {
	case err == nil:
		expectedHeight = latestBlock.Height + 1
	case errors.Is(err, errs.NotFound):
	default:
		return errors.Wrap(err, "failed to get latest block")
	}

	heights, err := p.grc20Dg.GetResidueHeights(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get residue heights")
	}
	if heights.Events < expectedHeight &&
		heights.Collections < expectedHeight &&
		heights.CumulativeEventHashes < expectedHeight {
		// tickers are never reverted, so tickers alone leave nothing to revert
		if heights.Tickers >= expectedHeight && p.tickerResidueHeight != expectedHeight {
			p.tickerResidueHeight = expectedHeight
			logger.WarnContext(ctx, "Found tickers deployed above the indexed height",
				slogx.String("event", "ticker_residue_detected"),
				slogx.Int64("expected_height", expectedHeight),
				slogx.Int64("max_ticker_height", heights.Tickers),
			)
		}
		return nil
	}

	logger.WarnContext(ctx, "Found residue data of an interrupted block, reverting...",
		slogx.String("event", "residue_detected"),
		slogx.Int64("expected_height", expectedHeight),
		slogx.Int64("max_event_height", heights.Events),
		slogx.Int64("max_ticker_height", heights.Tickers),
		slogx.Int64("max_collection_height", heights.Collections),
		slogx.Int64("max_cumulative_hash_height", heights.CumulativeEventHashes),
	)
	if err := p.RevertData(ctx, expectedHeight-1); err != nil {
		return errors.Wrap(err, "failed to revert residue data")
	}
	return nil
}
