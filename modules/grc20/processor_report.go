package grc20

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/pkg/reportingclient"
)

const (
	// reportTipDistance reports every block once the indexer is this close to the tip.
	reportTipDistance = 10
	// reportInterval is the max number of blocks between two reports while catching up.
	reportInterval = 100
)

func shouldReport(height, latestHeight, lastReportedHeight int64) bool {
	return latestHeight-height < reportTipDistance || height-lastReportedHeight > reportInterval
}

// ReportBlock implements indexer.Reporter.
func (p *Processor) ReportBlock(ctx context.Context, block types.BlockHeader, latestHeight int64) error {
	if p.reportingClient == nil {
		return nil
	}
	if !shouldReport(block.Height, latestHeight, p.lastReportedHeight) {
		return nil
	}

	hashes, err := p.grc20Dg.GetCumulativeEventHashByHeight(ctx, block.Height)
	if err != nil {
		return errors.Wrap(err, "failed to get cumulative event hash")
	}
	if err := p.reportingClient.SubmitBlockReport(ctx, reportingclient.SubmitBlockReportPayload{
		Type:                reportType,
		NodeType:            reportNodeType,
		Network:             p.network,
		Version:             IndexerVersion,
		DBVersion:           DBVersion,
		EventHashVersion:    EventHashVersion,
		BlockHeight:         block.Height,
		BlockHash:           block.Hash.String(),
		BlockEventHash:      hashes.BlockEventHash,
		CumulativeEventHash: hashes.CumulativeEventHash,
	}); err != nil {
		return errors.Wrap(err, "failed to submit block report")
	}
	p.lastReportedHeight = block.Height
	return nil
}
