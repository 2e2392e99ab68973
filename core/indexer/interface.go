package indexer

import (
	"context"

	"github.com/gaze-network/grc20-indexer/core/types"
)

type IndexerWorker interface {
	Run(ctx context.Context) error
}

type Processor interface {
	Name() string

	// StartingBlock returns the block right before the first height to process,
	// used when nothing has been indexed yet.
	StartingBlock() types.BlockHeader

	// CurrentBlock returns the latest indexed block header. errs.NotFound if nothing is indexed yet.
	CurrentBlock(ctx context.Context) (types.BlockHeader, error)

	// GetIndexedBlock returns the indexed block header of the given height. errs.NotFound if the height is not indexed.
	GetIndexedBlock(ctx context.Context, height int64) (types.BlockHeader, error)

	// ReconcileResidue removes data left beyond the latest fully committed block by an interrupted run.
	ReconcileResidue(ctx context.Context) error

	// Process applies the block and commits all of its data atomically.
	Process(ctx context.Context, block types.BlockHeader) error

	// RevertData reverts all indexed data above the given height.
	RevertData(ctx context.Context, height int64) error

	// Shutdown releases resources held by the processor.
	Shutdown(ctx context.Context) error
}

// Reporter is an optional interface of Processor. If implemented, ReportBlock is called after
// every processed block with the latest height known by the datasource.
type Reporter interface {
	ReportBlock(ctx context.Context, block types.BlockHeader, latestHeight int64) error
}
