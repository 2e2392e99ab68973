package datagateway

import (
	"context"

	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
)

type GRC20DataGateway interface {
	GRC20ReaderDataGateway
	GRC20WriterDataGateway
	IndexerInfoDataGateway

	// BeginGRC20Tx returns a new GRC20DataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	BeginGRC20Tx(ctx context.Context) (GRC20DataGatewayWithTx, error)
}

type GRC20DataGatewayWithTx interface {
	GRC20DataGateway
	Tx
}

type GRC20ReaderDataGateway interface {
	GetLatestBlock(ctx context.Context) (types.BlockHeader, error)
	GetIndexedBlockByHeight(ctx context.Context, height int64) (*entity.IndexedBlock, error)
	// GetIndexedBlockRange returns the lowest and highest indexed heights. errs.NotFound if nothing is indexed.
	GetIndexedBlockRange(ctx context.Context) (from int64, to int64, err error)
	GetCumulativeEventHashByHeight(ctx context.Context, height int64) (*entity.CumulativeEventHash, error)
	// GetLatestEventId returns the highest event id, or -1 if there is no event.
	GetLatestEventId(ctx context.Context) (int64, error)
	GetEventTypes(ctx context.Context) (map[entity.EventType]int32, error)
	GetTickers(ctx context.Context) ([]*entity.Ticker, error)
	GetTicker(ctx context.Context, tick, code string) (*entity.Ticker, error)
	// GetEventMintsByHeight returns the mint events of the height ordered by id.
	GetEventMintsByHeight(ctx context.Context, eventType int32, height int64) ([]*entity.EventMint, error)
	GetResidueHeights(ctx context.Context) (entity.ResidueHeights, error)
	// GetMintedAmountsAfterHeight sums the amounts of mint events above the height, per tick and per (tick, code).
	GetMintedAmountsAfterHeight(ctx context.Context, eventType int32, height int64) (ticks []entity.SupplyChange, codes []entity.SupplyChange, err error)
}

type GRC20WriterDataGateway interface {
	CreateEventMints(ctx context.Context, eventType int32, events []*entity.EventMint) error
	CreateCollectionEntries(ctx context.Context, entries []*entity.CollectionEntry) error
	CreateCumulativeEventHash(ctx context.Context, hash *entity.CumulativeEventHash) error
	CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error

	// DecreaseRemainingSupplies subtracts tick changes from every row of the tick, and code changes from the (tick, code) row.
	DecreaseRemainingSupplies(ctx context.Context, ticks []entity.SupplyChange, codes []entity.SupplyChange) error
	// IncreaseRemainingSupplies adds the changes back, bounded by the max supplies.
	IncreaseRemainingSupplies(ctx context.Context, ticks []entity.SupplyChange, codes []entity.SupplyChange) error

	// Delete*AfterHeight deletes all rows with block height greater than the given height.
	DeleteEventsAfterHeight(ctx context.Context, height int64) error
	DeleteCollectionEntriesAfterHeight(ctx context.Context, height int64) error
	DeleteCumulativeEventHashesAfterHeight(ctx context.Context, height int64) error
	DeleteIndexedBlocksAfterHeight(ctx context.Context, height int64) error
	DeleteAllCumulativeEventHashes(ctx context.Context) error

	// ResetSequences resets the id sequences of all tables to their current max id.
	ResetSequences(ctx context.Context) error
}
