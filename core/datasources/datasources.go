package datasources

import (
	"context"

	"github.com/gaze-network/grc20-indexer/core/types"
)

// Datasource is an interface for indexer data sources.
type Datasource interface {
	Name() string

	// GetLatestBlockHeight returns the highest height known by the datasource, or -1 if it has no blocks yet.
	GetLatestBlockHeight(ctx context.Context) (int64, error)

	// GetBlockHeader returns the header of the given height. errs.NotFound if the height is unknown.
	GetBlockHeader(ctx context.Context, height int64) (types.BlockHeader, error)
}
