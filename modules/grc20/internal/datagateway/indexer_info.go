package datagateway

import (
	"context"

	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
)

type IndexerInfoDataGateway interface {
	GetIndexerVersion(ctx context.Context) (entity.IndexerVersion, error)
	CreateIndexerVersion(ctx context.Context, version entity.IndexerVersion) error
	UpdateIndexerVersion(ctx context.Context, version entity.IndexerVersion) error
}
