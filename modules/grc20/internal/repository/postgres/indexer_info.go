package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) GetIndexerVersion(ctx context.Context) (entity.IndexerVersion, error) {
	model, err := r.queries.GetLatestIndexerVersion(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.IndexerVersion{}, errors.WithStack(errs.NotFound)
		}
		return entity.IndexerVersion{}, errors.Wrap(err, "error during query")
	}
	return mapIndexerVersionModelToType(model), nil
}

func (r *Repository) CreateIndexerVersion(ctx context.Context, version entity.IndexerVersion) error {
	if err := r.queries.CreateIndexerVersion(ctx, mapIndexerVersionTypeToParams(version)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpdateIndexerVersion(ctx context.Context, version entity.IndexerVersion) error {
	if err := r.queries.UpdateIndexerVersion(ctx, gen.UpdateIndexerVersionParams{
		IndexerVersion:   version.IndexerVersion,
		DbVersion:        version.DBVersion,
		EventHashVersion: version.EventHashVersion,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
