package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
)

func (u *Usecase) GetLatestBlock(ctx context.Context) (types.BlockHeader, error) {
	blockHeader, err := u.dg.GetLatestBlock(ctx)
	if err != nil {
		return types.BlockHeader{}, errors.Wrap(err, "failed to get latest block")
	}
	return blockHeader, nil
}

// GetCumulativeEventHash returns the event hashes of the height. Returns errs.NotFound if the height is not indexed.
func (u *Usecase) GetCumulativeEventHash(ctx context.Context, height int64) (*entity.CumulativeEventHash, error) {
	hash, err := u.dg.GetCumulativeEventHashByHeight(ctx, height)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to get cumulative event hash")
	}
	return hash, nil
}
