package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
)

// GetMintEventsByHeight returns the mint events of the height ordered by id.
func (u *Usecase) GetMintEventsByHeight(ctx context.Context, height int64) ([]*entity.EventMint, error) {
	eventTypes, err := u.dg.GetEventTypes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get event types")
	}
	eventType, ok := eventTypes[entity.EventTypeMintInscribe]
	if !ok {
		return nil, errors.Wrapf(errs.InternalError, "event type %q is not registered", entity.EventTypeMintInscribe)
	}
	events, err := u.dg.GetEventMintsByHeight(ctx, eventType, height)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get mint events")
	}
	return events, nil
}
