package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
)

// GetTicker returns the ticker of (tick, code). Lookups are case-insensitive. Returns errs.NotFound if it is not deployed.
func (u *Usecase) GetTicker(ctx context.Context, tick, code string) (*entity.Ticker, error) {
	ticker, err := u.dg.GetTicker(ctx, strings.ToLower(tick), strings.ToLower(code))
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "failed to get ticker")
	}
	return ticker, nil
}
