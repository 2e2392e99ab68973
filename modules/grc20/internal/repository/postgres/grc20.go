package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
)

func (r *Repository) GetLatestBlock(ctx context.Context) (types.BlockHeader, error) {
	model, err := r.queries.GetLatestIndexedBlock(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.BlockHeader{}, errors.WithStack(errs.NotFound)
		}
		return types.BlockHeader{}, errors.Wrap(err, "error during query")
	}
	block, err := mapIndexedBlockModelToType(model)
	if err != nil {
		return types.BlockHeader{}, errors.Wrap(err, "failed to parse indexed block model")
	}
	return types.BlockHeader{
		Height: block.Height,
		Hash:   block.Hash,
	}, nil
}

func (r *Repository) GetIndexedBlockByHeight(ctx context.Context, height int64) (*entity.IndexedBlock, error) {
	model, err := r.queries.GetIndexedBlockByHeight(ctx, int32(height))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	indexedBlock, err := mapIndexedBlockModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse indexed block model")
	}
	return &indexedBlock, nil
}

func (r *Repository) GetIndexedBlockRange(ctx context.Context) (int64, int64, error) {
	row, err := r.queries.GetIndexedBlockRange(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "error during query")
	}
	if row.Count == 0 {
		return 0, 0, errors.WithStack(errs.NotFound)
	}
	return int64(row.FromHeight), int64(row.ToHeight), nil
}

func (r *Repository) GetCumulativeEventHashByHeight(ctx context.Context, height int64) (*entity.CumulativeEventHash, error) {
	model, err := r.queries.GetCumulativeEventHashByHeight(ctx, int32(height))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	hash := mapCumulativeEventHashModelToType(model)
	return &hash, nil
}

func (r *Repository) GetLatestEventId(ctx context.Context) (int64, error) {
	id, err := r.queries.GetLatestEventId(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "error during query")
	}
	return id, nil
}

func (r *Repository) GetEventTypes(ctx context.Context) (map[entity.EventType]int32, error) {
	models, err := r.queries.GetEventTypes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return lo.SliceToMap(models, func(model gen.Grc20EventType) (entity.EventType, int32) {
		return entity.EventType(model.EventTypeName), model.EventTypeId
	}), nil
}

func (r *Repository) GetTickers(ctx context.Context) ([]*entity.Ticker, error) {
	models, err := r.queries.GetTickers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return lo.Map(models, func(model gen.Grc20Ticker, _ int) *entity.Ticker {
		ticker := mapTickerModelToType(model)
		return &ticker
	}), nil
}

func (r *Repository) GetTicker(ctx context.Context, tick, code string) (*entity.Ticker, error) {
	model, err := r.queries.GetTicker(ctx, gen.GetTickerParams{
		Tick: tick,
		Code: code,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	ticker := mapTickerModelToType(model)
	return &ticker, nil
}

func (r *Repository) GetEventMintsByHeight(ctx context.Context, eventType int32, height int64) ([]*entity.EventMint, error) {
	models, err := r.queries.GetEventsByHeight(ctx, gen.GetEventsByHeightParams{
		EventType:   eventType,
		BlockHeight: int32(height),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	events := make([]*entity.EventMint, 0, len(models))
	for _, model := range models {
		event, err := mapEventMintModelToType(model)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse event %d", model.Id)
		}
		events = append(events, &event)
	}
	return events, nil
}

func (r *Repository) GetResidueHeights(ctx context.Context) (entity.ResidueHeights, error) {
	row, err := r.queries.GetResidueHeights(ctx)
	if err != nil {
		return entity.ResidueHeights{}, errors.Wrap(err, "error during query")
	}
	return entity.ResidueHeights{
		Events:                int64(row.EventsHeight),
		Tickers:               int64(row.TickersHeight),
		Collections:           int64(row.CollectionsHeight),
		CumulativeEventHashes: int64(row.CumulativeEventHashesHeight),
	}, nil
}

func (r *Repository) GetMintedAmountsAfterHeight(ctx context.Context, eventType int32, height int64) ([]entity.SupplyChange, []entity.SupplyChange, error) {
	tickRows, err := r.queries.GetMintedTickAmountsAfterHeight(ctx, gen.GetMintedTickAmountsAfterHeightParams{
		EventType:   eventType,
		BlockHeight: int32(height),
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "error during query tick amounts")
	}
	codeRows, err := r.queries.GetMintedCodeAmountsAfterHeight(ctx, gen.GetMintedCodeAmountsAfterHeightParams{
		EventType:   eventType,
		BlockHeight: int32(height),
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "error during query code amounts")
	}
	ticks := lo.Map(tickRows, func(row gen.GetMintedTickAmountsAfterHeightRow, _ int) entity.SupplyChange {
		return entity.SupplyChange{Tick: row.Tick, Amount: decimalFromNumeric(row.Amount)}
	})
	codes := lo.Map(codeRows, func(row gen.GetMintedCodeAmountsAfterHeightRow, _ int) entity.SupplyChange {
		return entity.SupplyChange{Tick: row.Tick, Code: row.Code, Amount: decimalFromNumeric(row.Amount)}
	})
	return ticks, codes, nil
}

func (r *Repository) CreateEventMints(ctx context.Context, eventType int32, events []*entity.EventMint) error {
	if len(events) == 0 {
		return nil
	}
	params, err := mapEventMintTypesToParams(eventType, events)
	if err != nil {
		return errors.Wrap(err, "failed to map mint events to params")
	}
	if err := r.queries.BatchCreateEvents(ctx, params); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) CreateCollectionEntries(ctx context.Context, entries []*entity.CollectionEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.queries.BatchCreateCollections(ctx, mapCollectionEntryTypesToParams(entries)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) CreateCumulativeEventHash(ctx context.Context, hash *entity.CumulativeEventHash) error {
	if err := r.queries.CreateCumulativeEventHash(ctx, gen.CreateCumulativeEventHashParams{
		BlockHeight:         int32(hash.BlockHeight),
		BlockEventHash:      hash.BlockEventHash,
		CumulativeEventHash: hash.CumulativeEventHash,
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error {
	if err := r.queries.CreateIndexedBlock(ctx, gen.CreateIndexedBlockParams{
		BlockHeight: int32(block.Height),
		BlockHash:   block.Hash.String(),
	}); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DecreaseRemainingSupplies(ctx context.Context, ticks []entity.SupplyChange, codes []entity.SupplyChange) error {
	for _, change := range ticks {
		if err := r.queries.DecreaseTickRemainingSupply(ctx, gen.DecreaseTickRemainingSupplyParams{
			Amount: numericFromDecimal(change.Amount),
			Tick:   change.Tick,
		}); err != nil {
			return errors.Wrapf(err, "error during exec, tick: %s", change.Tick)
		}
	}
	for _, change := range codes {
		if err := r.queries.DecreaseCodeRemainingSupply(ctx, gen.DecreaseCodeRemainingSupplyParams{
			Amount: numericFromDecimal(change.Amount),
			Tick:   change.Tick,
			Code:   change.Code,
		}); err != nil {
			return errors.Wrapf(err, "error during exec, tick: %s, code: %s", change.Tick, change.Code)
		}
	}
	return nil
}

func (r *Repository) IncreaseRemainingSupplies(ctx context.Context, ticks []entity.SupplyChange, codes []entity.SupplyChange) error {
	for _, change := range ticks {
		if err := r.queries.IncreaseTickRemainingSupply(ctx, gen.IncreaseTickRemainingSupplyParams{
			Amount: numericFromDecimal(change.Amount),
			Tick:   change.Tick,
		}); err != nil {
			return errors.Wrapf(err, "error during exec, tick: %s", change.Tick)
		}
	}
	for _, change := range codes {
		if err := r.queries.IncreaseCodeRemainingSupply(ctx, gen.IncreaseCodeRemainingSupplyParams{
			Amount: numericFromDecimal(change.Amount),
			Tick:   change.Tick,
			Code:   change.Code,
		}); err != nil {
			return errors.Wrapf(err, "error during exec, tick: %s, code: %s", change.Tick, change.Code)
		}
	}
	return nil
}

func (r *Repository) DeleteEventsAfterHeight(ctx context.Context, height int64) error {
	if err := r.queries.DeleteEventsAfterHeight(ctx, int32(height)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteCollectionEntriesAfterHeight(ctx context.Context, height int64) error {
	if err := r.queries.DeleteCollectionsAfterHeight(ctx, int32(height)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteCumulativeEventHashesAfterHeight(ctx context.Context, height int64) error {
	if err := r.queries.DeleteCumulativeEventHashesAfterHeight(ctx, int32(height)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteIndexedBlocksAfterHeight(ctx context.Context, height int64) error {
	if err := r.queries.DeleteIndexedBlocksAfterHeight(ctx, int32(height)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) DeleteAllCumulativeEventHashes(ctx context.Context) error {
	if err := r.queries.DeleteAllCumulativeEventHashes(ctx); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) ResetSequences(ctx context.Context) error {
	if err := r.queries.ResetSequences(ctx); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
