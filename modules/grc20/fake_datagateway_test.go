package grc20

import (
	"context"
	"slices"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/datagateway"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/shopspring/decimal"
)

type storedEvent struct {
	eventType int32
	event     *entity.EventMint
}

type fakeState struct {
	indexerVersion *entity.IndexerVersion
	eventTypes     map[entity.EventType]int32
	blocks         map[int64]chainhash.Hash
	hashes         map[int64]entity.CumulativeEventHash
	tickers        []*entity.Ticker
	events         []storedEvent
	collections    []*entity.CollectionEntry
	reverts        int // committed or pending calls of DeleteEventsAfterHeight
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{
		eventTypes:  make(map[entity.EventType]int32, len(s.eventTypes)),
		blocks:      make(map[int64]chainhash.Hash, len(s.blocks)),
		hashes:      make(map[int64]entity.CumulativeEventHash, len(s.hashes)),
		tickers:     make([]*entity.Ticker, 0, len(s.tickers)),
		events:      slices.Clone(s.events),
		collections: slices.Clone(s.collections),
		reverts:     s.reverts,
	}
	if s.indexerVersion != nil {
		v := *s.indexerVersion
		c.indexerVersion = &v
	}
	for k, v := range s.eventTypes {
		c.eventTypes[k] = v
	}
	for k, v := range s.blocks {
		c.blocks[k] = v
	}
	for k, v := range s.hashes {
		c.hashes[k] = v
	}
	for _, ticker := range s.tickers {
		t := *ticker
		c.tickers = append(c.tickers, &t)
	}
	return c
}

// fakeGRC20DataGateway is an in-memory datagateway.GRC20DataGateway. Transactions work on a
// copy of the state that replaces the parent state on commit.
type fakeGRC20DataGateway struct {
	state  *fakeState
	parent *fakeGRC20DataGateway
	done   bool
}

var _ datagateway.GRC20DataGatewayWithTx = (*fakeGRC20DataGateway)(nil)

func newFakeGRC20DataGateway() *fakeGRC20DataGateway {
	return &fakeGRC20DataGateway{
		state: &fakeState{
			eventTypes: map[entity.EventType]int32{entity.EventTypeMintInscribe: 0},
			blocks:     make(map[int64]chainhash.Hash),
			hashes:     make(map[int64]entity.CumulativeEventHash),
		},
	}
}

func (f *fakeGRC20DataGateway) deploy(tick, code string, maxTickSupply, maxCodeSupply int64, decimals uint16, height int64) {
	f.state.tickers = append(f.state.tickers, &entity.Ticker{
		Tick:                tick,
		Code:                code,
		OriginalTick:        tick,
		MaxTickSupply:       decimal.NewFromInt(maxTickSupply),
		MaxCodeSupply:       decimal.NewFromInt(maxCodeSupply),
		TickRemainingSupply: decimal.NewFromInt(maxTickSupply),
		CodeRemainingSupply: decimal.NewFromInt(maxCodeSupply),
		Decimals:            decimals,
		BlockHeight:         height,
	})
}

func (f *fakeGRC20DataGateway) BeginGRC20Tx(ctx context.Context) (datagateway.GRC20DataGatewayWithTx, error) {
	return &fakeGRC20DataGateway{
		state:  f.state.clone(),
		parent: f,
	}, nil
}

func (f *fakeGRC20DataGateway) Commit(ctx context.Context) error {
	if f.parent == nil || f.done {
		return nil
	}
	f.parent.state = f.state
	f.done = true
	return nil
}

func (f *fakeGRC20DataGateway) Rollback(ctx context.Context) error {
	f.done = true
	return nil
}

func (f *fakeGRC20DataGateway) GetLatestBlock(ctx context.Context) (types.BlockHeader, error) {
	if len(f.state.blocks) == 0 {
		return types.BlockHeader{}, errors.WithStack(errs.NotFound)
	}
	latest := int64(-1)
	for height := range f.state.blocks {
		latest = max(latest, height)
	}
	return types.BlockHeader{Height: latest, Hash: f.state.blocks[latest]}, nil
}

func (f *fakeGRC20DataGateway) GetIndexedBlockByHeight(ctx context.Context, height int64) (*entity.IndexedBlock, error) {
	hash, ok := f.state.blocks[height]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &entity.IndexedBlock{Height: height, Hash: hash}, nil
}

func (f *fakeGRC20DataGateway) GetIndexedBlockRange(ctx context.Context) (int64, int64, error) {
	if len(f.state.blocks) == 0 {
		return 0, 0, errors.WithStack(errs.NotFound)
	}
	from, to := int64(-1), int64(-1)
	for height := range f.state.blocks {
		if from == -1 || height < from {
			from = height
		}
		to = max(to, height)
	}
	return from, to, nil
}

func (f *fakeGRC20DataGateway) GetCumulativeEventHashByHeight(ctx context.Context, height int64) (*entity.CumulativeEventHash, error) {
	hash, ok := f.state.hashes[height]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return &hash, nil
}

func (f *fakeGRC20DataGateway) GetLatestEventId(ctx context.Context) (int64, error) {
	latest := int64(-1)
	for _, e := range f.state.events {
		latest = max(latest, e.event.Id)
	}
	return latest, nil
}

func (f *fakeGRC20DataGateway) GetEventTypes(ctx context.Context) (map[entity.EventType]int32, error) {
	return f.state.eventTypes, nil
}

func (f *fakeGRC20DataGateway) GetTickers(ctx context.Context) ([]*entity.Ticker, error) {
	return f.state.clone().tickers, nil
}

func (f *fakeGRC20DataGateway) GetTicker(ctx context.Context, tick, code string) (*entity.Ticker, error) {
	for _, ticker := range f.state.tickers {
		if ticker.Tick == tick && ticker.Code == code {
			t := *ticker
			return &t, nil
		}
	}
	return nil, errors.WithStack(errs.NotFound)
}

func (f *fakeGRC20DataGateway) GetEventMintsByHeight(ctx context.Context, eventType int32, height int64) ([]*entity.EventMint, error) {
	events := make([]*entity.EventMint, 0)
	for _, e := range f.state.events {
		if e.eventType == eventType && e.event.BlockHeight == height {
			events = append(events, e.event)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Id < events[j].Id })
	return events, nil
}

func (f *fakeGRC20DataGateway) GetResidueHeights(ctx context.Context) (entity.ResidueHeights, error) {
	heights := entity.ResidueHeights{Events: -1, Tickers: -1, Collections: -1, CumulativeEventHashes: -1}
	for _, e := range f.state.events {
		heights.Events = max(heights.Events, e.event.BlockHeight)
	}
	for _, t := range f.state.tickers {
		heights.Tickers = max(heights.Tickers, t.BlockHeight)
	}
	for _, c := range f.state.collections {
		heights.Collections = max(heights.Collections, c.BlockHeight)
	}
	for height := range f.state.hashes {
		heights.CumulativeEventHashes = max(heights.CumulativeEventHashes, height)
	}
	return heights, nil
}

func (f *fakeGRC20DataGateway) GetMintedAmountsAfterHeight(ctx context.Context, eventType int32, height int64) ([]entity.SupplyChange, []entity.SupplyChange, error) {
	tickAmounts := make(map[string]decimal.Decimal)
	codeAmounts := make(map[[2]string]decimal.Decimal)
	for _, e := range f.state.events {
		if e.eventType != eventType || e.event.BlockHeight <= height {
			continue
		}
		tickAmounts[e.event.Tick] = tickAmounts[e.event.Tick].Add(e.event.Amount)
		key := [2]string{e.event.Tick, e.event.Code}
		codeAmounts[key] = codeAmounts[key].Add(e.event.Amount)
	}
	ticks := make([]entity.SupplyChange, 0, len(tickAmounts))
	for tick, amount := range tickAmounts {
		ticks = append(ticks, entity.SupplyChange{Tick: tick, Amount: amount})
	}
	codes := make([]entity.SupplyChange, 0, len(codeAmounts))
	for key, amount := range codeAmounts {
		codes = append(codes, entity.SupplyChange{Tick: key[0], Code: key[1], Amount: amount})
	}
	return ticks, codes, nil
}

func (f *fakeGRC20DataGateway) CreateEventMints(ctx context.Context, eventType int32, events []*entity.EventMint) error {
	for _, event := range events {
		for _, e := range f.state.events {
			if e.event.Id == event.Id {
				return errors.Newf("duplicate event id %d", event.Id)
			}
		}
		f.state.events = append(f.state.events, storedEvent{eventType: eventType, event: event})
	}
	return nil
}

func (f *fakeGRC20DataGateway) CreateCollectionEntries(ctx context.Context, entries []*entity.CollectionEntry) error {
	f.state.collections = append(f.state.collections, entries...)
	return nil
}

func (f *fakeGRC20DataGateway) CreateCumulativeEventHash(ctx context.Context, hash *entity.CumulativeEventHash) error {
	if _, ok := f.state.hashes[hash.BlockHeight]; ok {
		return errors.Newf("duplicate cumulative event hash at height %d", hash.BlockHeight)
	}
	f.state.hashes[hash.BlockHeight] = *hash
	return nil
}

func (f *fakeGRC20DataGateway) CreateIndexedBlock(ctx context.Context, block *entity.IndexedBlock) error {
	if _, ok := f.state.blocks[block.Height]; ok {
		return errors.Newf("duplicate indexed block at height %d", block.Height)
	}
	f.state.blocks[block.Height] = block.Hash
	return nil
}

func (f *fakeGRC20DataGateway) DecreaseRemainingSupplies(ctx context.Context, ticks []entity.SupplyChange, codes []entity.SupplyChange) error {
	for _, change := range ticks {
		for _, ticker := range f.state.tickers {
			if ticker.Tick == change.Tick {
				ticker.TickRemainingSupply = ticker.TickRemainingSupply.Sub(change.Amount)
				if ticker.TickRemainingSupply.IsNegative() {
					return errors.Newf("tick %s remaining supply is negative", change.Tick)
				}
			}
		}
	}
	for _, change := range codes {
		for _, ticker := range f.state.tickers {
			if ticker.Tick == change.Tick && ticker.Code == change.Code {
				ticker.CodeRemainingSupply = ticker.CodeRemainingSupply.Sub(change.Amount)
				if ticker.CodeRemainingSupply.IsNegative() {
					return errors.Newf("code %s/%s remaining supply is negative", change.Tick, change.Code)
				}
			}
		}
	}
	return nil
}

func (f *fakeGRC20DataGateway) IncreaseRemainingSupplies(ctx context.Context, ticks []entity.SupplyChange, codes []entity.SupplyChange) error {
	for _, change := range ticks {
		for _, ticker := range f.state.tickers {
			if ticker.Tick == change.Tick {
				ticker.TickRemainingSupply = decimal.Min(ticker.TickRemainingSupply.Add(change.Amount), ticker.MaxTickSupply)
			}
		}
	}
	for _, change := range codes {
		for _, ticker := range f.state.tickers {
			if ticker.Tick == change.Tick && ticker.Code == change.Code {
				ticker.CodeRemainingSupply = decimal.Min(ticker.CodeRemainingSupply.Add(change.Amount), ticker.MaxCodeSupply)
			}
		}
	}
	return nil
}

func (f *fakeGRC20DataGateway) DeleteEventsAfterHeight(ctx context.Context, height int64) error {
	f.state.reverts++
	f.state.events = slices.DeleteFunc(f.state.events, func(e storedEvent) bool { return e.event.BlockHeight > height })
	return nil
}

func (f *fakeGRC20DataGateway) DeleteCollectionEntriesAfterHeight(ctx context.Context, height int64) error {
	f.state.collections = slices.DeleteFunc(f.state.collections, func(c *entity.CollectionEntry) bool { return c.BlockHeight > height })
	return nil
}

func (f *fakeGRC20DataGateway) DeleteCumulativeEventHashesAfterHeight(ctx context.Context, height int64) error {
	for h := range f.state.hashes {
		if h > height {
			delete(f.state.hashes, h)
		}
	}
	return nil
}

func (f *fakeGRC20DataGateway) DeleteIndexedBlocksAfterHeight(ctx context.Context, height int64) error {
	for h := range f.state.blocks {
		if h > height {
			delete(f.state.blocks, h)
		}
	}
	return nil
}

func (f *fakeGRC20DataGateway) DeleteAllCumulativeEventHashes(ctx context.Context) error {
	f.state.hashes = make(map[int64]entity.CumulativeEventHash)
	return nil
}

func (f *fakeGRC20DataGateway) ResetSequences(ctx context.Context) error {
	return nil
}

func (f *fakeGRC20DataGateway) GetIndexerVersion(ctx context.Context) (entity.IndexerVersion, error) {
	if f.state.indexerVersion == nil {
		return entity.IndexerVersion{}, errors.WithStack(errs.NotFound)
	}
	return *f.state.indexerVersion, nil
}

func (f *fakeGRC20DataGateway) CreateIndexerVersion(ctx context.Context, version entity.IndexerVersion) error {
	f.state.indexerVersion = &version
	return nil
}

func (f *fakeGRC20DataGateway) UpdateIndexerVersion(ctx context.Context, version entity.IndexerVersion) error {
	f.state.indexerVersion = &version
	return nil
}

type fakeTransfersSource struct {
	transfers map[int64][]*types.InscriptionTransfer
	err       error
}

func (f *fakeTransfersSource) GetTransfers(ctx context.Context, height int64) ([]*types.InscriptionTransfer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.transfers[height], nil
}
