package grc20

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/gaze-network/grc20-indexer/pkg/reportingclient"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jsonContentType = hex.EncodeToString([]byte("application/json"))

func newMintTransfer(height int64, n int, tick, code string) *types.InscriptionTransfer {
	return &types.InscriptionTransfer{
		BlockHeight:   height,
		InscriptionId: fmt.Sprintf("%064d", height) + fmt.Sprintf("i%d", n),
		NewPkScript:   fmt.Sprintf("0014%040d", n),
		NewWallet:     fmt.Sprintf("bcrt1q%d", n),
		Content:       json.RawMessage(fmt.Sprintf(`{"p":"grc-20","op":"loot","game":%q,"code":%q}`, tick, code)),
		ContentType:   jsonContentType,
	}
}

func blockAt(height int64) types.BlockHeader {
	return types.BlockHeader{
		Height: height,
		Hash:   chainhash.DoubleHashH([]byte(fmt.Sprintf("block-%d", height))),
	}
}

func newTestProcessor(t *testing.T, dg *fakeGRC20DataGateway, source *fakeTransfersSource) *Processor {
	t.Helper()
	p := NewProcessor(dg, source, nil, common.NetworkRegtest, nil)
	require.NoError(t, p.VerifyStates(context.Background()))
	return p
}

func requireTicker(t *testing.T, dg *fakeGRC20DataGateway, tick, code string, tickRemaining, codeRemaining int64) {
	t.Helper()
	ticker, err := dg.GetTicker(context.Background(), tick, code)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(tickRemaining).Equal(ticker.TickRemainingSupply), "tick remaining supply of %s/%s: %s", tick, code, ticker.TickRemainingSupply)
	assert.True(t, decimal.NewFromInt(codeRemaining).Equal(ticker.CodeRemainingSupply), "code remaining supply of %s/%s: %s", tick, code, ticker.CodeRemainingSupply)
}

func TestProcessMints(t *testing.T) {
	ctx := context.Background()
	dg := newFakeGRC20DataGateway()
	dg.deploy("arena", "x1", 10, 5, 0, 50)
	source := &fakeTransfersSource{transfers: map[int64][]*types.InscriptionTransfer{
		100: {
			newMintTransfer(100, 0, "arena", "x1"),
			newMintTransfer(100, 1, "Arena", "X1"),
			newMintTransfer(100, 2, "arena", "x1"),
		},
	}}
	p := newTestProcessor(t, dg, source)

	require.NoError(t, p.Process(ctx, blockAt(100)))

	events, err := dg.GetEventMintsByHeight(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, events, 3)
	eventStrings := make([]string, 0, len(events))
	for i, event := range events {
		assert.Equal(t, int64(i), event.Id)
		assert.Equal(t, "arena", event.Tick)
		assert.Equal(t, "x1", event.Code)
		assert.True(t, decimal.NewFromInt(1).Equal(event.Amount))
		eventStrings = append(eventStrings, fmt.Sprintf("mint-inscribe;%s;%s;arena;x1;0;", event.InscriptionId, event.MintedPkScript))
	}
	requireTicker(t, dg, "arena", "x1", 7, 2)
	assert.Len(t, dg.state.collections, 3)

	hashes, err := dg.GetCumulativeEventHashByHeight(ctx, 100)
	require.NoError(t, err)
	expected := sha256.Sum256([]byte(strings.Join(eventStrings, "|")))
	assert.Equal(t, hex.EncodeToString(expected[:]), hashes.BlockEventHash)
	assert.Equal(t, hashes.BlockEventHash, hashes.CumulativeEventHash, "first hashed height has no previous hash")

	latest, err := p.CurrentBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, blockAt(100), latest)
	assert.Equal(t, common.ModuleGRC20.String(), p.Name())
}

func TestProcessRejectsNullTick(t *testing.T) {
	ctx := context.Background()
	dg := newFakeGRC20DataGateway()
	dg.deploy("", "x1", 10, 5, 0, 50)
	transfer := newMintTransfer(100, 0, "", "x1")
	transfer.Content = json.RawMessage(`{"p":"grc-20","game":null,"code":"x1"}`)
	source := &fakeTransfersSource{transfers: map[int64][]*types.InscriptionTransfer{100: {transfer}}}
	p := newTestProcessor(t, dg, source)

	require.NoError(t, p.Process(ctx, blockAt(100)))

	events, err := dg.GetEventMintsByHeight(ctx, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, events)
	requireTicker(t, dg, "", "x1", 10, 5)
}

func TestProcessEmptyBlockChainsHash(t *testing.T) {
	ctx := context.Background()
	dg := newFakeGRC20DataGateway()
	dg.deploy("arena", "x1", 10, 1, 0, 50)
	source := &fakeTransfersSource{transfers: map[int64][]*types.InscriptionTransfer{
		100: {newMintTransfer(100, 0, "arena", "x1")},
		101: {newMintTransfer(101, 0, "arena", "x1")},
	}}
	p := newTestProcessor(t, dg, source)

	require.NoError(t, p.Process(ctx, blockAt(100)))
	require.NoError(t, p.Process(ctx, blockAt(101)))

	events, err := dg.GetEventMintsByHeight(ctx, 0, 101)
	require.NoError(t, err)
	assert.Empty(t, events, "code is minted out")
	requireTicker(t, dg, "arena", "x1", 9, 0)

	prev, err := dg.GetCumulativeEventHashByHeight(ctx, 100)
	require.NoError(t, err)
	hashes, err := dg.GetCumulativeEventHashByHeight(ctx, 101)
	require.NoError(t, err)
	emptyHash := sha256Hex("")
	assert.Equal(t, emptyHash, hashes.BlockEventHash)
	assert.Equal(t, sha256Hex(prev.CumulativeEventHash+emptyHash), hashes.CumulativeEventHash)
}

func TestProcessSharedTickSupply(t *testing.T) {
	ctx := context.Background()
	dg := newFakeGRC20DataGateway()
	dg.deploy("arena", "x1", 3, 5, 0, 50)
	dg.deploy("arena", "x2", 3, 5, 0, 50)
	source := &fakeTransfersSource{transfers: map[int64][]*types.InscriptionTransfer{
		100: {
			newMintTransfer(100, 0, "arena", "x1"),
			newMintTransfer(100, 1, "arena", "x2"),
			newMintTransfer(100, 2, "arena", "x1"),
			newMintTransfer(100, 3, "arena", "x2"),
			newMintTransfer(100, 4, "arena", "x3"),
		},
	}}
	p := newTestProcessor(t, dg, source)

	require.NoError(t, p.Process(ctx, blockAt(100)))

	events, err := dg.GetEventMintsByHeight(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{"x1", "x2", "x1"}, []string{events[0].Code, events[1].Code, events[2].Code})
	requireTicker(t, dg, "arena", "x1", 0, 3)
	requireTicker(t, dg, "arena", "x2", 0, 4)
}

func TestProcessBeforeActivation(t *testing.T) {
	ctx := context.Background()
	dg := newFakeGRC20DataGateway()
	source := &fakeTransfersSource{err: errors.New("must not be called")}
	p := NewProcessor(dg, source, nil, common.NetworkMainnet, nil)
	require.NoError(t, p.VerifyStates(ctx))

	height := activationHeights[common.NetworkMainnet] - 1
	require.NoError(t, p.Process(ctx, blockAt(height)))

	hashes, err := dg.GetCumulativeEventHashByHeight(ctx, height)
	require.NoError(t, err)
	assert.Equal(t, sha256Hex(""), hashes.BlockEventHash)
}

func TestProcessFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	dg := newFakeGRC20DataGateway()
	dg.deploy("arena", "x1", 10, 5, 0, 50)
	source := &fakeTransfersSource{transfers: map[int64][]*types.InscriptionTransfer{
		100: {newMintTransfer(100, 0, "arena", "x1")},
		101: {newMintTransfer(101, 0, "arena", "x1")},
	}}
	p := newTestProcessor(t, dg, source)
	require.NoError(t, p.Process(ctx, blockAt(100)))

	// the block hash of 100 is already stored, flushing it again must fail after the cache was updated
	err := p.Process(ctx, blockAt(100))
	require.Error(t, err)

	supply, ok := p.supplies.Get("arena", "x1")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(4).Equal(supply.CodeRemainingSupply), "cache must be rebuilt from the store")
	requireTicker(t, dg, "arena", "x1", 9, 4)
	assert.Empty(t, p.newEventMints)
	assert.Empty(t, p.eventHashString)

	require.NoError(t, p.Process(ctx, blockAt(101)))
	requireTicker(t, dg, "arena", "x1", 8, 3)
}

func TestRevertData(t *testing.T) {
	ctx := context.Background()
	dg := newFakeGRC20DataGateway()
	dg.deploy("arena", "x1", 10, 5, 0, 50)
	dg.deploy("arena", "x2", 10, 5, 0, 50)
	source := &fakeTransfersSource{transfers: map[int64][]*types.InscriptionTransfer{
		100: {newMintTransfer(100, 0, "arena", "x1")},
		101: {
			newMintTransfer(101, 0, "arena", "x1"),
			newMintTransfer(101, 1, "arena", "x2"),
		},
	}}
	p := newTestProcessor(t, dg, source)

	require.NoError(t, p.Process(ctx, blockAt(100)))
	require.NoError(t, p.Process(ctx, blockAt(101)))
	firstHashes, err := dg.GetCumulativeEventHashByHeight(ctx, 101)
	require.NoError(t, err)
	requireTicker(t, dg, "arena", "x1", 7, 3)

	require.NoError(t, p.RevertData(ctx, 100))

	latest, err := p.CurrentBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), latest.Height)
	_, err = dg.GetCumulativeEventHashByHeight(ctx, 101)
	assert.ErrorIs(t, err, errs.NotFound)
	events, err := dg.GetEventMintsByHeight(ctx, 0, 101)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Len(t, dg.state.collections, 1)
	requireTicker(t, dg, "arena", "x1", 9, 4)
	requireTicker(t, dg, "arena", "x2", 9, 5)

	supply, _ := p.supplies.Get("arena", "x2")
	assert.True(t, decimal.NewFromInt(9).Equal(supply.TickRemainingSupply))
	assert.True(t, decimal.NewFromInt(5).Equal(supply.CodeRemainingSupply))

	// reprocessing the same block gives the same hashes and event ids
	require.NoError(t, p.Process(ctx, blockAt(101)))
	secondHashes, err := dg.GetCumulativeEventHashByHeight(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, firstHashes, secondHashes)
	events, err = dg.GetEventMintsByHeight(ctx, 0, 101)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].Id)
	assert.Equal(t, int64(2), events[1].Id)
}

func TestReconcileResidue(t *testing.T) {
	ctx := context.Background()
	dg := newFakeGRC20DataGateway()
	dg.deploy("arena", "x1", 10, 5, 0, 50)
	source := &fakeTransfersSource{transfers: map[int64][]*types.InscriptionTransfer{
		100: {newMintTransfer(100, 0, "arena", "x1")},
	}}
	p := newTestProcessor(t, dg, source)
	require.NoError(t, p.Process(ctx, blockAt(100)))

	t.Run("clean store", func(t *testing.T) {
		require.NoError(t, p.ReconcileResidue(ctx))
		requireTicker(t, dg, "arena", "x1", 9, 4)
	})

	t.Run("interrupted block", func(t *testing.T) {
		// writes of height 101 without its block hash
		one := decimal.NewFromInt(1)
		require.NoError(t, dg.CreateEventMints(ctx, 0, []*entity.EventMint{{
			Id: 1, InscriptionId: "residue", BlockHeight: 101, Tick: "arena", Code: "x1", Amount: one,
		}}))
		require.NoError(t, dg.DecreaseRemainingSupplies(ctx,
			[]entity.SupplyChange{{Tick: "arena", Amount: one}},
			[]entity.SupplyChange{{Tick: "arena", Code: "x1", Amount: one}},
		))
		require.NoError(t, dg.CreateCollectionEntries(ctx, []*entity.CollectionEntry{{Tick: "arena", Code: "x1", InscriptionId: "residue", BlockHeight: 101}}))
		requireTicker(t, dg, "arena", "x1", 8, 3)

		require.NoError(t, p.ReconcileResidue(ctx))

		requireTicker(t, dg, "arena", "x1", 9, 4)
		events, err := dg.GetEventMintsByHeight(ctx, 0, 101)
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.Len(t, dg.state.collections, 1)

		heights, err := dg.GetResidueHeights(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(100), heights.Events)
	})

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, p.ReconcileResidue(ctx))
		require.NoError(t, p.ReconcileResidue(ctx))
		requireTicker(t, dg, "arena", "x1", 9, 4)
		_, err := dg.GetCumulativeEventHashByHeight(ctx, 100)
		assert.NoError(t, err)
	})

	t.Run("tickers deployed ahead", func(t *testing.T) {
		dg.deploy("future", "x1", 10, 5, 0, 500)
		reverts := dg.state.reverts

		require.NoError(t, p.ReconcileResidue(ctx))
		require.NoError(t, p.ReconcileResidue(ctx))

		assert.Equal(t, reverts, dg.state.reverts, "tickers alone must not trigger a revert")
		assert.Equal(t, int64(101), p.tickerResidueHeight)
		requireTicker(t, dg, "future", "x1", 10, 5)
		requireTicker(t, dg, "arena", "x1", 9, 4)
	})
}

func TestVerifyStates(t *testing.T) {
	ctx := context.Background()

	t.Run("creates indexer version", func(t *testing.T) {
		dg := newFakeGRC20DataGateway()
		p := NewProcessor(dg, &fakeTransfersSource{}, nil, common.NetworkRegtest, nil)
		require.NoError(t, p.VerifyStates(ctx))

		version, err := dg.GetIndexerVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, IndexerVersion, version.IndexerVersion)
		assert.Equal(t, int32(DBVersion), version.DBVersion)
		assert.Equal(t, common.NetworkRegtest, version.Network)
	})

	t.Run("network mismatch", func(t *testing.T) {
		dg := newFakeGRC20DataGateway()
		require.NoError(t, NewProcessor(dg, &fakeTransfersSource{}, nil, common.NetworkRegtest, nil).VerifyStates(ctx))

		err := NewProcessor(dg, &fakeTransfersSource{}, nil, common.NetworkMainnet, nil).VerifyStates(ctx)
		assert.ErrorIs(t, err, errs.ConflictSetting)
	})

	t.Run("unrecoverable db version", func(t *testing.T) {
		dg := newFakeGRC20DataGateway()
		require.NoError(t, dg.CreateIndexerVersion(ctx, entity.IndexerVersion{DBVersion: DBVersion - 1, EventHashVersion: EventHashVersion, Network: common.NetworkRegtest}))

		err := NewProcessor(dg, &fakeTransfersSource{}, nil, common.NetworkRegtest, nil).VerifyStates(ctx)
		assert.ErrorIs(t, err, errs.ConflictSetting)
	})

	t.Run("missing event type", func(t *testing.T) {
		dg := newFakeGRC20DataGateway()
		dg.state.eventTypes = map[entity.EventType]int32{}

		err := NewProcessor(dg, &fakeTransfersSource{}, nil, common.NetworkRegtest, nil).VerifyStates(ctx)
		assert.ErrorIs(t, err, errs.PrerequisiteMissing)
	})

	t.Run("repairs outdated event hashes", func(t *testing.T) {
		dg := newFakeGRC20DataGateway()
		dg.deploy("arena", "x1", 10, 5, 3, 50)
		source := &fakeTransfersSource{transfers: map[int64][]*types.InscriptionTransfer{
			100: {newMintTransfer(100, 0, "arena", "x1")},
			102: {newMintTransfer(102, 0, "arena", "x1")},
		}}
		p := newTestProcessor(t, dg, source)
		for height := int64(100); height <= 102; height++ {
			require.NoError(t, p.Process(ctx, blockAt(height)))
		}
		expected, err := dg.GetCumulativeEventHashByHeight(ctx, 102)
		require.NoError(t, err)

		dg.state.hashes[101] = entity.CumulativeEventHash{BlockHeight: 101, BlockEventHash: "stale", CumulativeEventHash: "stale"}
		delete(dg.state.hashes, 102)
		dg.state.indexerVersion.EventHashVersion = EventHashVersion - 1

		p = NewProcessor(dg, source, nil, common.NetworkRegtest, nil)
		require.NoError(t, p.VerifyStates(ctx))

		repaired, err := dg.GetCumulativeEventHashByHeight(ctx, 102)
		require.NoError(t, err)
		assert.Equal(t, expected, repaired)
		version, err := dg.GetIndexerVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, int32(EventHashVersion), version.EventHashVersion)
	})
}

func TestShouldReport(t *testing.T) {
	testCases := []struct {
		name               string
		height             int64
		latestHeight       int64
		lastReportedHeight int64
		expected           bool
	}{
		{"near tip", 995, 1000, 990, true},
		{"at tip", 1000, 1000, 999, true},
		{"catching up", 500, 1000, 450, false},
		{"catching up interval reached", 551, 1000, 450, true},
		{"catching up interval boundary", 550, 1000, 450, false},
		{"never reported", 500, 1000, 0, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, shouldReport(tc.height, tc.latestHeight, tc.lastReportedHeight))
		})
	}
}

type fakeReportingClient struct {
	payloads []reportingclient.SubmitBlockReportPayload
}

func (f *fakeReportingClient) SubmitBlockReport(ctx context.Context, payload reportingclient.SubmitBlockReportPayload) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestReportBlock(t *testing.T) {
	ctx := context.Background()
	dg := newFakeGRC20DataGateway()
	client := &fakeReportingClient{}
	p := NewProcessor(dg, &fakeTransfersSource{}, client, common.NetworkRegtest, nil)
	require.NoError(t, p.VerifyStates(ctx))

	require.NoError(t, p.Process(ctx, blockAt(100)))
	require.NoError(t, p.ReportBlock(ctx, blockAt(100), 100))
	require.Len(t, client.payloads, 1)

	payload := client.payloads[0]
	hashes, err := dg.GetCumulativeEventHashByHeight(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "grc20", payload.Type)
	assert.Equal(t, common.NetworkRegtest, payload.Network)
	assert.Equal(t, int64(100), payload.BlockHeight)
	assert.Equal(t, blockAt(100).Hash.String(), payload.BlockHash)
	assert.Equal(t, hashes.BlockEventHash, payload.BlockEventHash)
	assert.Equal(t, hashes.CumulativeEventHash, payload.CumulativeEventHash)

	require.NoError(t, p.Process(ctx, blockAt(101)))
	require.NoError(t, p.ReportBlock(ctx, blockAt(101), 1000))
	assert.Len(t, client.payloads, 1, "catching up blocks are reported every interval only")

	t.Run("disabled", func(t *testing.T) {
		p := NewProcessor(dg, &fakeTransfersSource{}, nil, common.NetworkRegtest, nil)
		assert.NoError(t, p.ReportBlock(ctx, blockAt(100), 100))
	})
}
