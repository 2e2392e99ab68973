package grc20

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/core/indexer"
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/datagateway"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/supplycache"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/gaze-network/grc20-indexer/pkg/logger/slogx"
	"github.com/gaze-network/grc20-indexer/pkg/reportingclient"
)

// Make sure to implement the Processor interfaces
var (
	_ indexer.Processor = (*Processor)(nil)
	_ indexer.Reporter  = (*Processor)(nil)
)

// TransfersSource provides the candidate inscription transfers of a height, in upstream order.
type TransfersSource interface {
	GetTransfers(ctx context.Context, height int64) ([]*types.InscriptionTransfer, error)
}

type ReportingClient interface {
	SubmitBlockReport(ctx context.Context, payload reportingclient.SubmitBlockReportPayload) error
}

type Processor struct {
	grc20Dg         datagateway.GRC20DataGateway
	transfersSource TransfersSource
	reportingClient ReportingClient // nil if reporting is disabled
	network         common.Network
	cleanupFuncs    []func(context.Context) error

	supplies           *supplycache.Cache
	mintEventTypeId    int32 // to be initialized by p.VerifyStates()
	lastReportedHeight int64

	// expected height already warned about for tickers above the indexed height
	tickerResidueHeight int64

	// flush buffers
	newEventMints        []*entity.EventMint
	newCollectionEntries []*entity.CollectionEntry
	tickSupplyChanges    []entity.SupplyChange
	codeSupplyChanges    []entity.SupplyChange
	eventHashString      string
}

func NewProcessor(grc20Dg datagateway.GRC20DataGateway, transfersSource TransfersSource, reportingClient ReportingClient, network common.Network, cleanupFuncs []func(context.Context) error) *Processor {
	return &Processor{
		grc20Dg:         grc20Dg,
		transfersSource: transfersSource,
		reportingClient: reportingClient,
		network:         network,
		cleanupFuncs:    cleanupFuncs,

		supplies: supplycache.New(grc20Dg),

		newEventMints:        make([]*entity.EventMint, 0),
		newCollectionEntries: make([]*entity.CollectionEntry, 0),
		tickSupplyChanges:    make([]entity.SupplyChange, 0),
		codeSupplyChanges:    make([]entity.SupplyChange, 0),
	}
}

// VerifyStates checks the persisted indexer version against this build, repairs recoverable
// databases and loads the supply cache. It must be called before the indexer starts.
func (p *Processor) VerifyStates(ctx context.Context) error {
	eventTypes, err := p.grc20Dg.GetEventTypes(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get event types")
	}
	mintEventTypeId, ok := eventTypes[entity.EventTypeMintInscribe]
	if !ok {
		return errors.Wrapf(errs.PrerequisiteMissing, "event type %q is not registered, please run the database migrations", entity.EventTypeMintInscribe)
	}
	p.mintEventTypeId = mintEventTypeId

	indexerVersion, err := p.grc20Dg.GetIndexerVersion(ctx)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to get indexer version")
	}
	// if not found, create indexer version
	if errors.Is(err, errs.NotFound) {
		if err := p.grc20Dg.CreateIndexerVersion(ctx, entity.IndexerVersion{
			IndexerVersion:   IndexerVersion,
			DBVersion:        DBVersion,
			EventHashVersion: EventHashVersion,
			Network:          p.network,
		}); err != nil {
			return errors.Wrap(err, "failed to create indexer version")
		}
	} else {
		if indexerVersion.Network != p.network {
			return errors.Wrapf(errs.ConflictSetting, "network mismatch: latest indexed network is %q, configured network is %q. If you want to change the network, please reset the database", indexerVersion.Network, p.network)
		}
		if indexerVersion.DBVersion != DBVersion {
			if !slices.Contains(RecoverableDBVersions, indexerVersion.DBVersion) {
				return errors.Wrapf(errs.ConflictSetting, "db version mismatch: current version is %d. Please reset the database to upgrade to version %d", indexerVersion.DBVersion, DBVersion)
			}
			if err := p.repairCumulativeEventHashes(ctx); err != nil {
				return errors.Wrapf(err, "failed to upgrade db version %d", indexerVersion.DBVersion)
			}
		} else if indexerVersion.EventHashVersion != EventHashVersion {
			if err := p.repairCumulativeEventHashes(ctx); err != nil {
				return errors.Wrapf(err, "failed to upgrade event hash version %d", indexerVersion.EventHashVersion)
			}
		}
	}

	if err := p.supplies.Load(ctx); err != nil {
		return errors.Wrap(err, "failed to load supply cache")
	}
	tickersCached.Set(float64(p.supplies.Len()))
	return nil
}

// Name implements indexer.Processor.
func (p *Processor) Name() string {
	return common.ModuleGRC20.String()
}

// StartingBlock implements indexer.Processor.
func (p *Processor) StartingBlock() types.BlockHeader {
	return types.BlockHeader{
		Height: firstInscriptionHeights[p.network] - 1,
	}
}

// CurrentBlock implements indexer.Processor.
func (p *Processor) CurrentBlock(ctx context.Context) (types.BlockHeader, error) {
	blockHeader, err := p.grc20Dg.GetLatestBlock(ctx)
	if err != nil {
		return types.BlockHeader{}, errors.Wrap(err, "failed to get latest block")
	}
	return blockHeader, nil
}

// GetIndexedBlock implements indexer.Processor.
func (p *Processor) GetIndexedBlock(ctx context.Context, height int64) (types.BlockHeader, error) {
	block, err := p.grc20Dg.GetIndexedBlockByHeight(ctx, height)
	if err != nil {
		return types.BlockHeader{}, errors.Wrap(err, "failed to get indexed block")
	}
	return types.BlockHeader{
		Height: block.Height,
		Hash:   block.Hash,
	}, nil
}

// RevertData implements indexer.Processor.
func (p *Processor) RevertData(ctx context.Context, height int64) error {
	if err := p.revertData(ctx, height); err != nil {
		return errors.WithStack(err)
	}
	if err := p.supplies.Load(ctx); err != nil {
		return errors.Wrap(err, "failed to reload supply cache")
	}
	tickersCached.Set(float64(p.supplies.Len()))
	return nil
}

func (p *Processor) revertData(ctx context.Context, height int64) error {
	grc20DgTx, err := p.grc20Dg.BeginGRC20Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := grc20DgTx.Rollback(context.WithoutCancel(ctx)); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction",
				slogx.Error(err),
				slogx.String("event", "rollback_grc20_revert"),
			)
		}
	}()

	ticks, codes, err := grc20DgTx.GetMintedAmountsAfterHeight(ctx, p.mintEventTypeId, height)
	if err != nil {
		return errors.Wrap(err, "failed to get minted amounts")
	}
	if err := grc20DgTx.IncreaseRemainingSupplies(ctx, ticks, codes); err != nil {
		return errors.Wrap(err, "failed to restore remaining supplies")
	}
	if err := grc20DgTx.DeleteEventsAfterHeight(ctx, height); err != nil {
		return errors.Wrap(err, "failed to delete events")
	}
	if err := grc20DgTx.DeleteCollectionEntriesAfterHeight(ctx, height); err != nil {
		return errors.Wrap(err, "failed to delete collection entries")
	}
	if err := grc20DgTx.DeleteCumulativeEventHashesAfterHeight(ctx, height); err != nil {
		return errors.Wrap(err, "failed to delete cumulative event hashes")
	}
	if err := grc20DgTx.DeleteIndexedBlocksAfterHeight(ctx, height); err != nil {
		return errors.Wrap(err, "failed to delete indexed blocks")
	}
	if err := grc20DgTx.ResetSequences(ctx); err != nil {
		return errors.Wrap(err, "failed to reset sequences")
	}

	if err := grc20DgTx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	logger.InfoContext(ctx, "Reverted grc20 data",
		slogx.Int64("to_height", height),
		slogx.Int("restored_ticks", len(ticks)),
		slogx.Int("restored_codes", len(codes)),
	)
	return nil
}

func (p *Processor) Shutdown(ctx context.Context) error {
	var errs []error
	for _, cleanup := range p.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.WithStack(errors.Join(errs...))
}
