package datasources

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/core/types"
	"github.com/gaze-network/grc20-indexer/internal/postgres"
	"github.com/gaze-network/grc20-indexer/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/sync/errgroup"
)

// Make sure to implement the Datasource interface
var _ Datasource = (*OrdinalsDatasource)(nil)

// MinDefaultMaxTransferCount is the lowest upstream `default` transfer limit that still records
// the reveal transfer of every inscription.
const MinDefaultMaxTransferCount = 2

const (
	getLatestBlockHeightSQL = `SELECT COALESCE(MAX(block_height), -1) FROM block_hashes`

	getBlockHashSQL = `SELECT block_hash FROM block_hashes WHERE block_height = $1`

	getNetworkTypeSQL = `SELECT network_type FROM ord_network_type LIMIT 1`

	getTransferCountsSQL = `SELECT event_type, max_transfer_cnt FROM ord_transfer_counts`

	getTransfersSQL = `SELECT ot.id, ot.block_height, ot.inscription_id, ot.old_satpoint, ot.new_pkscript, ot.new_wallet, ot.sent_as_fee, oc."content", oc.content_type, onti.parent_id
FROM ord_transfers ot
LEFT JOIN ord_content oc ON ot.inscription_id = oc.inscription_id
LEFT JOIN ord_number_to_id onti ON ot.inscription_id = onti.inscription_id
WHERE ot.block_height = $1 AND COALESCE(ot.old_satpoint, '') = ''
	AND oc."content" IS NOT NULL AND oc."content"->>'p' = $2
ORDER BY ot.id ASC`
)

// OrdinalsDatasource reads blocks and inscription transfers from the ordinals main index database.
type OrdinalsDatasource struct {
	db       postgres.DB
	protocol string
}

// NewOrdinals creates a datasource that reads transfers tagged with the given protocol (the `p` field of the content).
func NewOrdinals(db postgres.DB, protocol string) *OrdinalsDatasource {
	return &OrdinalsDatasource{
		db:       db,
		protocol: protocol,
	}
}

func (d *OrdinalsDatasource) Name() string {
	return "ordinals_postgres"
}

func (d *OrdinalsDatasource) GetLatestBlockHeight(ctx context.Context) (int64, error) {
	var height int64
	if err := d.db.QueryRow(ctx, getLatestBlockHeightSQL).Scan(&height); err != nil {
		return 0, errors.Wrap(err, "error during query")
	}
	return height, nil
}

func (d *OrdinalsDatasource) GetBlockHeader(ctx context.Context, height int64) (types.BlockHeader, error) {
	var hashStr string
	if err := d.db.QueryRow(ctx, getBlockHashSQL, height).Scan(&hashStr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.BlockHeader{}, errors.WithStack(errs.NotFound)
		}
		return types.BlockHeader{}, errors.Wrap(err, "error during query")
	}
	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		return types.BlockHeader{}, errors.Wrapf(err, "invalid block hash at height %d", height)
	}
	return types.BlockHeader{
		Height: height,
		Hash:   *hash,
	}, nil
}

// GetTransfers returns the never-moved inscription transfers of the given height in upstream insertion order.
func (d *OrdinalsDatasource) GetTransfers(ctx context.Context, height int64) ([]*types.InscriptionTransfer, error) {
	rows, err := d.db.Query(ctx, getTransfersSQL, height, d.protocol)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	transfers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*types.InscriptionTransfer, error) {
		var (
			t           types.InscriptionTransfer
			oldSatPoint pgtype.Text
			pkScript    pgtype.Text
			wallet      pgtype.Text
			sentAsFee   pgtype.Bool
			content     []byte
			contentType pgtype.Text
			parentId    pgtype.Text
		)
		if err := row.Scan(&t.Id, &t.BlockHeight, &t.InscriptionId, &oldSatPoint, &pkScript, &wallet, &sentAsFee, &content, &contentType, &parentId); err != nil {
			return nil, errors.WithStack(err)
		}
		t.OldSatPoint = oldSatPoint.String
		t.NewPkScript = pkScript.String
		t.NewWallet = wallet.String
		t.SentAsFee = sentAsFee.Bool
		t.ContentType = contentType.String
		t.ParentId = parentId.String
		if content != nil {
			t.Content = json.RawMessage(content)
		}
		return &t, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan transfers")
	}
	return transfers, nil
}

func (d *OrdinalsDatasource) GetNetworkType(ctx context.Context) (common.Network, error) {
	var network string
	if err := d.db.QueryRow(ctx, getNetworkTypeSQL).Scan(&network); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errors.WithStack(errs.NotFound)
		}
		return "", errors.Wrap(err, "error during query")
	}
	return common.Network(network), nil
}

// GetDefaultMaxTransferCount returns the `default` transfer limit configured on the upstream ord index.
// It returns 0 when the counts exist but carry no default entry, and errs.NotFound when there are no counts at all.
func (d *OrdinalsDatasource) GetDefaultMaxTransferCount(ctx context.Context) (int64, error) {
	rows, err := d.db.Query(ctx, getTransferCountsSQL)
	if err != nil {
		return 0, errors.Wrap(err, "error during query")
	}
	type transferCount struct {
		EventType      string
		MaxTransferCnt int64
	}
	counts, err := pgx.CollectRows(rows, pgx.RowToStructByPos[transferCount])
	if err != nil {
		return 0, errors.Wrap(err, "failed to scan transfer counts")
	}
	if len(counts) == 0 {
		return 0, errors.WithStack(errs.NotFound)
	}
	for _, count := range counts {
		if count.EventType == "default" {
			return count.MaxTransferCnt, nil
		}
	}
	return 0, nil
}

// CheckPrerequisites verifies the upstream index is usable: it must record its network type, that
// network must equal the configured one, and its default transfer limit must be at least
// MinDefaultMaxTransferCount.
func (d *OrdinalsDatasource) CheckPrerequisites(ctx context.Context, network common.Network) error {
	ctx = logger.WithContext(ctx, slog.String("datasource", d.Name()))

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		upstreamNetwork, err := d.GetNetworkType(gctx)
		if err != nil {
			if errors.Is(err, errs.NotFound) {
				return errors.Wrap(errs.PrerequisiteMissing, "ord_network_type not found, the upstream ordinals index must be recreated or fixed")
			}
			return errors.Wrap(err, "failed to get upstream network type")
		}
		if upstreamNetwork != network {
			return errors.Wrapf(errs.ConflictSetting, "network mismatch: upstream ordinals index is %q, configured network is %q", upstreamNetwork, network)
		}
		return nil
	})
	group.Go(func() error {
		count, err := d.GetDefaultMaxTransferCount(gctx)
		if err != nil {
			if errors.Is(err, errs.NotFound) {
				return errors.Wrap(errs.PrerequisiteMissing, "ord_transfer_counts not found, the upstream ordinals index must be fixed")
			}
			return errors.Wrap(err, "failed to get upstream transfer counts")
		}
		if count < MinDefaultMaxTransferCount {
			return errors.Wrapf(errs.ConflictSetting, "upstream default max_transfer_cnt is %d, at least %d is required", count, MinDefaultMaxTransferCount)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return errors.WithStack(err)
	}

	logger.DebugContext(ctx, "Upstream ordinals index prerequisites verified")
	return nil
}
