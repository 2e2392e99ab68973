package postgres

import (
	"encoding/json"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/repository/postgres/gen"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func numericFromDecimal(src decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   src.Coefficient(),
		Exp:   src.Exponent(),
		Valid: true,
	}
}

func decimalFromNumeric(src pgtype.Numeric) decimal.Decimal {
	if !src.Valid || src.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(src.Int, src.Exp)
}

func mapIndexerVersionModelToType(src gen.Grc20IndexerVersion) entity.IndexerVersion {
	var createdAt time.Time
	if src.CreatedAt.Valid {
		createdAt = src.CreatedAt.Time
	}
	return entity.IndexerVersion{
		CreatedAt:        createdAt,
		IndexerVersion:   src.IndexerVersion,
		DBVersion:        src.DbVersion,
		EventHashVersion: src.EventHashVersion,
		Network:          common.Network(src.NetworkType),
	}
}

func mapIndexerVersionTypeToParams(src entity.IndexerVersion) gen.CreateIndexerVersionParams {
	return gen.CreateIndexerVersionParams{
		IndexerVersion:   src.IndexerVersion,
		DbVersion:        src.DBVersion,
		EventHashVersion: src.EventHashVersion,
		NetworkType:      string(src.Network),
	}
}

func mapIndexedBlockModelToType(src gen.Grc20BlockHash) (entity.IndexedBlock, error) {
	hash, err := chainhash.NewHashFromStr(src.BlockHash)
	if err != nil {
		return entity.IndexedBlock{}, errors.Wrap(err, "invalid block hash")
	}
	return entity.IndexedBlock{
		Height: int64(src.BlockHeight),
		Hash:   *hash,
	}, nil
}

func mapCumulativeEventHashModelToType(src gen.Grc20CumulativeEventHash) entity.CumulativeEventHash {
	return entity.CumulativeEventHash{
		BlockHeight:         int64(src.BlockHeight),
		BlockEventHash:      src.BlockEventHash,
		CumulativeEventHash: src.CumulativeEventHash,
	}
}

func mapTickerModelToType(src gen.Grc20Ticker) entity.Ticker {
	return entity.Ticker{
		Tick:                src.Tick,
		Code:                src.Code,
		OriginalTick:        src.OriginalTick,
		MaxTickSupply:       decimalFromNumeric(src.MaxTickSupply),
		MaxCodeSupply:       decimalFromNumeric(src.MaxCodeSupply),
		TickRemainingSupply: decimalFromNumeric(src.TickRemainingSupply),
		CodeRemainingSupply: decimalFromNumeric(src.CodeRemainingSupply),
		Decimals:            uint16(src.Decimals),
		BlockHeight:         int64(src.BlockHeight),
		IsSelfMint:          src.IsSelfMint,
		DeployInscriptionId: src.DeployInscriptionId,
	}
}

// eventMintPayload is the JSONB payload of a mint event row.
type eventMintPayload struct {
	MintedPkScript string `json:"minted_pkScript"`
	MintedWallet   string `json:"minted_wallet"`
	Tick           string `json:"tick"`
	Code           string `json:"code"`
	Amount         string `json:"amount"`
	ParentId       string `json:"parent_id"`
}

func mapEventMintModelToType(src gen.Grc20Event) (entity.EventMint, error) {
	var payload eventMintPayload
	if err := json.Unmarshal(src.Event, &payload); err != nil {
		return entity.EventMint{}, errors.Wrap(err, "failed to unmarshal event payload")
	}
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		return entity.EventMint{}, errors.Wrap(err, "invalid amount")
	}
	return entity.EventMint{
		Id:             src.Id,
		InscriptionId:  src.InscriptionId,
		BlockHeight:    int64(src.BlockHeight),
		MintedPkScript: payload.MintedPkScript,
		MintedWallet:   payload.MintedWallet,
		Tick:           payload.Tick,
		Code:           payload.Code,
		Amount:         amount,
		ParentId:       payload.ParentId,
	}, nil
}

func mapEventMintTypesToParams(eventType int32, src []*entity.EventMint) (gen.BatchCreateEventsParams, error) {
	params := gen.BatchCreateEventsParams{
		IdArr:            make([]int64, 0, len(src)),
		EventTypeArr:     make([]int32, 0, len(src)),
		BlockHeightArr:   make([]int32, 0, len(src)),
		InscriptionIdArr: make([]string, 0, len(src)),
		TickArr:          make([]string, 0, len(src)),
		EventArr:         make([]string, 0, len(src)),
	}
	for _, event := range src {
		payload, err := json.Marshal(eventMintPayload{
			MintedPkScript: event.MintedPkScript,
			MintedWallet:   event.MintedWallet,
			Tick:           event.Tick,
			Code:           event.Code,
			Amount:         event.Amount.String(),
			ParentId:       event.ParentId,
		})
		if err != nil {
			return gen.BatchCreateEventsParams{}, errors.Wrap(err, "failed to marshal event payload")
		}
		params.IdArr = append(params.IdArr, event.Id)
		params.EventTypeArr = append(params.EventTypeArr, eventType)
		params.BlockHeightArr = append(params.BlockHeightArr, int32(event.BlockHeight))
		params.InscriptionIdArr = append(params.InscriptionIdArr, event.InscriptionId)
		params.TickArr = append(params.TickArr, event.Tick)
		params.EventArr = append(params.EventArr, string(payload))
	}
	return params, nil
}

func mapCollectionEntryTypesToParams(src []*entity.CollectionEntry) gen.BatchCreateCollectionsParams {
	params := gen.BatchCreateCollectionsParams{
		TickArr:          make([]string, 0, len(src)),
		CodeArr:          make([]string, 0, len(src)),
		InscriptionIdArr: make([]string, 0, len(src)),
		BlockHeightArr:   make([]int32, 0, len(src)),
	}
	for _, entry := range src {
		params.TickArr = append(params.TickArr, entry.Tick)
		params.CodeArr = append(params.CodeArr, entry.Code)
		params.InscriptionIdArr = append(params.InscriptionIdArr, entry.InscriptionId)
		params.BlockHeightArr = append(params.BlockHeightArr, int32(entry.BlockHeight))
	}
	return params
}
