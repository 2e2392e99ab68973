package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gofiber/fiber/v2"
)

type getCurrentBlockResult struct {
	Hash                string `json:"hash"`
	Height              int64  `json:"height"`
	BlockEventHash      string `json:"blockEventHash"`
	CumulativeEventHash string `json:"cumulativeEventHash"`
}

type getCurrentBlockResponse = common.HttpResponse[getCurrentBlockResult]

func (h *HttpHandler) GetCurrentBlock(ctx *fiber.Ctx) (err error) {
	blockHeader, err := h.usecase.GetLatestBlock(ctx.UserContext())
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicErrorWithKind(errs.NotFound, "no block has been indexed yet")
		}
		return errors.Wrap(err, "error during get latest block")
	}
	hashes, err := h.usecase.GetCumulativeEventHash(ctx.UserContext(), blockHeader.Height)
	if err != nil {
		return errors.Wrap(err, "error during get cumulative event hash")
	}

	resp := getCurrentBlockResponse{
		Result: &getCurrentBlockResult{
			Hash:                blockHeader.Hash.String(),
			Height:              blockHeader.Height,
			BlockEventHash:      hashes.BlockEventHash,
			CumulativeEventHash: hashes.CumulativeEventHash,
		},
	}

	return errors.WithStack(ctx.JSON(resp))
}
