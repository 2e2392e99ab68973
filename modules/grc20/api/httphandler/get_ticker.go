package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type getTickerRequest struct {
	Tick string `params:"tick"`
	Code string `params:"code"`
}

func (r getTickerRequest) Validate() error {
	var errList []error
	if r.Tick == "" {
		errList = append(errList, errors.New("'tick' is required"))
	}
	if r.Code == "" {
		errList = append(errList, errors.New("'code' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTickerResult struct {
	Tick                string          `json:"tick"`
	OriginalTick        string          `json:"originalTick"`
	Code                string          `json:"code"`
	MaxTickSupply       decimal.Decimal `json:"maxTickSupply"`
	MaxCodeSupply       decimal.Decimal `json:"maxCodeSupply"`
	TickRemainingSupply decimal.Decimal `json:"tickRemainingSupply"`
	CodeRemainingSupply decimal.Decimal `json:"codeRemainingSupply"`
	Decimals            uint16          `json:"decimals"`
	DeployedAtHeight    int64           `json:"deployedAtHeight"`
	IsSelfMint          bool            `json:"isSelfMint"`
	DeployInscriptionId string          `json:"deployInscriptionId"`
}

type getTickerResponse = common.HttpResponse[getTickerResult]

func (h *HttpHandler) GetTicker(ctx *fiber.Ctx) (err error) {
	var req getTickerRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	ticker, err := h.usecase.GetTicker(ctx.UserContext(), req.Tick, req.Code)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicErrorWithKind(errs.NotFound, "ticker not found")
		}
		return errors.Wrap(err, "error during get ticker")
	}

	resp := getTickerResponse{
		Result: &getTickerResult{
			Tick:                ticker.Tick,
			OriginalTick:        ticker.OriginalTick,
			Code:                ticker.Code,
			MaxTickSupply:       ticker.MaxTickSupply,
			MaxCodeSupply:       ticker.MaxCodeSupply,
			TickRemainingSupply: ticker.TickRemainingSupply,
			CodeRemainingSupply: ticker.CodeRemainingSupply,
			Decimals:            ticker.Decimals,
			DeployedAtHeight:    ticker.BlockHeight,
			IsSelfMint:          ticker.IsSelfMint,
			DeployInscriptionId: ticker.DeployInscriptionId,
		},
	}

	return errors.WithStack(ctx.JSON(resp))
}
