package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/common/errs"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type getEventsRequest struct {
	Height int64 `params:"height"`
}

func (r getEventsRequest) Validate() error {
	var errList []error
	if r.Height < 0 {
		errList = append(errList, errors.New("'height' must be non-negative"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type mintEvent struct {
	Id             int64           `json:"id"`
	Type           string          `json:"type"`
	InscriptionId  string          `json:"inscriptionId"`
	BlockHeight    int64           `json:"blockHeight"`
	MintedPkScript string          `json:"mintedPkScript"`
	MintedWallet   string          `json:"mintedWallet"`
	Tick           string          `json:"tick"`
	Code           string          `json:"code"`
	Amount         decimal.Decimal `json:"amount"`
	ParentId       string          `json:"parentId"`
}

type getEventsResult struct {
	Height int64       `json:"height"`
	Events []mintEvent `json:"events"`
}

type getEventsResponse = common.HttpResponse[getEventsResult]

func (h *HttpHandler) GetEvents(ctx *fiber.Ctx) (err error) {
	var req getEventsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	events, err := h.usecase.GetMintEventsByHeight(ctx.UserContext(), req.Height)
	if err != nil {
		return errors.Wrap(err, "error during get mint events")
	}

	resp := getEventsResponse{
		Result: &getEventsResult{
			Height: req.Height,
			Events: lo.Map(events, func(event *entity.EventMint, _ int) mintEvent {
				return mintEvent{
					Id:             event.Id,
					Type:           string(entity.EventTypeMintInscribe),
					InscriptionId:  event.InscriptionId,
					BlockHeight:    event.BlockHeight,
					MintedPkScript: event.MintedPkScript,
					MintedWallet:   event.MintedWallet,
					Tick:           event.Tick,
					Code:           event.Code,
					Amount:         event.Amount,
					ParentId:       event.ParentId,
				}
			}),
		},
	}

	return errors.WithStack(ctx.JSON(resp))
}
