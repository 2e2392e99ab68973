package httphandler

import (
	"github.com/gaze-network/grc20-indexer/common"
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/usecase"
	"github.com/gofiber/fiber/v2"
)

type HttpHandler struct {
	usecase *usecase.Usecase
	network common.Network
}

func New(network common.Network, usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		network: network,
		usecase: usecase,
	}
}

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/grc20")

	r.Get("/block", h.GetCurrentBlock)
	r.Get("/tickers/:tick/:code", h.GetTicker)
	r.Get("/events/:height", h.GetEvents)
	return nil
}
