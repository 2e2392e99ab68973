package usecase

import (
	"github.com/gaze-network/grc20-indexer/modules/grc20/internal/datagateway"
)

type Usecase struct {
	dg datagateway.GRC20ReaderDataGateway
}

func New(dg datagateway.GRC20ReaderDataGateway) *Usecase {
	return &Usecase{
		dg: dg,
	}
}
