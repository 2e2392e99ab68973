package entity

import (
	"time"

	"github.com/gaze-network/grc20-indexer/common"
)

type IndexerVersion struct {
	CreatedAt        time.Time
	IndexerVersion   string
	DBVersion        int32
	EventHashVersion int32
	Network          common.Network
}
