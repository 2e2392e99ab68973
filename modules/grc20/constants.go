package grc20

import (
	"github.com/gaze-network/grc20-indexer/common"
)

const (
	Version          = "v0.4.0"
	IndexerVersion   = "gaze-grc20-full-node " + Version
	DBVersion        = 4
	EventHashVersion = 2

	// Protocol is the `p` field of inscription contents handled by this module.
	Protocol = "grc-20"

	reportType     = "grc20"
	reportNodeType = "full_node"

	// insertBatchSize bounds the number of rows of one insert statement.
	insertBatchSize = 1000
)

// RecoverableDBVersions lists the older database versions that can be upgraded in place
// by recomputing the cumulative event hashes.
var RecoverableDBVersions = []int32{}

// firstInscriptionHeights is the first height processed on each network. Heights before
// activation still get block hash and cumulative event hash records.
var firstInscriptionHeights = map[common.Network]int64{
	common.NetworkMainnet: 767430,
	common.NetworkTestnet: 2581400,
	common.NetworkSignet:  188171,
	common.NetworkRegtest: 0,
}

// activationHeights is the first height where GRC-20 operations are indexed.
var activationHeights = map[common.Network]int64{
	common.NetworkMainnet: 836510,
	common.NetworkTestnet: 2581400,
	common.NetworkSignet:  188171,
	common.NetworkRegtest: 0,
}
